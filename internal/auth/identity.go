// Package auth is the session provider: accounts, opaque session tokens kept
// in redis, and the per-request Session that pages subscribe to.
package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
)

// MinPasswordLength is enforced on sign up.
const MinPasswordLength = 6

// Identity is the signed in user as seen by the rest of the service.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	// ExpiresAt is when the backing session ends; zero outside a session.
	ExpiresAt time.Time `json:"-"`
}

// Failure is a user facing sign in/up/out failure. Reason is safe to show.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Reason
	}
	return f.Reason + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(reason string, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}
