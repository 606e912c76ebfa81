// Package records is the record store client: typed, owner scoped CRUD over
// the fittrack entity collections.
package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/pkg"
)

var ErrNotFound = errors.New("record not found")

// ValidationError is returned by Validate before anything reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// storeError turns constraint failures reported by postgres into validation
// errors, so callers see the same error kind whichever side caught the input.
func storeError(err error) error {
	switch {
	case pkg.IsCheckViolationError(err):
		return &ValidationError{Field: "record", Message: "value out of range"}
	case pkg.IsInvalidTextRepresentationError(err):
		return &ValidationError{Field: "record", Message: "malformed value"}
	}
	return err
}

type Order int

const (
	OrderDateAsc Order = iota
	OrderDateDesc
)

func (o Order) sql() string {
	if o == OrderDateDesc {
		return "DESC"
	}
	return "ASC"
}

// Query filters a List call. OwnerID is mandatory; the other fields are optional.
type Query struct {
	OwnerID uuid.UUID
	// Date matches one calendar day exactly
	Date *dates.Date
	// From and To bound the date range, both inclusive
	From  *dates.Date
	To    *dates.Date
	Order Order
	// Limit of 0 means no limit
	Limit int
}

// Record is implemented by every entity model.
type Record[T any] interface {
	Key() uuid.UUID
	Validate() error
	// WithOwner returns a copy of the record owned by owner.
	WithOwner(owner uuid.UUID) T
	// Clone returns a copy that shares no pointers with the receiver.
	Clone() T
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Collection is the store contract for one entity type.
type Collection[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Insert(ctx context.Context, record T) (*T, error)
	// Update replaces every mutable field of the record owned by owner; the id
	// and owner are never part of the payload.
	Update(ctx context.Context, owner, id uuid.UUID, record T) (*T, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

func requireNonNegative(field string, value float64) error {
	if value < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

// requireCount bounds values stored in INTEGER columns.
func requireCount(field string, value int) error {
	switch {
	case value < 0:
		return &ValidationError{Field: field, Message: "must not be negative"}
	case value > math.MaxInt32:
		return &ValidationError{Field: field, Message: "is too large"}
	}
	return nil
}

func requireDate(field string, d dates.Date) error {
	if d.IsZero() {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// normalizeNotes maps blank notes to nil so they are stored as NULL.
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
