package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

// Provider implements sign up, sign in and sign out on top of the user store
// and the session storage.
type Provider struct {
	users    UserStore
	sessions SessionStorage
	resolver *IdentityResolver
	metrics  *metrics.Manager

	now          func() time.Time
	hashPassword func(password string) (string, error)
}

func NewProvider(
	users UserStore,
	sessions SessionStorage,
	resolver *IdentityResolver,
	metricsManager *metrics.Manager,
) *Provider {
	return &Provider{
		users:        users,
		sessions:     sessions,
		resolver:     resolver,
		metrics:      metricsManager,
		now:          time.Now,
		hashPassword: pkg.HashPassword,
	}
}

func validateCredentials(email, password string) *Failure {
	if strings.TrimSpace(email) == "" {
		return fail("Email is required", nil)
	}
	if password == "" {
		return fail("Password is required", nil)
	}
	return nil
}

// SignUp creates the account. It does not sign the user in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (_ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.signUp")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if f := validateCredentials(email, password); f != nil {
		return nil, f
	}
	if len(password) < MinPasswordLength {
		return nil, fail("Password must be at least 6 characters", nil)
	}

	hash, err := p.hashPassword(password)
	if err != nil {
		return nil, fail("Sign up failed", err)
	}

	user, err := p.users.Create(ctx, email, hash)
	if errors.Is(err, ErrEmailTaken) {
		return nil, fail("Email already registered", err)
	}
	if err != nil {
		log.Errorf("sign up, create user: %s", err)
		return nil, fail("Sign up failed", err)
	}

	if p.metrics != nil {
		p.metrics.CounterSignUps.Inc()
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	return user.Identity(), nil
}

// SignIn checks the credentials and opens a new session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (_ string, _ *Identity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.signIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		p.countSignIn(err)
	}()

	if f := validateCredentials(email, password); f != nil {
		return "", nil, f
	}

	user, err := p.users.ByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Tracef("[email] failed sign in attempt for: %s", email)
		return "", nil, fail("Invalid email or password", ErrInvalidCredentials)
	}
	if err != nil {
		log.Errorf("sign in, get user: %s", err)
		return "", nil, fail("Sign in failed", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		log.Tracef("[password] failed sign in attempt for: %s", email)
		return "", nil, fail("Invalid email or password", ErrInvalidCredentials)
	}

	identity := user.Identity()
	token, err := p.sessions.Create(ctx, *identity, p.now())
	if err != nil {
		log.Errorf("sign in, create session: %s", err)
		return "", nil, fail("Sign in failed", err)
	}

	span.SetAttributes(attribute.String("user.id", identity.UserID.String()))
	return token, identity, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.signOut")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return fail("Not signed in", ErrSessionNotFound)
	}

	p.resolver.Invalidate(token)
	if err := p.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fail("Not signed in", err)
		}
		log.Errorf("sign out: %s", err)
		return fail("Sign out failed", err)
	}

	return nil
}

// Resolve returns the identity behind token, or nil when there is none.
func (p *Provider) Resolve(ctx context.Context, token string) (*Identity, error) {
	return p.resolver.Resolve(ctx, token)
}

func (p *Provider) countSignIn(err error) {
	if p.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		result = "invalid"
	case err != nil:
		result = "error"
	}
	p.metrics.CounterSignIns.WithLabelValues(result).Inc()
}
