package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

const (
	testEmail        = "jane@example.com"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
)

func newTestProvider(t *testing.T) (*Provider, *MockUserStore, *MockSessionStorage, *metrics.Manager) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := NewMockUserStore(ctrl)
	sessions := NewMockSessionStorage(ctrl)
	metricsManager := metrics.NewTestManager()

	provider := NewProvider(users, sessions, NewIdentityResolver(sessions, 0, 0), metricsManager)
	provider.hashPassword = func(password string) (string, error) {
		return "hashed:" + password, nil
	}
	return provider, users, sessions, metricsManager
}

func requireFailure(t *testing.T, err error, reason string) *Failure {
	t.Helper()
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, reason, f.Reason)
	return f
}

func TestProvider_SignUp(t *testing.T) {
	provider, users, _, metricsManager := newTestProvider(t)
	ctx := context.Background()
	userID := uuid.New()

	users.EXPECT().
		Create(gomock.Any(), testEmail, "hashed:"+testPassword).
		Return(&User{ID: userID, Email: testEmail}, nil)

	identity, err := provider.SignUp(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: userID, Email: testEmail}, identity)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSignUps))
}

func TestProvider_SignUp_Failures(t *testing.T) {
	provider, users, _, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "", testPassword)
	requireFailure(t, err, "Email is required")

	_, err = provider.SignUp(ctx, testEmail, "")
	requireFailure(t, err, "Password is required")

	_, err = provider.SignUp(ctx, testEmail, "12345")
	f := requireFailure(t, err, "Password must be at least 6 characters")
	assert.Nil(t, f.Err)

	users.EXPECT().Create(gomock.Any(), testEmail, gomock.Any()).Return(nil, ErrEmailTaken)
	_, err = provider.SignUp(ctx, testEmail, "123456")
	requireFailure(t, err, "Email already registered")
	assert.ErrorIs(t, err, ErrEmailTaken)

	users.EXPECT().Create(gomock.Any(), testEmail, gomock.Any()).Return(nil, errors.New("db down"))
	_, err = provider.SignUp(ctx, testEmail, "123456")
	requireFailure(t, err, "Sign up failed")
}

func TestProvider_SignIn(t *testing.T) {
	provider, users, sessions, metricsManager := newTestProvider(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }

	user := &User{ID: uuid.New(), Email: testEmail, PasswordHash: testPasswordHash}
	users.EXPECT().ByEmail(gomock.Any(), testEmail).Return(user, nil)
	sessions.EXPECT().Create(gomock.Any(), *user.Identity(), now).Return("tok", nil)

	token, identity, err := provider.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSignIns.WithLabelValues("ok")))
}

func TestProvider_SignIn_Failures(t *testing.T) {
	provider, users, sessions, metricsManager := newTestProvider(t)
	ctx := context.Background()

	_, _, err := provider.SignIn(ctx, " ", testPassword)
	requireFailure(t, err, "Email is required")

	users.EXPECT().ByEmail(gomock.Any(), "nobody@example.com").Return(nil, ErrUserNotFound)
	_, _, err = provider.SignIn(ctx, "nobody@example.com", testPassword)
	requireFailure(t, err, "Invalid email or password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user := &User{ID: uuid.New(), Email: testEmail, PasswordHash: testPasswordHash}
	users.EXPECT().ByEmail(gomock.Any(), testEmail).Return(user, nil)
	_, _, err = provider.SignIn(ctx, testEmail, "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.EXPECT().ByEmail(gomock.Any(), testEmail).Return(user, nil)
	sessions.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("redis down"))
	token, identity, err := provider.SignIn(ctx, testEmail, testPassword)
	requireFailure(t, err, "Sign in failed")
	assert.Empty(t, token)
	assert.Nil(t, identity)

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterSignIns.WithLabelValues("invalid")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterSignIns.WithLabelValues("error")))
}

func TestProvider_SignOut(t *testing.T) {
	provider, _, sessions, _ := newTestProvider(t)
	ctx := context.Background()

	err := provider.SignOut(ctx, "")
	requireFailure(t, err, "Not signed in")

	sessions.EXPECT().Delete(gomock.Any(), "tok").Return(nil)
	require.NoError(t, provider.SignOut(ctx, "tok"))

	sessions.EXPECT().Delete(gomock.Any(), "tok").Return(ErrSessionNotFound)
	err = provider.SignOut(ctx, "tok")
	requireFailure(t, err, "Not signed in")

	sessions.EXPECT().Delete(gomock.Any(), "tok").Return(errors.New("redis down"))
	err = provider.SignOut(ctx, "tok")
	requireFailure(t, err, "Sign out failed")
}

func TestProvider_SignOut_InvalidatesCachedIdentity(t *testing.T) {
	provider, _, sessions, _ := newTestProvider(t)
	ctx := context.Background()
	identity := &Identity{UserID: uuid.New(), Email: testEmail}

	sessions.EXPECT().Get(gomock.Any(), "tok").Return(identity, nil)
	resolved, err := provider.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)

	sessions.EXPECT().Delete(gomock.Any(), "tok").Return(nil)
	require.NoError(t, provider.SignOut(ctx, "tok"))

	sessions.EXPECT().Get(gomock.Any(), "tok").Return(nil, ErrSessionNotFound)
	resolved, err = provider.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
