package middleware

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=middleware_test

type identityResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// SessionMiddlewareHandler attaches a resolved auth.Session to every request
// and sends visitors without an identity to the auth page.
type SessionMiddlewareHandler struct {
	resolver     identityResolver
	allowedPaths map[string]bool
}

func NewSessionMiddlewareHandler(resolver identityResolver) *SessionMiddlewareHandler {
	return &SessionMiddlewareHandler{
		resolver: resolver,
		allowedPaths: map[string]bool{
			"/auth":         true,
			"/auth/signin":  true,
			"/auth/signup":  true,
			"/auth/signout": true,
			"/404":          true,
			"/version":      true,
		},
	}
}

func (h *SessionMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	return h.allowedPaths[path]
}

func (h *SessionMiddlewareHandler) SessionCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.session")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			token := auth.TokenFromRequest(r)
			session := auth.NewSession(token)

			identity, err := h.resolver.Resolve(ctx, token)
			if err != nil {
				// treat as signed out, the store may be back on the next request
				log.Errorf("[failed session resolve] => %s: %s", r.URL.Path, err)
				span.RecordError(err)
				identity = nil
			}
			session.Resolve(ctx, identity)
			r = r.WithContext(auth.WithSession(r.Context(), session))

			if identity == nil && !h.pathIsAlwaysAllowed(r.URL.Path) {
				log.Tracef("[no identity] [session middleware] redirect to /auth => %s", r.URL.Path)
				span.SetStatus(codes.Error, "not-signed-in")
				http.Redirect(w, r, "/auth", http.StatusSeeOther)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
