package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

const (
	TokenHeader   = "X-FITTRACK-TOKEN"
	SessionCookie = "fittrack_session"
)

// TokenFromRequest prefers the header over the cookie.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Response is the JSON view of the auth page.
type Response struct {
	Page     string    `json:"page"`
	Identity *Identity `json:"identity,omitempty"`
	Token    string    `json:"token,omitempty"`
	Notice   *Notice   `json:"notice,omitempty"`
}

type Handler struct {
	provider  *Provider
	cookieTTL time.Duration
}

func NewHandler(provider *Provider, cookieTTL time.Duration) *Handler {
	if cookieTTL <= 0 {
		cookieTTL = DefaultTTL
	}
	return &Handler{
		provider:  provider,
		cookieTTL: cookieTTL,
	}
}

// SetupRoutes registers the /auth routes; mws (rate limiting) wrap the
// sign in/up/out actions only, never the auth page itself.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, mws ...mux.MiddlewareFunc) {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("", handler.handleAuthPage).Methods("GET").Name("auth")

	actionsRouter := authRouter.NewRoute().Subrouter()
	actionsRouter.HandleFunc("/signin", handler.handleSignIn).Methods("POST", "OPTIONS").Name("auth-signin")
	actionsRouter.HandleFunc("/signup", handler.handleSignUp).Methods("POST", "OPTIONS").Name("auth-signup")
	actionsRouter.HandleFunc("/signout", handler.handleSignOut).Methods("POST", "OPTIONS").Name("auth-signout")
	actionsRouter.Use(mws...)
}

func (handler *Handler) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		if identity, _ := session.Identity(); identity != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	pkg.WriteJSON(w, http.StatusOK, Response{Page: "auth"})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func readCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return credentials{}, err
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return credentials{}, err
	}
	return credentials{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}, nil
}

func handleOptions(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Add("Allow", "POST, OPTIONS")
	w.WriteHeader(http.StatusOK)
	return true
}

func (handler *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signIn")
	defer span.End()

	if handleOptions(w, r) {
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("sign in, read credentials: %s", err)
		writeNotice(w, http.StatusBadRequest, "error", "Invalid request")
		return
	}

	token, identity, err := handler.provider.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}

	if session := SessionFromContext(ctx); session != nil {
		session.Resolve(ctx, identity)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(handler.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Tracef("sign in success: %s", identity.UserID)
	pkg.WriteJSON(w, http.StatusOK, Response{
		Page:     "auth",
		Identity: identity,
		Token:    token,
		Notice:   &Notice{Level: "success", Message: "Signed in successfully"},
	})
}

func (handler *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signUp")
	defer span.End()

	if handleOptions(w, r) {
		return
	}

	creds, err := readCredentials(r)
	if err != nil {
		log.Errorf("sign up, read credentials: %s", err)
		writeNotice(w, http.StatusBadRequest, "error", "Invalid request")
		return
	}

	if _, err := handler.provider.SignUp(ctx, creds.Email, creds.Password); err != nil {
		writeFailure(w, err)
		return
	}

	writeNotice(w, http.StatusCreated, "success", "Account created. Please sign in.")
}

func (handler *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.signOut")
	defer span.End()

	if handleOptions(w, r) {
		return
	}

	token := TokenFromRequest(r)
	if err := handler.provider.SignOut(ctx, token); err != nil {
		writeFailure(w, err)
		return
	}

	if session := SessionFromContext(ctx); session != nil {
		session.Resolve(ctx, nil)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeNotice(w, http.StatusOK, "success", "Signed out")
}

func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	reason := "Something went wrong"

	var f *Failure
	if errors.As(err, &f) {
		reason = f.Reason
		switch {
		case f.Err == nil:
			status = http.StatusBadRequest
		case errors.Is(f.Err, ErrInvalidCredentials), errors.Is(f.Err, ErrSessionNotFound):
			status = http.StatusUnauthorized
		case errors.Is(f.Err, ErrEmailTaken):
			status = http.StatusConflict
		}
	}

	writeNotice(w, status, "error", reason)
}

func writeNotice(w http.ResponseWriter, status int, level, message string) {
	pkg.WriteJSON(w, status, Response{
		Page:   "auth",
		Notice: &Notice{Level: level, Message: message},
	})
}
