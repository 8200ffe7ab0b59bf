package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/services"
)

// TokenCookie carries the session token set at login.
const TokenCookie = "token"

type contextKey string

const authStateKey contextKey = "auth_state"

// Authenticator resolves a session token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

type authState struct {
	presented bool
	identity  *services.Identity
	err       error
}

// SessionToken returns the token from the token cookie, falling back to an
// Authorization: Bearer header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Identify validates the session token when one is presented and records
// the outcome. It never rejects a request; an invalid token simply leaves
// the request anonymous.
func Identify(auth Authenticator, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &authState{}
			if token := SessionToken(r); token != "" {
				state.presented = true
				state.identity, state.err = auth.Authenticate(r.Context(), token)
				if state.err != nil {
					state.identity = nil
					log.Debugw("Session token rejected", "path", r.URL.Path, "error", state.err)
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authStateKey, state)))
		})
	}
}

// RequireAuth rejects requests without a valid session: 401 when no token
// was presented, 403 when it failed validation. Must run after Identify.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, _ := r.Context().Value(authStateKey).(*authState)
		switch {
		case state == nil || !state.presented:
			respondError(w, http.StatusUnauthorized, "Access token required", "Please sign in.")
		case state.identity == nil && state.err != nil && !errors.Is(state.err, services.ErrInvalidSession):
			respondError(w, http.StatusInternalServerError, "Authentication unavailable", "Please try again later.")
		case state.identity == nil:
			respondError(w, http.StatusForbidden, "Invalid token", "Your session is invalid or has expired.")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// IdentityFrom returns the verified caller, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *services.Identity {
	state, _ := ctx.Value(authStateKey).(*authState)
	if state == nil {
		return nil
	}
	return state.identity
}

// UserID returns the verified caller's id, or "".
func UserID(ctx context.Context) string {
	if id := IdentityFrom(ctx); id != nil {
		return id.UserID
	}
	return ""
}

// WithIdentity returns ctx carrying id as the verified caller.
func WithIdentity(ctx context.Context, id *services.Identity) context.Context {
	return context.WithValue(ctx, authStateKey, &authState{presented: true, identity: id})
}
