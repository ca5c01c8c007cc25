package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/leolearn/leo-web/internal/models"
	"github.com/rs/zerolog/log"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

type contextKey string

const userKey = contextKey("currentUser")

// UserResolver resolves a session token back to its user.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (models.User, bool)
}

// WithUser stores the current user in ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user placed by SessionMiddleware, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// TokenFromRequest reads the session token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware attaches the current user to the request context when the
// request carries a live session. It never rejects a request.
func SessionMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := resolver.CurrentUser(r.Context(), token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug().Str("user_id", user.ID).Str("username", user.Username).Msg("Authenticated request")
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequirePage redirects anonymous requests to loginPath.
func RequirePage(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPI rejects anonymous requests with 401.
func RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
