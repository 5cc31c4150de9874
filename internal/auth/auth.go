package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/estudiante-elite/backend/pkg/utils"
)

// User is the authenticated identity attached to every request. Identity
// verification itself happens upstream (the hosted auth provider issues the
// token); this service only requires a stable user ID and a display name.
type User struct {
	ID    string
	Name  string
	Token string
}

type ctxKey struct{}

// UserFromContext returns the request identity stored by Middleware.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(ctxKey{}).(User)
	return user, ok
}

// WithUser stores an identity in the context. Exposed for handler tests.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// Middleware extracts the authenticated identity from request headers and
// rejects requests that carry none. The bearer token is kept so store calls
// can forward it for row-level authorization.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
		if userID == "" {
			utils.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userName := strings.TrimSpace(r.Header.Get("X-User-Name"))
		if userName == "" {
			userName = "Estudiante"
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		user := User{ID: userID, Name: userName, Token: strings.TrimSpace(token)}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
