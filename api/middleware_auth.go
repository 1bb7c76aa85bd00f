package api

import (
	"context"
	"net/http"

	"github.com/credenzahq/credenza/db"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the request context.
func (a *Api) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, resp, err := a.auth.Authenticate(r)
		if err != nil {
			writeJsonError(w, resp)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userContextKey).(*db.User)
	return user, ok
}
