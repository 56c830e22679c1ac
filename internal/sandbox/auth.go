package sandbox

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

func accountFrom(ctx context.Context) (account, bool) {
	a, ok := ctx.Value(ctxKey{}).(account)
	return a, ok
}

// BearerAuth rejects requests without a token issued by the login endpoint.
func BearerAuth(d *Data) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			acct, ok := d.accountByToken(auth[len(prefix):])
			if !ok {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acct)))
		})
	}
}

// RequireAdmin must run after BearerAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, ok := accountFrom(r.Context())
		if !ok || acct.Role != "admin" {
			httpError(w, http.StatusForbidden, "permission_error", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
