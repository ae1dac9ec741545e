package providers

import (
	"crypto/subtle"
	"net/http"
)

const AdminTokenHeader = "X-Token"

// AdminGuard rejects requests whose X-Token header does not match token.
// An empty token locks the wrapped handler entirely.
func AdminGuard(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		got := r.Header.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
