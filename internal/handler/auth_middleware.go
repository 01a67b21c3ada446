package handler

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/suar-net/hookmirror/internal/config"
)

// AuthMiddleware guards the management endpoints with the single shared admin
// credential over HTTP basic auth.
type AuthMiddleware struct {
	admin  config.AdminConfig
	logger *log.Logger
}

func NewAuthMiddleware(admin config.AdminConfig, l *log.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		admin:  admin,
		logger: l,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
			respondWithError(w, http.StatusUnauthorized, "Authorization required")
			return
		}

		// Constant-time comparison so credential checks do not leak timing.
		usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.admin.Username)) == 1
		passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(m.admin.Password)) == 1
		if !usernameMatch || !passwordMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}
