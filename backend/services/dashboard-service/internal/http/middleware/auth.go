package middleware

import (
	"net/http"
	"strings"

	"voltboard/backend/services/dashboard-service/internal/service"
)

// Auth validates viewer tokens on data endpoints. Browsers cannot set headers
// on WebSocket dials, so a token query parameter is accepted as a fallback to
// the Authorization header.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get("token"))
			}
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			if err := tokens.ValidateToken(token); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
