package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"voltboard/backend/services/dashboard-service/internal/service"
)

// NewLoginHandler handles POST /auth/login.
func NewLoginHandler(authService *service.AuthService) http.HandlerFunc {
	type request struct {
		Passphrase string `json:"passphrase"`
	}
	type response struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.Passphrase = strings.TrimSpace(req.Passphrase)
		if req.Passphrase == "" {
			writeError(w, http.StatusBadRequest, "passphrase is required")
			return
		}

		token, err := authService.Login(req.Passphrase)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPassphrase) {
				writeError(w, http.StatusUnauthorized, "invalid passphrase")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Token:     token,
			TokenType: "Bearer",
		})
	}
}
