package handlers

import (
	"net/http"
	"os"
)

// NewBackgroundHandler serves the optional cosmetic background image. The
// image is purely decorative; a missing file is a plain 404, never an error.
func NewBackgroundHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}
