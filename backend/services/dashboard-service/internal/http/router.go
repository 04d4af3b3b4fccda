package httpserver

import "net/http"

// Routes defines HTTP endpoints. Auth, when set, wraps the data endpoints and
// the stream; the page itself stays open so it can show the login prompt.
type Routes struct {
	Page       http.Handler
	Snapshot   http.Handler
	Delta      http.Handler
	Stream     http.Handler
	Login      http.Handler
	Background http.Handler
	Health     http.Handler
	Metrics    http.Handler
	Auth       func(http.Handler) http.Handler
}

// NewRouter sets up HTTP routing.
func NewRouter(routes Routes) http.Handler {
	guard := routes.Auth
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	mux := http.NewServeMux()
	if routes.Page != nil {
		mux.Handle("/", method(http.MethodGet, routes.Page.ServeHTTP))
	}
	if routes.Snapshot != nil {
		mux.Handle("/api/readings/snapshot", guard(method(http.MethodGet, routes.Snapshot.ServeHTTP)))
	}
	if routes.Delta != nil {
		mux.Handle("/api/readings/delta", guard(method(http.MethodGet, routes.Delta.ServeHTTP)))
	}
	if routes.Stream != nil {
		mux.Handle("/ws", guard(method(http.MethodGet, routes.Stream.ServeHTTP)))
	}
	if routes.Login != nil {
		mux.Handle("/auth/login", method(http.MethodPost, routes.Login.ServeHTTP))
	}
	if routes.Background != nil {
		mux.Handle("/static/background.jpg", method(http.MethodGet, routes.Background.ServeHTTP))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", method(http.MethodGet, routes.Metrics.ServeHTTP))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
