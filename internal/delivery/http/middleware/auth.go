package middleware

import (
	"net/http"

	"cameroonmark/internal/application/guard"
	"cameroonmark/internal/application/session"
	"cameroonmark/internal/delivery/http/handler"
	"cameroonmark/internal/domain/user"
)

// Auth rejects API requests without an authenticated session and puts the session into context
func Auth(sessions session.Service) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Current()
			if !s.IsAuthenticated() {
				handler.SendError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			next(w, r.WithContext(handler.WithSession(r.Context(), s)))
		}
	}
}

// Guard protects a storefront view, redirecting to login or home as the route guard decides.
// An empty role only requires authentication.
func Guard(sessions session.Service, role user.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s := sessions.Current()
			d := guard.Evaluate(s.IsAuthenticated(), s.Role(), role, r.URL.RequestURI())
			if !d.Allowed {
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}
			next(w, r.WithContext(handler.WithSession(r.Context(), s)))
		}
	}
}
