package guard

import (
	"net/url"

	"cameroonmark/internal/domain/user"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the outcome of a route guard check
type Decision struct {
	Allowed  bool
	Redirect string
}

// Evaluate grants access when the session is authenticated and, if requiredRole is set,
// the user holds exactly that role. Unauthenticated callers go to login with the requested
// path preserved; role mismatches go home.
func Evaluate(isAuthenticated bool, role, requiredRole user.Role, path string) Decision {
	if !isAuthenticated {
		return Decision{Redirect: LoginRedirect(path)}
	}
	if requiredRole != "" && role != requiredRole {
		return Decision{Redirect: HomePath}
	}
	return Decision{Allowed: true}
}

// LoginRedirect builds the login URL that returns to path afterwards
func LoginRedirect(path string) string {
	if path == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(path)
}
