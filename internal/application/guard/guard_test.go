package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cameroonmark/internal/domain/user"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		role          user.Role
		required      user.Role
		want          Decision
	}{
		{"anonymous", false, "", "", Decision{Redirect: "/login?redirect=%2Fseller%2Fdashboard"}},
		{"anonymous with role requirement", false, "", user.RoleSeller, Decision{Redirect: "/login?redirect=%2Fseller%2Fdashboard"}},
		{"buyer on seller route", true, user.RoleBuyer, user.RoleSeller, Decision{Redirect: "/"}},
		{"admin on seller route", true, user.RoleAdmin, user.RoleSeller, Decision{Redirect: "/"}},
		{"seller on seller route", true, user.RoleSeller, user.RoleSeller, Decision{Allowed: true}},
		{"buyer without requirement", true, user.RoleBuyer, "", Decision{Allowed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.authenticated, tt.role, tt.required, "/seller/dashboard")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/login", LoginRedirect(""))
	assert.Equal(t, "/login?redirect=%2Forders", LoginRedirect("/orders"))
}
