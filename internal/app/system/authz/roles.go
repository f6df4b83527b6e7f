// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

// Capabilities are the named permissions derived from a role. They are
// computed once per request; callers test a field instead of comparing
// role strings.
type Capabilities struct {
	CanForceMark     bool
	CanEditSession   bool
	CanResetDevice   bool
	CanApproveLeave  bool
	CanViewAnalytics bool
	CanViewAudit     bool
}

// For derives the capabilities of role. Unknown roles get none.
func For(role string) Capabilities {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RolePlatformOwner, models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleManager:
		return Capabilities{
			CanForceMark:     true,
			CanEditSession:   true,
			CanResetDevice:   true,
			CanApproveLeave:  true,
			CanViewAnalytics: true,
			CanViewAudit:     true,
		}
	case models.RoleSessionAdmin:
		return Capabilities{
			CanForceMark:     true,
			CanEditSession:   true,
			CanViewAnalytics: true,
		}
	}
	return Capabilities{}
}

// StaffRoles are the roles allowed onto management routes.
var StaffRoles = []string{
	models.RolePlatformOwner,
	models.RoleSuperAdmin,
	models.RoleCompanyAdmin,
	models.RoleManager,
	models.RoleSessionAdmin,
}

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Role returns the current user's role (lowercased) and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}
