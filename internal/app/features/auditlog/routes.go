// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/api/audit" from bootstrap).
//
// Access needs a staff role with CanViewAudit. Every caller sees only
// events of their own organization.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.StaffRoles...))

		pr.Get("/", h.ServeList)
		pr.Get("/types", h.ServeTypes)
	})

	return r
}
