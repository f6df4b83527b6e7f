// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the report endpoints (typically under "/api/analytics").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.StaffRoles...))

	r.Get("/", h.ServeReport)
	r.Get("/logs", h.ServeLogs)
	return r
}
