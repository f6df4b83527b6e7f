// internal/app/features/devices/routes.go
package devices

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the device binding endpoints (typically under "/api/devices").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.StaffRoles...))

	r.Get("/{userID}", h.ServeShow)
	r.Post("/{userID}/reset", h.ServeReset)
	return r
}
