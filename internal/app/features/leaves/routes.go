// internal/app/features/leaves/routes.go
package leaves

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the leave endpoints (typically under "/api/leaves").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.ServeCreate)
		pr.Get("/mine", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.StaffRoles...))

		pr.Get("/pending", h.ServePending)
		pr.Post("/{id}/approve", h.ServeApprove)
		pr.Post("/{id}/reject", h.ServeReject)
	})

	return r
}
