// internal/app/features/sessions/routes.go
package sessions

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the session endpoints (typically under "/api/sessions").
//
// Every signed-in user may list the sessions they can scan now and view a
// session they are assigned to. Management needs a staff role; the handlers
// additionally check CanEditSession.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/selectable", h.ServeSelectable)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.StaffRoles...))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Put("/{id}", h.ServeUpdate)
		pr.Post("/{id}/cancel", h.ServeCancel)
	})

	return r
}
