// internal/app/features/checkin/routes.go
package checkin

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the attendance endpoints (typically under "/api/attendance").
// Scans are rate limited per signed-in user; a nil limiter disables that.
func Routes(h *Handler, sm *auth.SessionManager, limiter ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.With(ratelimit.Middleware(limiter, scanKey)).Post("/scan", h.ServeScan)
		pr.Get("/mine", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.StaffRoles...))

		pr.Post("/force", h.ServeForce)
	})

	return r
}

func scanKey(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil || u.ID == "" {
		return ""
	}
	return "scan:" + u.ID
}
