// internal/app/features/sessions/selectable.go
package sessions

import (
	"net/http"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
)

// ServeSelectable handles GET /api/sessions/selectable: the caller's
// sessions that are live now or start within the lookahead.
func (h *Handler) ServeSelectable(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list selectable sessions")
	defer cancel()

	list, err := h.Svc.ListSelectableSessions(ctx, actor, time.Time{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

// ServeView handles GET /api/sessions/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view session")
	defer cancel()

	s, err := h.Svc.GetSession(ctx, actor, id, time.Time{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, s)
}
