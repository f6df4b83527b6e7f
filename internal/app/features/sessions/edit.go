// internal/app/features/sessions/edit.go
package sessions

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// editor returns the actor when they may manage sessions, writing the
// response otherwise.
func (h *Handler) editor(w http.ResponseWriter, r *http.Request) (attendance.Actor, bool) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return attendance.Actor{}, false
	}
	if !actor.Caps.CanEditSession {
		h.ErrLog.Forbidden(w, r, "You may not manage sessions.")
		return attendance.Actor{}, false
	}
	return actor, true
}

// ServeCreate handles POST /api/sessions.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.editor(w, r)
	if !ok {
		return
	}
	var in sessionInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create session")
	defer cancel()

	t, err := in.toTemplate(ctx, actor.OrganizationID, h.Members)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t.CreatedBy = actor.UserID

	created, err := h.Templates.Create(ctx, t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Audit.SessionChanged(ctx, r, actor.UserID, audit.EventSessionCreated, created)
	h.Log.Info("session created",
		zap.String("template_id", created.ID.Hex()),
		zap.String("org_id", created.OrganizationID.Hex()))

	uierrors.WriteJSON(w, http.StatusCreated, created)
}

// ServeUpdate handles PUT /api/sessions/{id}. The whole editable shape is
// replaced; cancellation has its own endpoint.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.editor(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in sessionInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update session")
	defer cancel()

	t, err := in.toTemplate(ctx, actor.OrganizationID, h.Members)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t.ID = id
	if err := h.Templates.Update(ctx, t); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Audit.SessionChanged(ctx, r, actor.UserID, audit.EventSessionUpdated, updated)

	uierrors.WriteJSON(w, http.StatusOK, updated)
}

// ServeCancel handles POST /api/sessions/{id}/cancel. Existing records are
// kept; the template simply stops being scannable.
func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.editor(w, r)
	if !ok {
		return
	}
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "cancel session")
	defer cancel()

	if err := h.Templates.Cancel(ctx, actor.OrganizationID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Audit.SessionChanged(ctx, r, actor.UserID, audit.EventSessionCancelled, t)

	uierrors.WriteJSON(w, http.StatusOK, t)
}
