// internal/app/features/checkin/force.go
package checkin

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/inputval"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

type forceInput struct {
	SessionID string `json:"session_id" validate:"required,objectid"`
	UserID    string `json:"user_id" validate:"required,objectid"`
	Date      string `json:"date" validate:"omitempty,ymd"`
	Status    string `json:"status" validate:"required,oneof=forced_present forced_absent"`
}

// ServeForce handles POST /api/attendance/force. An omitted date means the
// organization's today.
func (h *Handler) ServeForce(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in forceInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "invalid force-mark", res.Err(), res.First(), res.Errors)
		return
	}

	req := attendance.ForceMarkRequest{Status: in.Status}
	if req.SessionID, err = formutil.ParseObjectID(in.SessionID, "session_id"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if req.UserID, err = formutil.ParseObjectID(in.UserID, "user_id"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if in.Date != "" {
		if req.Date, err = models.ParseDate(in.Date); err != nil {
			h.ErrLog.LogBadRequest(w, r, "invalid force-mark date", err, "date must be YYYY-MM-DD", nil)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "force mark")
	defer cancel()

	rec, err := h.Svc.ForceMark(ctx, actor, req)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Audit.ForceMark(ctx, r, actor.UserID, rec)

	uierrors.WriteJSON(w, http.StatusOK, rec)
}
