// internal/app/features/checkin/mine.go
package checkin

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/paging"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

// ServeMine handles GET /api/attendance/mine?limit=N, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list my attendance")
	defer cancel()

	recs, err := h.Records.ListByUser(ctx, actor.UserID, int64(paging.ParseLimit(r)))
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "list attendance"))
		return
	}
	if recs == nil {
		recs = []models.AttendanceRecord{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"records": recs})
}
