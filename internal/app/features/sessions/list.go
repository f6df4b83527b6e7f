// internal/app/features/sessions/list.go
package sessions

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/paging"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listResponse struct {
	Sessions []models.SessionTemplate `json:"sessions"`
	paging.Result
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// ServeList handles GET /api/sessions?after=&before=&limit=&cancelled=true.
// Results are ordered by name and paged by keyset cursor.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !actor.Caps.CanEditSession {
		h.ErrLog.Forbidden(w, r, "You may not manage sessions.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list sessions")
	defer cancel()

	k := paging.FromRequest(r)
	rows, res, err := h.Templates.ListPage(ctx, actor.OrganizationID, query.Get(r, "cancelled") == "true", k)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sessions failed", err, "A database error occurred.")
		return
	}
	if rows == nil {
		rows = []models.SessionTemplate{}
	}

	resp := listResponse{Sessions: rows, Result: res}
	prev, next := paging.BuildCursors(rows,
		func(t models.SessionTemplate) string { return t.NameCI },
		func(t models.SessionTemplate) primitive.ObjectID { return t.ID })
	if res.HasPrev {
		resp.Prev = prev
	}
	if res.HasNext {
		resp.Next = next
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}
