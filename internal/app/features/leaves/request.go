// internal/app/features/leaves/request.go
package leaves

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/htmlsanitize"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/inputval"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.uber.org/zap"
)

// maxLeaveDays bounds both the explicit date list and the range length.
const maxLeaveDays = 366

type leaveInput struct {
	LeaveType string   `json:"leave_type" validate:"required,oneof=sick casual personal other"`
	Dates     []string `json:"dates" validate:"max=366,dive,ymd"`
	StartDate string   `json:"start_date" validate:"omitempty,ymd"`
	EndDate   string   `json:"end_date" validate:"omitempty,ymd"`
	Reason    string   `json:"reason" validate:"max=1000"`
}

// toLeave checks the cross-field rules and builds the request. At least one
// of dates or a complete start..end range is required.
func (in leaveInput) toLeave(actor attendance.Actor) (models.LeaveRequest, error) {
	l := models.LeaveRequest{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		LeaveType:      in.LeaveType,
		Reason:         htmlsanitize.StripTags(in.Reason),
	}

	seen := make(map[models.Date]bool, len(in.Dates))
	for _, s := range in.Dates {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.LeaveRequest{}, apperr.New(apperr.Validation, "dates must be YYYY-MM-DD")
		}
		if !seen[d] {
			seen[d] = true
			l.Dates = append(l.Dates, d)
		}
	}

	switch {
	case in.StartDate == "" && in.EndDate == "":
	case in.StartDate == "" || in.EndDate == "":
		return models.LeaveRequest{}, apperr.New(apperr.Validation, "start_date and end_date must be given together")
	default:
		start, err := models.ParseDate(in.StartDate)
		if err != nil {
			return models.LeaveRequest{}, apperr.New(apperr.Validation, "start_date must be YYYY-MM-DD")
		}
		end, err := models.ParseDate(in.EndDate)
		if err != nil {
			return models.LeaveRequest{}, apperr.New(apperr.Validation, "end_date must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return models.LeaveRequest{}, apperr.New(apperr.Validation, "end_date must not be before start_date")
		}
		if start.AddDays(maxLeaveDays).Before(end) {
			return models.LeaveRequest{}, apperr.New(apperr.Validation, "leave may span at most %d days", maxLeaveDays)
		}
		l.StartDate, l.EndDate = &start, &end
	}

	if len(l.Dates) == 0 && l.StartDate == nil {
		return models.LeaveRequest{}, apperr.New(apperr.Validation, "give dates or a start_date..end_date range")
	}
	return l, nil
}

// ServeCreate handles POST /api/leaves. Requests are always filed for the
// signed-in user and start pending.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in leaveInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "invalid leave request", res.Err(), res.First(), res.Errors)
		return
	}
	l, err := in.toLeave(actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create leave")
	defer cancel()

	created, err := h.Leaves.Create(ctx, l)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "create leave"))
		return
	}
	h.Audit.LeaveRequested(ctx, r, created)
	h.Log.Info("leave requested",
		zap.String("leave_id", created.ID.Hex()),
		zap.String("user_id", created.UserID.Hex()))

	uierrors.WriteJSON(w, http.StatusCreated, created)
}

// ServeMine handles GET /api/leaves/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list my leaves")
	defer cancel()

	list, err := h.Leaves.ListByUser(ctx, actor.UserID)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "list leaves"))
		return
	}
	writeList(w, list)
}

func writeList(w http.ResponseWriter, list []models.LeaveRequest) {
	if list == nil {
		list = []models.LeaveRequest{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"leaves": list})
}
