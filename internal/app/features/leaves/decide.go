// internal/app/features/leaves/decide.go
package leaves

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	leavestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/leaves"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (h *Handler) approver(w http.ResponseWriter, r *http.Request) (attendance.Actor, bool) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return attendance.Actor{}, false
	}
	if !actor.Caps.CanApproveLeave {
		h.ErrLog.Forbidden(w, r, "You may not decide leave requests.")
		return attendance.Actor{}, false
	}
	return actor, true
}

// ServePending handles GET /api/leaves/pending for the approver's
// organization, oldest first.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.approver(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list pending leaves")
	defer cancel()

	list, err := h.Leaves.ListPending(ctx, actor.OrganizationID)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "list pending leaves"))
		return
	}
	writeList(w, list)
}

// ServeApprove handles POST /api/leaves/{id}/approve.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Leaves.Approve)
}

// ServeReject handles POST /api/leaves/{id}/reject.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Leaves.Reject)
}

type decideFunc func(ctx context.Context, id, approverID primitive.ObjectID) (models.LeaveRequest, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	actor, ok := h.approver(w, r)
	if !ok {
		return
	}
	id, err := formutil.ObjectIDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "decide leave")
	defer cancel()

	// Requests from other organizations are indistinguishable from missing ones.
	l, err := h.Leaves.GetByID(ctx, id)
	if err != nil || l.OrganizationID != actor.OrganizationID {
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "load leave"))
			return
		}
		h.ErrLog.Write(w, r, apperr.New(apperr.NotFound, "leave request not found"))
		return
	}

	decided, err := fn(ctx, id, actor.UserID)
	switch {
	case errors.Is(err, leavestore.ErrNotPending):
		h.ErrLog.Write(w, r, apperr.New(apperr.Validation, "leave request has already been decided"))
		return
	case err != nil:
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "decide leave"))
		return
	}
	h.Audit.LeaveDecided(ctx, r, actor.UserID, decided)
	h.Log.Info("leave decided",
		zap.String("leave_id", decided.ID.Hex()),
		zap.String("status", decided.Status),
		zap.String("actor_id", actor.UserID.Hex()))

	uierrors.WriteJSON(w, http.StatusOK, decided)
}
