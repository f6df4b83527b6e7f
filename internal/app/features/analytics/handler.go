// internal/app/features/analytics/handler.go
package analytics

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves attendance reports.
type Handler struct {
	Svc    *attendance.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs an analytics Handler.
func NewHandler(svc *attendance.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

// reportQuery reads ?sessions=id,id&from=YYYY-MM-DD&to=YYYY-MM-DD. An
// omitted to means a single-day report; no sessions means every session of
// the organization.
func reportQuery(r *http.Request) ([]primitive.ObjectID, attendance.Range, error) {
	ids, err := formutil.ObjectIDList(r, "sessions")
	if err != nil {
		return nil, attendance.Range{}, err
	}
	from, _, err := formutil.DateQuery(r, "from")
	if err != nil {
		return nil, attendance.Range{}, err
	}
	to, ok, err := formutil.DateQuery(r, "to")
	if err != nil {
		return nil, attendance.Range{}, err
	}
	if !ok {
		to = from
	}
	return ids, attendance.Range{From: from, To: to}, nil
}

// ServeReport handles GET /api/analytics.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ids, rng, err := reportQuery(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "analytics")
	defer cancel()

	rep, err := h.Svc.Analytics(ctx, actor, ids, rng)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, rep)
}

// ServeLogs handles GET /api/analytics/logs.
func (h *Handler) ServeLogs(w http.ResponseWriter, r *http.Request) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ids, rng, err := reportQuery(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "session logs")
	defer cancel()

	logs, err := h.Svc.SessionLogs(ctx, actor, ids, rng)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if logs == nil {
		logs = []attendance.SessionLog{}
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"range": rng, "logs": logs})
}
