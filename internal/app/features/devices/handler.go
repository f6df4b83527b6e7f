// internal/app/features/devices/handler.go
package devices

import (
	"net/http"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	devicebindingstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/devicebindings"
	userstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/users"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler lets managers inspect and clear device bindings.
type Handler struct {
	Bindings *devicebindingstore.Store
	Users    *userstore.Store
	Audit    *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a devices Handler.
func NewHandler(bindings *devicebindingstore.Store, users *userstore.Store, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Bindings: bindings,
		Users:    users,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type bindingResponse struct {
	UserID   string     `json:"user_id"`
	Bound    bool       `json:"bound"`
	DeviceID string     `json:"device_id,omitempty"`
	BoundAt  *time.Time `json:"bound_at,omitempty"`
}

// target resolves the {userID} parameter to a user in the actor's
// organization. Users elsewhere are reported as not found.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (attendance.Actor, primitive.ObjectID, bool) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return attendance.Actor{}, primitive.NilObjectID, false
	}
	if !actor.Caps.CanResetDevice {
		h.ErrLog.Forbidden(w, r, "You may not manage device bindings.")
		return attendance.Actor{}, primitive.NilObjectID, false
	}
	userID, err := formutil.ObjectIDParam(r, "userID")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return attendance.Actor{}, primitive.NilObjectID, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load device user")
	defer cancel()

	n, err := h.Users.InOrg(ctx, actor.OrganizationID, []primitive.ObjectID{userID})
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "load user"))
		return attendance.Actor{}, primitive.NilObjectID, false
	}
	if n == 0 {
		h.ErrLog.Write(w, r, apperr.New(apperr.NotFound, "user not found"))
		return attendance.Actor{}, primitive.NilObjectID, false
	}
	return actor, userID, true
}

// ServeShow handles GET /api/devices/{userID}.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := h.target(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get device binding")
	defer cancel()

	b, err := h.Bindings.Get(ctx, userID)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "load device binding"))
		return
	}
	resp := bindingResponse{UserID: userID.Hex()}
	if b != nil {
		resp.Bound = true
		resp.DeviceID = b.DeviceID
		resp.BoundAt = &b.BoundAt
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

// ServeReset handles POST /api/devices/{userID}/reset. Resetting a user
// with no binding succeeds and reports reset=false.
func (h *Handler) ServeReset(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := h.target(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reset device binding")
	defer cancel()

	existed, err := h.Bindings.Reset(ctx, userID)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.Internal, err, "reset device binding"))
		return
	}
	h.Audit.DeviceReset(ctx, r, actor.OrganizationID, userID, actor.UserID, existed)
	h.Log.Info("device binding reset",
		zap.String("user_id", userID.Hex()),
		zap.String("actor_id", actor.UserID.Hex()),
		zap.Bool("existed", existed))

	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"user_id": userID.Hex(), "reset": existed})
}
