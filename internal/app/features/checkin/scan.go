// internal/app/features/checkin/scan.go
package checkin

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/inputval"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type pointInput struct {
	Lat float64 `json:"lat" validate:"latitude" label:"location.lat"`
	Lng float64 `json:"lng" validate:"longitude" label:"location.lng"`
}

type scanInput struct {
	SessionID        string      `json:"session_id" validate:"required,objectid"`
	ScannedSessionID string      `json:"scanned_session_id" validate:"required,max=64"`
	DeviceID         string      `json:"device_id" validate:"required,max=200"`
	Location         *pointInput `json:"location" validate:"omitempty"`
}

type scanResponse struct {
	ScanID string `json:"scan_id"`
	attendance.Result
}

// ServeScan handles POST /api/attendance/scan. The check-in time is the
// server's clock; clients cannot backdate a scan.
func (h *Handler) ServeScan(w http.ResponseWriter, r *http.Request) {
	scanID := uuid.NewString()
	log := h.Log.With(zap.String("scan_id", scanID))

	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in scanInput
	if err := formutil.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.LogBadRequest(w, r, "invalid scan", res.Err(), res.First(), res.Errors)
		return
	}
	sessionID, err := formutil.ParseObjectID(in.SessionID, "session_id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	req := attendance.VerifyRequest{
		SessionID:        sessionID,
		UserID:           actor.UserID,
		OrganizationID:   actor.OrganizationID,
		ScannedSessionID: in.ScannedSessionID,
		DeviceID:         in.DeviceID,
	}
	if in.Location != nil {
		req.UserLocation = &models.GeoPoint{Lat: in.Location.Lat, Lng: in.Location.Lng}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), log, "verify scan")
	defer cancel()

	res, err := h.Svc.Verify(ctx, req)
	if err != nil {
		if apperr.IsKind(err, apperr.DeviceMismatch) {
			h.Audit.DeviceMismatch(ctx, r, actor.OrganizationID, actor.UserID, sessionID)
		}
		log.Debug("scan rejected",
			zap.String("user_id", actor.UserID.Hex()),
			zap.String("session_id", in.SessionID),
			zap.String("kind", string(apperr.KindOf(err))))
		h.ErrLog.Write(w, r, err)
		return
	}

	uierrors.WriteJSON(w, http.StatusCreated, scanResponse{ScanID: scanID, Result: res})
}
