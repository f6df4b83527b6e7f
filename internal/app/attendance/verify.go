package attendance

import (
	"context"
	"errors"
	"time"

	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	devicebindingstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/devicebindings"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/geo"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/normalize"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/schedule"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VerifyRequest is one scan attempt. ScannedSessionID is the raw value read
// from the QR code. A zero Timestamp means now.
type VerifyRequest struct {
	SessionID        primitive.ObjectID
	UserID           primitive.ObjectID
	OrganizationID   primitive.ObjectID
	ScannedSessionID string
	Timestamp        time.Time
	UserLocation     *models.GeoPoint
	DeviceID         string
}

// Result is a successfully persisted check-in.
type Result struct {
	Record      models.AttendanceRecord `json:"record"`
	DeviceBound bool                    `json:"device_bound"`
}

// Verify checks a scan against the session window, the user's device
// binding, the geofence and approved leave, and writes exactly one record for
// the occurrence. Every failure is an *apperr.Error; none are retried.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (Result, error) {
	deviceID := normalize.DeviceID(req.DeviceID)
	switch {
	case req.SessionID.IsZero():
		return Result{}, apperr.New(apperr.Validation, "session id is required")
	case req.UserID.IsZero():
		return Result{}, apperr.New(apperr.Validation, "user id is required")
	case req.OrganizationID.IsZero():
		return Result{}, apperr.New(apperr.Validation, "organization id is required")
	case deviceID == "":
		return Result{}, apperr.New(apperr.Validation, "device id is required")
	}
	if req.UserLocation != nil && !geo.ValidPoint(*req.UserLocation) {
		return Result{}, apperr.New(apperr.Validation, "user location is out of range")
	}

	t, err := s.template(ctx, req.OrganizationID, req.SessionID)
	if err != nil {
		return Result{}, err
	}
	if !t.IsAssigned(req.UserID) {
		return Result{}, apperr.New(apperr.NotAuthorized, "you are not assigned to this session")
	}
	if req.ScannedSessionID != req.SessionID.Hex() {
		return Result{}, apperr.New(apperr.SessionMismatch, "the scanned code belongs to a different session")
	}

	oc, err := s.org(ctx, req.OrganizationID)
	if err != nil {
		return Result{}, err
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}
	now := ts.In(oc.loc)

	st := schedule.Classify(t, now, s.lookahead)
	if st.Kind != schedule.Live {
		return Result{}, apperr.New(apperr.WindowClosed, "session is not accepting check-ins (%s)", st.Kind)
	}

	existing, err := s.records.Find(ctx, t.ID, st.Date, req.UserID)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.Internal, err, "look up attendance")
	}
	if existing != nil {
		return Result{}, apperr.New(apperr.AlreadyMarked, "attendance already marked for %s", st.Date)
	}

	bound, err := s.checkDevice(ctx, req.UserID, deviceID)
	if err != nil {
		return Result{}, err
	}

	rec := models.AttendanceRecord{
		OrganizationID: req.OrganizationID,
		TemplateID:     t.ID,
		OccurrenceDate: st.Date,
		UserID:         req.UserID,
		CheckInTime:    ts.UTC(),
		UserLocation:   req.UserLocation,
		DeviceID:       deviceID,
	}

	switch t.LocationType {
	case models.LocationPhysical:
		if t.PhysicalLocation != nil && req.UserLocation != nil {
			ok, d := geo.Within(*t.PhysicalLocation, *req.UserLocation)
			rec.LocationVerified = ok
			rec.DistanceMeters = &d
		}
	default:
		rec.LocationVerified = true
	}

	lateBy := schedule.LateByMinutes(st.Window, now)
	rec.LateByMinutes = &lateBy
	rec.IsLate = lateBy > s.lateGrace(t, oc)

	switch {
	case !rec.LocationVerified:
		rec.AttendanceStatus = models.StatusNotVerified
	case rec.IsLate:
		rec.AttendanceStatus = models.StatusLate
	default:
		rec.AttendanceStatus = models.StatusVerified
	}

	leave, err := s.leaves.Resolve(ctx, req.UserID, st.Date)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.Internal, err, "resolve leave")
	}
	if leave != nil {
		rec.AttendanceStatus = models.StatusOnLeave
		rec.ApprovedBy = leave.ApprovedBy
		rec.LocationVerified = true
		rec.IsLate = false
		rec.LateByMinutes = nil
	}

	saved, err := s.records.Insert(ctx, rec)
	if errors.Is(err, attendancestore.ErrDuplicate) {
		return Result{}, apperr.New(apperr.AlreadyMarked, "attendance already marked for %s", st.Date)
	}
	if err != nil {
		return Result{}, apperr.Wrap(apperr.Internal, err, "save attendance")
	}

	s.log.Info("attendance recorded",
		zap.String("template_id", t.ID.Hex()),
		zap.String("occurrence_date", st.Date.String()),
		zap.String("user_id", req.UserID.Hex()),
		zap.String("status", saved.AttendanceStatus))

	return Result{Record: saved, DeviceBound: bound}, nil
}

// checkDevice enforces the single-device rule. It reports whether this scan
// created the binding. A lost first-bind race re-reads the winner.
func (s *Service) checkDevice(ctx context.Context, userID primitive.ObjectID, deviceID string) (bool, error) {
	b, err := s.bindings.Get(ctx, userID)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, err, "load device binding")
	}
	if b == nil {
		err = s.bindings.Bind(ctx, userID, deviceID)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, devicebindingstore.ErrAlreadyBound) {
			return false, apperr.Wrap(apperr.Internal, err, "bind device")
		}
		if b, err = s.bindings.Get(ctx, userID); err != nil || b == nil {
			return false, apperr.Wrap(apperr.Internal, err, "reload device binding")
		}
	}
	if b.DeviceID != deviceID {
		return false, apperr.New(apperr.DeviceMismatch, "this account is bound to another device")
	}
	return false, nil
}
