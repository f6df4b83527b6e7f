package attendance

import (
	"context"
	"errors"

	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ForceMarkRequest overrides the outcome of one occurrence for one user.
// A zero Date means the organization's current date.
type ForceMarkRequest struct {
	SessionID primitive.ObjectID
	UserID    primitive.ObjectID
	Date      models.Date
	Status    string
}

// ForceMark records ForcedPresent or ForcedAbsent for the occurrence,
// creating or overwriting its single record. Window and device checks do not
// apply.
func (s *Service) ForceMark(ctx context.Context, actor Actor, req ForceMarkRequest) (models.AttendanceRecord, error) {
	if !actor.Caps.CanForceMark {
		return models.AttendanceRecord{}, apperr.New(apperr.NotAuthorized, "you may not force-mark attendance")
	}
	if req.SessionID.IsZero() || req.UserID.IsZero() {
		return models.AttendanceRecord{}, apperr.New(apperr.Validation, "session id and user id are required")
	}
	if !models.IsValidForcedStatus(req.Status) {
		return models.AttendanceRecord{}, apperr.New(apperr.Validation, "status must be %q or %q",
			models.StatusForcedPresent, models.StatusForcedAbsent)
	}

	t, err := s.template(ctx, actor.OrganizationID, req.SessionID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	if !t.IsAssigned(req.UserID) {
		return models.AttendanceRecord{}, apperr.New(apperr.Validation, "user is not assigned to this session")
	}

	now := s.clock.Now()
	date := req.Date
	if date.IsZero() {
		oc, err := s.org(ctx, actor.OrganizationID)
		if err != nil {
			return models.AttendanceRecord{}, err
		}
		date = models.DateOf(now.In(oc.loc))
	}

	approver := actor.UserID
	rec := models.AttendanceRecord{
		OrganizationID:   actor.OrganizationID,
		TemplateID:       t.ID,
		OccurrenceDate:   date,
		UserID:           req.UserID,
		CheckInTime:      now.UTC(),
		AttendanceStatus: req.Status,
		ApprovedBy:       &approver,
	}

	saved, err := s.records.UpsertForced(ctx, rec)
	if errors.Is(err, attendancestore.ErrDuplicate) {
		// A concurrent insert created the record first; the retry updates it.
		saved, err = s.records.UpsertForced(ctx, rec)
	}
	if err != nil {
		return models.AttendanceRecord{}, apperr.Wrap(apperr.Internal, err, "force-mark attendance")
	}

	s.log.Info("attendance force-marked",
		zap.String("template_id", t.ID.Hex()),
		zap.String("occurrence_date", date.String()),
		zap.String("user_id", req.UserID.Hex()),
		zap.String("actor_id", actor.UserID.Hex()),
		zap.String("status", req.Status))
	return saved, nil
}
