// internal/app/features/checkin/handler.go
package checkin

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves QR scans, force-marks and a user's own history.
type Handler struct {
	Svc     *attendance.Service
	Records *attendancestore.Store
	Audit   *auditlog.Logger
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a check-in Handler.
func NewHandler(svc *attendance.Service, records *attendancestore.Store, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:     svc,
		Records: records,
		Audit:   audit,
		ErrLog:  errLog,
		Log:     logger,
	}
}
