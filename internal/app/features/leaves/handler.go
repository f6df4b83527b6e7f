// internal/app/features/leaves/handler.go
package leaves

import (
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	leavestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/leaves"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the leave request lifecycle: users file requests for
// themselves, approvers decide them.
type Handler struct {
	Leaves *leavestore.Store
	Audit  *auditlog.Logger
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a leaves Handler.
func NewHandler(leaves *leavestore.Store, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Leaves: leaves,
		Audit:  audit,
		ErrLog: errLog,
		Log:    logger,
	}
}
