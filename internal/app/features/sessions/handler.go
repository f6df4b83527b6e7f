// internal/app/features/sessions/handler.go
package sessions

import (
	"context"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	sessiontemplatestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/sessiontemplates"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberChecker counts how many of ids belong to an organization.
// userstore.Store satisfies it.
type MemberChecker interface {
	InOrg(ctx context.Context, orgID primitive.ObjectID, ids []primitive.ObjectID) (int64, error)
}

// Handler serves session template management and the scanner's session
// picker.
type Handler struct {
	Svc       *attendance.Service
	Templates *sessiontemplatestore.Store
	Members   MemberChecker
	Audit     *auditlog.Logger
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewHandler constructs a sessions Handler.
func NewHandler(svc *attendance.Service, templates *sessiontemplatestore.Store, members MemberChecker, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:       svc,
		Templates: templates,
		Members:   members,
		Audit:     audit,
		ErrLog:    errLog,
		Log:       logger,
	}
}
