// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration per category.
type Config struct {
	// Attendance covers force-marks and device-binding events.
	Attendance string
	// Admin covers session template edits and leave decisions.
	Admin string
}

// ValidDestination reports whether s is one of All, DB, Log, Off.
func ValidDestination(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Logger writes audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when every category
// logs to zap only.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's destination.
// A nil Logger is a no-op so handlers can be tested without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAttendance, audit.CategorySecurity:
		setting = l.config.Attendance
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Attendance events ---

// ForceMark logs a privileged override of an occurrence's attendance.
func (l *Logger) ForceMark(ctx context.Context, r *http.Request, actorID primitive.ObjectID, rec models.AttendanceRecord) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAttendance,
		EventType:      audit.EventForceMark,
		OrganizationID: &rec.OrganizationID,
		UserID:         &rec.UserID,
		ActorID:        &actorID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        true,
		Details: map[string]string{
			"template_id":     rec.TemplateID.Hex(),
			"occurrence_date": rec.OccurrenceDate.String(),
			"status":          rec.AttendanceStatus,
		},
	})
}

// DeviceReset logs the clearing of a user's device binding.
func (l *Logger) DeviceReset(ctx context.Context, r *http.Request, orgID, userID, actorID primitive.ObjectID, existed bool) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategorySecurity,
		EventType:      audit.EventDeviceReset,
		OrganizationID: &orgID,
		UserID:         &userID,
		ActorID:        &actorID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        true,
		Details:        map[string]string{"had_binding": strconv.FormatBool(existed)},
	})
}

// DeviceMismatch logs a scan rejected because it came from another device.
func (l *Logger) DeviceMismatch(ctx context.Context, r *http.Request, orgID, userID, templateID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategorySecurity,
		EventType:      audit.EventDeviceMismatch,
		OrganizationID: &orgID,
		UserID:         &userID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        false,
		FailureReason:  "device does not match binding",
		Details:        map[string]string{"template_id": templateID.Hex()},
	})
}

// --- Admin events ---

// LeaveRequested logs a new leave request.
func (l *Logger) LeaveRequested(ctx context.Context, r *http.Request, leave models.LeaveRequest) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventLeaveRequested,
		OrganizationID: &leave.OrganizationID,
		UserID:         &leave.UserID,
		ActorID:        &leave.UserID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        true,
		Details: map[string]string{
			"leave_id":   leave.ID.Hex(),
			"leave_type": leave.LeaveType,
		},
	})
}

// LeaveDecided logs an approval or rejection.
func (l *Logger) LeaveDecided(ctx context.Context, r *http.Request, actorID primitive.ObjectID, leave models.LeaveRequest) {
	eventType := audit.EventLeaveRejected
	if leave.Status == models.LeaveApproved {
		eventType = audit.EventLeaveApproved
	}
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      eventType,
		OrganizationID: &leave.OrganizationID,
		UserID:         &leave.UserID,
		ActorID:        &actorID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        true,
		Details:        map[string]string{"leave_id": leave.ID.Hex()},
	})
}

// SessionChanged logs creation, update or cancellation of a template.
// eventType is one of audit.EventSessionCreated, EventSessionUpdated,
// EventSessionCancelled.
func (l *Logger) SessionChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType string, t models.SessionTemplate) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      eventType,
		OrganizationID: &t.OrganizationID,
		ActorID:        &actorID,
		IP:             clientIP(r),
		UserAgent:      userAgent(r),
		Success:        true,
		Details: map[string]string{
			"template_id": t.ID.Hex(),
			"name":        t.Name,
			"assigned":    strconv.Itoa(len(t.AssignedUsers)),
		},
	})
}
