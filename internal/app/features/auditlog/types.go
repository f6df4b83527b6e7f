// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
)

// listItem is a single audit event row. ActorName and TargetName are
// resolved from the stored IDs.
type listItem struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	EventType  string            `json:"event_type"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorName  string            `json:"actor_name,omitempty"`
	TargetID   string            `json:"target_id,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	IP         string            `json:"ip,omitempty"`
	Success    bool              `json:"success"`
	Reason     string            `json:"failure_reason,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// listResponse is one page of the audit log.
type listResponse struct {
	Events     []listItem `json:"events"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int64      `json:"total"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
}

// categoryOption describes a category for filter pickers.
type categoryOption struct {
	Value      string   `json:"value"`
	Label      string   `json:"label"`
	EventTypes []string `json:"event_types"`
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	out := []categoryOption{
		{Value: audit.CategoryAttendance, Label: "Attendance"},
		{Value: audit.CategorySecurity, Label: "Security"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
	for i := range out {
		out[i].EventTypes = eventTypesForCategory(out[i].Value)
	}
	return out
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	attendanceEvents := []string{
		audit.EventForceMark,
	}
	securityEvents := []string{
		audit.EventDeviceReset,
		audit.EventDeviceMismatch,
	}
	adminEvents := []string{
		audit.EventLeaveRequested,
		audit.EventLeaveApproved,
		audit.EventLeaveRejected,
		audit.EventSessionCreated,
		audit.EventSessionUpdated,
		audit.EventSessionCancelled,
	}

	switch category {
	case audit.CategoryAttendance:
		return attendanceEvents
	case audit.CategorySecurity:
		return securityEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(attendanceEvents)+len(securityEvents)+len(adminEvents))
		all = append(all, attendanceEvents...)
		all = append(all, securityEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}

func isKnownEventType(category, eventType string) bool {
	for _, t := range eventTypesForCategory(category) {
		if t == eventType {
			return true
		}
	}
	return false
}
