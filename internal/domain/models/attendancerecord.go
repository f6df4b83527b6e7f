// internal/domain/models/attendancerecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance status values.
const (
	StatusVerified      = "verified"
	StatusNotVerified   = "not_verified"
	StatusLate          = "late"
	StatusOnLeave       = "on_leave"
	StatusForcedPresent = "forced_present"
	StatusForcedAbsent  = "forced_absent"
)

// AttendanceRecord is the single durable outcome of a check-in for one
// occurrence. Exactly one document per (template_id, occurrence_date, user_id).
type AttendanceRecord struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	TemplateID     primitive.ObjectID `bson:"template_id" json:"template_id"`
	OccurrenceDate Date               `bson:"occurrence_date" json:"occurrence_date"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`

	CheckInTime      time.Time `bson:"check_in_time" json:"check_in_time"`
	UserLocation     *GeoPoint `bson:"user_location,omitempty" json:"user_location,omitempty"`
	DistanceMeters   *float64  `bson:"distance_meters,omitempty" json:"distance_meters,omitempty"`
	DeviceID         string    `bson:"device_id,omitempty" json:"device_id,omitempty"`
	LocationVerified bool      `bson:"location_verified" json:"location_verified"`

	IsLate        bool `bson:"is_late" json:"is_late"`
	LateByMinutes *int `bson:"late_by_minutes,omitempty" json:"late_by_minutes,omitempty"`

	AttendanceStatus string              `bson:"attendance_status" json:"attendance_status"`
	ApprovedBy       *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	Forced           bool                `bson:"forced,omitempty" json:"forced,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidForcedStatus reports whether s may be set by a force-mark.
func IsValidForcedStatus(s string) bool {
	return s == StatusForcedPresent || s == StatusForcedAbsent
}
