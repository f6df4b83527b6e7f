// internal/domain/models/sessiontemplate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency values for SessionTemplate.Frequency.
const (
	FrequencyOneTime = "one_time"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Location types for SessionTemplate.LocationType.
const (
	LocationPhysical = "physical"
	LocationVirtual  = "virtual"
)

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// PhysicalLocation is the geofence of an on-site session.
type PhysicalLocation struct {
	Center       GeoPoint `bson:"center" json:"center"`
	RadiusMeters float64  `bson:"radius_meters" json:"radius_meters"`
	Address      string   `bson:"address,omitempty" json:"address,omitempty"`
}

// SessionTemplate describes a recurring (or one-time) attendance session.
// Individual occurrences are never stored; an occurrence is identified by
// (template ID, calendar date).
//
// StartTime and EndTime are "HH:MM" wall-clock values in the organization's
// time zone. WeeklyDays holds lower-case weekday names and is only consulted
// for weekly templates.
type SessionTemplate struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`

	Frequency  string   `bson:"frequency" json:"frequency"`
	StartDate  Date     `bson:"start_date" json:"start_date"`
	EndDate    *Date    `bson:"end_date,omitempty" json:"end_date,omitempty"`
	StartTime  string   `bson:"start_time" json:"start_time"`
	EndTime    string   `bson:"end_time" json:"end_time"`
	WeeklyDays []string `bson:"weekly_days,omitempty" json:"weekly_days,omitempty"`

	LocationType     string            `bson:"location_type" json:"location_type"`
	PhysicalLocation *PhysicalLocation `bson:"physical_location,omitempty" json:"physical_location,omitempty"`
	VirtualLocation  string            `bson:"virtual_location,omitempty" json:"virtual_location,omitempty"`

	AssignedUsers    []primitive.ObjectID `bson:"assigned_users" json:"assigned_users"`
	IsCancelled      bool                 `bson:"is_cancelled" json:"is_cancelled"`
	LateGraceMinutes *int                 `bson:"late_grace_minutes,omitempty" json:"late_grace_minutes,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsAssigned reports whether userID is in the template's assignment list.
func (t SessionTemplate) IsAssigned(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
