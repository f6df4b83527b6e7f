// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization scopes users, session templates and attendance. TimeZone is an
// IANA name; every wall-clock time on the organization's templates is read in
// this zone.
type Organization struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	NameCI           string             `bson:"name_ci" json:"-"`
	TimeZone         string             `bson:"time_zone" json:"time_zone"`
	LateGraceMinutes *int               `bson:"late_grace_minutes,omitempty" json:"late_grace_minutes,omitempty"`
	Status           string             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
