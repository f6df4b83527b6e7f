// internal/domain/models/devicebinding.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceBinding ties a user to the one device allowed to scan for them.
// There is at most one document per user_id (unique index).
type DeviceBinding struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	DeviceID string             `bson:"device_id" json:"device_id"`
	BoundAt  time.Time          `bson:"bound_at" json:"bound_at"`
}
