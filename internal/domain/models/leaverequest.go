// internal/domain/models/leaverequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leave statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Leave types.
const (
	LeaveTypeSick     = "sick"
	LeaveTypeCasual   = "casual"
	LeaveTypePersonal = "personal"
	LeaveTypeOther    = "other"
)

// LeaveRequest covers either an explicit list of dates, an inclusive
// StartDate..EndDate range, or both.
type LeaveRequest struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	LeaveType      string             `bson:"leave_type" json:"leave_type"`

	Dates     []Date `bson:"dates,omitempty" json:"dates,omitempty"`
	StartDate *Date  `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *Date  `bson:"end_date,omitempty" json:"end_date,omitempty"`

	Reason     string              `bson:"reason,omitempty" json:"reason,omitempty"`
	Status     string              `bson:"status" json:"status"`
	ApprovedBy *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	DecidedAt  *time.Time          `bson:"decided_at,omitempty" json:"decided_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Covers reports whether the request names d, either in Dates or in the
// inclusive StartDate..EndDate range. Status is not consulted.
func (l LeaveRequest) Covers(d Date) bool {
	for _, x := range l.Dates {
		if x == d {
			return true
		}
	}
	if l.StartDate != nil && l.EndDate != nil {
		return !d.Before(*l.StartDate) && !d.After(*l.EndDate)
	}
	return false
}

// IsValidLeaveType reports whether t is a known leave type.
func IsValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeSick, LeaveTypeCasual, LeaveTypePersonal, LeaveTypeOther:
		return true
	}
	return false
}
