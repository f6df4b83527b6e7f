// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. The identity layer owns user records; the attendance core only
// reads the role to derive capabilities.
const (
	RolePlatformOwner = "platform_owner"
	RoleSuperAdmin    = "superadmin"
	RoleCompanyAdmin  = "company_admin"
	RoleManager       = "manager"
	RoleSessionAdmin  = "session_admin"
	RoleEndUser       = "end_user"
)

// User is the subset of the identity record the attendance core reads.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string              `bson:"email" json:"email"`
	Role           string              `bson:"role" json:"role"`
	Status         string              `bson:"status,omitempty" json:"status,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRef is either a bare user ID or a populated User. It is resolved once
// at the data-access boundary (see userstore.ResolveRefs); callers read it
// through ID and User and never branch on how it was built.
type UserRef struct {
	id   primitive.ObjectID
	user *User
}

// Ref builds an unpopulated reference.
func Ref(id primitive.ObjectID) UserRef {
	return UserRef{id: id}
}

// Populated builds a reference that already carries the user.
func Populated(u User) UserRef {
	return UserRef{id: u.ID, user: &u}
}

// ID returns the referenced user's ID.
func (r UserRef) ID() primitive.ObjectID { return r.id }

// IsPopulated reports whether the full user is available.
func (r UserRef) IsPopulated() bool { return r.user != nil }

// User returns the populated user, or a stub holding only the ID.
func (r UserRef) User() User {
	if r.user != nil {
		return *r.user
	}
	return User{ID: r.id}
}

// DisplayName returns the user's full name, falling back to the hex ID.
func (r UserRef) DisplayName() string {
	if r.user != nil && r.user.FullName != "" {
		return r.user.FullName
	}
	return r.id.Hex()
}

// ResolveRefs pairs each id with its user from users, producing a populated
// ref when found and a bare ref otherwise.
func ResolveRefs(ids []primitive.ObjectID, users []User) []UserRef {
	byID := make(map[primitive.ObjectID]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]UserRef, len(ids))
	for i, id := range ids {
		if u, ok := byID[id]; ok {
			out[i] = Populated(u)
		} else {
			out[i] = Ref(id)
		}
	}
	return out
}
