package attendance

import (
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of an operation, with capabilities
// derived once from the role.
type Actor struct {
	UserID         primitive.ObjectID
	OrganizationID primitive.ObjectID
	Role           string
	Caps           authz.Capabilities
}

// ActorFrom converts a session user. Users without a valid organization
// cannot act on attendance.
func ActorFrom(u auth.SessionUser) (Actor, error) {
	uid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return Actor{}, apperr.New(apperr.NotAuthorized, "invalid session user")
	}
	oid, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		return Actor{}, apperr.New(apperr.NotAuthorized, "user has no organization")
	}
	return Actor{
		UserID:         uid,
		OrganizationID: oid,
		Role:           u.Role,
		Caps:           authz.For(u.Role),
	}, nil
}

// ActorFromRequest reads the signed-in user from the request context.
func ActorFromRequest(r *http.Request) (Actor, error) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		return Actor{}, apperr.New(apperr.NotAuthorized, "sign in required")
	}
	return ActorFrom(*u)
}
