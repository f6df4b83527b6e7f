// internal/app/features/sessions/respond.go
package sessions

import (
	"errors"
	"net/http"

	sessiontemplatestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/sessiontemplates"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fail writes err, translating field failures and store sentinels first.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var vf *validationFailure
	switch {
	case errors.As(err, &vf):
		h.ErrLog.LogBadRequest(w, r, "invalid session input", err, vf.msg, vf.fields)
	case errors.Is(err, sessiontemplatestore.ErrDuplicateName):
		h.ErrLog.Write(w, r, apperr.New(apperr.Validation, "a session with this name already exists"))
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.Write(w, r, apperr.New(apperr.NotFound, "session not found"))
	default:
		h.ErrLog.Write(w, r, err)
	}
}

func sessionID(r *http.Request) (primitive.ObjectID, error) {
	return formutil.ObjectIDParam(r, "id")
}
