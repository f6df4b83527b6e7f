// Package formutil reads request input for the JSON handlers: bodies, path
// parameters and query parameters. Every failure is an apperr validation
// error so handlers can pass it straight to the error logger.
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v, rejecting unknown fields,
// trailing data and bodies over MaxBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.Validation, "request body is empty")
		case errors.As(err, &mbe):
			return apperr.New(apperr.Validation, "request body is too large")
		default:
			return apperr.Wrap(apperr.Validation, err, "request body is not valid JSON")
		}
	}
	if dec.More() {
		return apperr.New(apperr.Validation, "request body must hold a single JSON object")
	}
	return nil
}

// ObjectIDParam parses the chi URL parameter name as an ObjectID.
func ObjectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return ParseObjectID(chi.URLParam(r, name), name)
}

// ParseObjectID parses a hex id; field names the input in the error message.
func ParseObjectID(s, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Validation, "%s is not a valid id", field)
	}
	return id, nil
}

// ObjectIDList parses the comma-separated query parameter name. A missing
// or empty parameter yields nil.
func ObjectIDList(r *http.Request, name string) ([]primitive.ObjectID, error) {
	raw := query.Get(r, name)
	if raw == "" {
		return nil, nil
	}
	var out []primitive.ObjectID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ParseObjectID(part, name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// DateQuery parses the "YYYY-MM-DD" query parameter name. ok is false when
// the parameter is absent.
func DateQuery(r *http.Request, name string) (d models.Date, ok bool, err error) {
	raw := query.Get(r, name)
	if raw == "" {
		return models.Date{}, false, nil
	}
	d, err = models.ParseDate(raw)
	if err != nil {
		return models.Date{}, false, apperr.New(apperr.Validation, "%s must be a date in YYYY-MM-DD form", name)
	}
	return d, true, nil
}
