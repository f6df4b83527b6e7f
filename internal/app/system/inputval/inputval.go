// Package inputval validates request payloads with go-playground/validator.
//
// Structs declare rules with `validate` tags and may name a field for messages
// with a `label` tag. Besides the built-in rules, these tags are registered:
//
//	hhmm      24h "HH:MM" wall-clock time
//	ymd       "YYYY-MM-DD" calendar date
//	weekday   lower-case weekday name ("monday" ... "sunday")
//	objectid  24-char hex Mongo ObjectID
//	tz        IANA time zone name loadable by time.LoadLocation
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return IsHHMM(fl.Field().String())
		})
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return IsWeekday(fl.Field().String())
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("tz", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return false
			}
			_, err := time.LoadLocation(s)
			return err == nil
		})
	})
	return v
}

// FieldError is one failed rule, already phrased for display.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Err converts the result into an apperr validation error (nil when valid).
func (r Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return apperr.New(apperr.Validation, "%s", r.First())
}

// Validate runs the struct's `validate` tags.
func Validate(s any) Result {
	err := instance().Struct(s)
	if err == nil {
		return Result{}
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Result{Errors: []FieldError{{Rule: "invalid", Message: err.Error()}}}
	}
	out := Result{Errors: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return f + " is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", f, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", f, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", f, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return f + " must be a valid email address."
	case "hhmm":
		return f + " must be a time in HH:MM form."
	case "ymd":
		return f + " must be a date in YYYY-MM-DD form."
	case "weekday":
		return f + " must be a weekday name."
	case "objectid":
		return f + " is not a valid id."
	case "tz":
		return f + " must be an IANA time zone."
	case "latitude", "longitude":
		return f + " is out of range."
	}
	return f + " is invalid."
}

// IsHHMM reports whether s is a 24h "HH:MM" time.
func IsHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

var weekdays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// IsWeekday reports whether s is a lower-case weekday name.
func IsWeekday(s string) bool { return weekdays[s] }
