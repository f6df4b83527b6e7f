// internal/app/features/errors/errors.go
//
// Package errors writes JSON error responses for the HTTP features and logs
// the ones that indicate a server fault. Handlers import it as uierrors.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Body is the envelope of every error response:
//
//	{"error":{"kind":"window_closed","message":"..."}}
type Body struct {
	Error Detail `json:"error"`
}

// Detail is the payload of Body. Fields lists per-field validation failures
// when the request body did not validate.
type Detail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Fields  any    `json:"fields,omitempty"`
}

// ErrorLogger renders error responses and logs server-side failures.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// Write maps err to its status and kind. Internal errors are logged with the
// underlying cause and reported to the client generically.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	WriteJSON(w, apperr.HTTPStatus(kind), Body{Error: Detail{
		Kind:    string(kind),
		Message: apperr.MessageOf(err),
	}})
}

// LogServerError logs msg with err and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, Body{Error: Detail{
		Kind:    string(apperr.Internal),
		Message: userMsg,
	}})
}

// LogBadRequest logs a rejected request at debug level and responds 400.
// fields, when non-nil, is echoed under error.fields.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, fields any) {
	e.Log.Debug(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteJSON(w, http.StatusBadRequest, Body{Error: Detail{
		Kind:    string(apperr.Validation),
		Message: userMsg,
		Fields:  fields,
	}})
}

// Forbidden responds 403 for a signed-in user lacking a capability.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, r *http.Request, userMsg string) {
	WriteJSON(w, http.StatusForbidden, Body{Error: Detail{
		Kind:    string(apperr.NotAuthorized),
		Message: userMsg,
	}})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
