package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) uierrors.Detail {
	t.Helper()
	var body uierrors.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return body.Error
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
		wantMsg  string
		wantLogs int
	}{
		{"validation", apperr.New(apperr.Validation, "device_id is required"), http.StatusBadRequest, "validation", "device_id is required", 0},
		{"session mismatch", apperr.New(apperr.SessionMismatch, "wrong session"), http.StatusConflict, "session_mismatch", "wrong session", 0},
		{"window closed", apperr.New(apperr.WindowClosed, "closed"), http.StatusConflict, "window_closed", "closed", 0},
		{"already marked", apperr.New(apperr.AlreadyMarked, "done"), http.StatusConflict, "already_marked", "done", 0},
		{"device mismatch", apperr.New(apperr.DeviceMismatch, "other device"), http.StatusConflict, "device_mismatch", "other device", 0},
		{"not authorized", apperr.New(apperr.NotAuthorized, "no"), http.StatusForbidden, "not_authorized", "no", 0},
		{"not found", apperr.New(apperr.NotFound, "missing"), http.StatusNotFound, "not_found", "missing", 0},
		{"wrapped internal", apperr.Wrap(apperr.Internal, errors.New("socket closed"), "load template"), http.StatusInternalServerError, "internal", "internal error", 1},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError, "internal", "internal error", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			el := uierrors.NewErrorLogger(zap.New(core))

			rec := httptest.NewRecorder()
			el.Write(rec, httptest.NewRequest(http.MethodPost, "/api/attendance/scan", nil), tt.err)

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			d := decode(t, rec)
			if d.Kind != tt.wantKind {
				t.Errorf("kind: got %q, want %q", d.Kind, tt.wantKind)
			}
			if d.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", d.Message, tt.wantMsg)
			}
			if logs.Len() != tt.wantLogs {
				t.Errorf("logs: got %d, want %d", logs.Len(), tt.wantLogs)
			}
		})
	}
}

func TestLogServerError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil),
		"aggregate failed", errors.New("cursor timeout"), "A database error occurred.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if d := decode(t, rec); d.Message != "A database error occurred." {
		t.Errorf("message: got %q", d.Message)
	}
	entries := logs.FilterMessage("aggregate failed").All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != "/api/analytics" {
		t.Errorf("logged path: got %v", got)
	}
}

func TestLogBadRequest_Fields(t *testing.T) {
	el := uierrors.NewErrorLogger(nil)

	rec := httptest.NewRecorder()
	el.LogBadRequest(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil),
		"invalid body", nil, "Name is required.", []map[string]string{{"field": "name"}})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %q", ct)
	}
	d := decode(t, rec)
	if d.Kind != "validation" || d.Fields == nil {
		t.Errorf("detail: got %+v", d)
	}
}

func TestForbidden(t *testing.T) {
	el := uierrors.NewErrorLogger(nil)
	rec := httptest.NewRecorder()
	el.Forbidden(rec, httptest.NewRequest(http.MethodPost, "/api/attendance/force", nil), "Managers only.")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if d := decode(t, rec); d.Kind != "not_authorized" {
		t.Errorf("kind: got %q", d.Kind)
	}
}
