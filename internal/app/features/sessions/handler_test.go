package sessions_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/sessions"
	sessiontemplatestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/sessiontemplates"
	userstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/users"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/clock"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// mondayNine is 2024-01-01 09:15 UTC, inside a 09:00-10:00 Monday window.
var mondayNine = time.Date(2024, time.January, 1, 9, 15, 0, 0, time.UTC)

func newHandler(t *testing.T, db *mongo.Database) *sessions.Handler {
	t.Helper()
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	svc := attendance.NewWithMongo(db, attendance.Options{Clock: clock.Fixed{T: mondayNine}}, logger)
	audit := auditlog.New(nil, logger, auditlog.Config{Attendance: auditlog.Off, Admin: auditlog.Off})
	return sessions.NewHandler(svc, sessiontemplatestore.New(db), userstore.New(db), audit, errLog, logger)
}

func validBody(assigned ...primitive.ObjectID) map[string]any {
	ids := make([]string, len(assigned))
	for i, id := range assigned {
		ids[i] = id.Hex()
	}
	return map[string]any{
		"name":           "Morning Standup",
		"frequency":      "weekly",
		"start_date":     "2024-01-01",
		"start_time":     "09:00",
		"end_time":       "10:00",
		"weekly_days":    []string{"Monday", "friday", "monday"},
		"location_type":  "virtual",
		"assigned_users": ids,
	}
}

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	member := fixtures.CreateEndUser(ctx, "Alice", "alice@example.com", org.ID)
	h := newHandler(t, db)
	mgr := testutil.ManagerUser(org.ID)

	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/sessions", validBody(member.ID), mgr))
	rec.AssertStatus(t, http.StatusCreated)

	var created models.SessionTemplate
	rec.DecodeJSON(t, &created)
	if created.ID.IsZero() {
		t.Fatal("expected an id")
	}
	if len(created.WeeklyDays) != 2 || created.WeeklyDays[0] != "friday" || created.WeeklyDays[1] != "monday" {
		t.Errorf("weekly days: got %v, want [friday monday]", created.WeeklyDays)
	}
	if len(created.AssignedUsers) != 1 || created.AssignedUsers[0] != member.ID {
		t.Errorf("assigned: got %v", created.AssignedUsers)
	}
	if created.OrganizationID != org.ID {
		t.Errorf("organization: got %s, want %s", created.OrganizationID.Hex(), org.ID.Hex())
	}

	// Same name again is rejected.
	rec = testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/sessions", validBody(), mgr))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "already exists")
}

// A template whose start and end coincide is a one-minute session, and an
// explicit zero grace is stored rather than dropped.
func TestServeCreate_OneMinuteZeroGrace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	h := newHandler(t, db)

	body := validBody()
	body["end_time"] = "09:00"
	body["late_grace_minutes"] = 0

	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/sessions", body, testutil.ManagerUser(org.ID)))
	rec.AssertStatus(t, http.StatusCreated)

	var created models.SessionTemplate
	rec.DecodeJSON(t, &created)
	if created.StartTime != "09:00" || created.EndTime != "09:00" {
		t.Errorf("times: got %s-%s, want 09:00-09:00", created.StartTime, created.EndTime)
	}
	if created.LateGraceMinutes == nil || *created.LateGraceMinutes != 0 {
		t.Errorf("grace: got %v, want explicit 0", created.LateGraceMinutes)
	}
}

func TestServeCreate_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	otherOrg := fixtures.CreateOrganization(ctx, "Other")
	outsider := fixtures.CreateEndUser(ctx, "Mallory", "mallory@example.com", otherOrg.ID)
	h := newHandler(t, db)

	tests := []struct {
		name     string
		mutate   func(map[string]any)
		user     testutil.TestUser
		wantCode int
	}{
		{"end user", func(map[string]any) {}, testutil.EndUser(org.ID), http.StatusForbidden},
		{"missing name", func(b map[string]any) { b["name"] = "" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"markup-only name", func(b map[string]any) { b["name"] = "<b></b>" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"bad frequency", func(b map[string]any) { b["frequency"] = "hourly" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"bad time", func(b map[string]any) { b["start_time"] = "25:00" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"negative grace", func(b map[string]any) { b["late_grace_minutes"] = -1 }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"end before start", func(b map[string]any) { b["end_date"] = "2023-12-31" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"weekly without days", func(b map[string]any) { b["weekly_days"] = []string{} }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"bad weekday", func(b map[string]any) { b["weekly_days"] = []string{"someday"} }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"physical without fence", func(b map[string]any) { b["location_type"] = "physical" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"zero radius", func(b map[string]any) {
			b["location_type"] = "physical"
			b["physical_location"] = map[string]any{"lat": 12.97, "lng": 77.59, "radius_meters": 0}
		}, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"latitude out of range", func(b map[string]any) {
			b["location_type"] = "physical"
			b["physical_location"] = map[string]any{"lat": 97, "lng": 77.59, "radius_meters": 50}
		}, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"assignee from another org", func(b map[string]any) { b["assigned_users"] = []string{outsider.ID.Hex()} }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
		{"unknown field", func(b map[string]any) { b["colour"] = "red" }, testutil.ManagerUser(org.ID), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			body["name"] = "Session " + tt.name
			tt.mutate(body)

			rec := testutil.NewRecorder()
			h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/sessions", body, tt.user))
			rec.AssertStatus(t, tt.wantCode)
		})
	}
}

func TestServeCreate_Physical(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	h := newHandler(t, db)

	body := validBody()
	body["location_type"] = "physical"
	body["physical_location"] = map[string]any{"lat": 12.9716, "lng": 77.5946, "radius_meters": 100, "address": "<i>Hall</i> A"}
	body["description"] = `<p>Bring laptops</p><script>alert(1)</script>`

	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/sessions", body, testutil.ManagerUser(org.ID)))
	rec.AssertStatus(t, http.StatusCreated)

	var created models.SessionTemplate
	rec.DecodeJSON(t, &created)
	if created.PhysicalLocation == nil || created.PhysicalLocation.RadiusMeters != 100 {
		t.Fatalf("physical location: got %+v", created.PhysicalLocation)
	}
	if created.PhysicalLocation.Address != "Hall A" {
		t.Errorf("address: got %q, want %q", created.PhysicalLocation.Address, "Hall A")
	}
	if created.Description != "<p>Bring laptops</p>" {
		t.Errorf("description: got %q", created.Description)
	}
}

func TestServeUpdateAndCancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	tmpl := fixtures.CreateTemplate(ctx, testutil.WeeklyTemplate(org.ID, "Standup", models.NewDate(2024, 1, 1), []string{"monday"}))
	h := newHandler(t, db)
	admin := testutil.SessionAdminUser(org.ID)

	body := validBody()
	body["name"] = "Renamed"
	body["start_time"] = "08:30"
	body["late_grace_minutes"] = 5

	req := testutil.NewJSONRequest(http.MethodPut, "/api/sessions/"+tmpl.ID.Hex(), body, admin)
	req = testutil.WithChiURLParam(req, "id", tmpl.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var updated models.SessionTemplate
	rec.DecodeJSON(t, &updated)
	if updated.Name != "Renamed" || updated.StartTime != "08:30" || updated.LateGraceMinutes == nil || *updated.LateGraceMinutes != 5 {
		t.Errorf("updated: got name=%q start=%q grace=%v", updated.Name, updated.StartTime, updated.LateGraceMinutes)
	}

	// Another organization's manager cannot touch it.
	foreign := testutil.ManagerUser(primitive.NewObjectID())
	req = testutil.NewJSONRequest(http.MethodPut, "/api/sessions/"+tmpl.ID.Hex(), body, foreign)
	req = testutil.WithChiURLParam(req, "id", tmpl.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodPost, "/api/sessions/"+tmpl.ID.Hex()+"/cancel", admin), "id", tmpl.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeCancel(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := sessiontemplatestore.New(db).GetByID(context.Background(), tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsCancelled {
		t.Error("expected template to be cancelled")
	}
}

func TestServeSelectableAndView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	member := fixtures.CreateEndUser(ctx, "Alice", "alice@example.com", org.ID)
	live := fixtures.CreateTemplate(ctx, testutil.WeeklyTemplate(org.ID, "Standup", models.NewDate(2024, 1, 1), []string{"monday"}, member.ID))
	fixtures.CreateTemplate(ctx, testutil.WeeklyTemplate(org.ID, "Other day", models.NewDate(2024, 1, 1), []string{"tuesday"}, member.ID))
	hidden := fixtures.CreateTemplate(ctx, testutil.WeeklyTemplate(org.ID, "Not mine", models.NewDate(2024, 1, 1), []string{"monday"}))
	h := newHandler(t, db)
	user := testutil.AsTestUser(member)

	rec := testutil.NewRecorder()
	h.ServeSelectable(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions/selectable", user))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Sessions []attendance.SelectableSession `json:"sessions"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Sessions) != 1 || resp.Sessions[0].Template.ID != live.ID {
		t.Fatalf("selectable: got %+v", resp.Sessions)
	}
	if resp.Sessions[0].Status.Kind != "live" {
		t.Errorf("status: got %q, want live", resp.Sessions[0].Status.Kind)
	}

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions/"+hidden.ID.Hex(), user), "id", hidden.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertErrorKind(t, "not_found")

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions/"+live.ID.Hex(), user), "id", live.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestServeList_Paged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		fixtures.CreateTemplate(ctx, testutil.WeeklyTemplate(org.ID, name, models.NewDate(2024, 1, 1), []string{"monday"}))
	}
	h := newHandler(t, db)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions?limit=2", testutil.ManagerUser(org.ID)))
	rec.AssertStatus(t, http.StatusOK)

	var page struct {
		Sessions []models.SessionTemplate `json:"sessions"`
		HasNext  bool                     `json:"has_next"`
		Next     string                   `json:"next"`
	}
	rec.DecodeJSON(t, &page)
	if len(page.Sessions) != 2 || !page.HasNext || page.Next == "" {
		t.Fatalf("page 1: got %d sessions, has_next=%v next=%q", len(page.Sessions), page.HasNext, page.Next)
	}

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions?limit=2&after="+url.QueryEscape(page.Next), testutil.ManagerUser(org.ID)))
	rec.AssertStatus(t, http.StatusOK)
	page.Sessions = nil
	page.HasNext = false
	rec.DecodeJSON(t, &page)
	if len(page.Sessions) != 1 || page.Sessions[0].Name != "Charlie" || page.HasNext {
		t.Errorf("page 2: got %+v", page)
	}

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/sessions", testutil.EndUser(org.ID)))
	rec.AssertStatus(t, http.StatusForbidden)
}
