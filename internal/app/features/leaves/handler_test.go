package leaves_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/leaves"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
	leavestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/leaves"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *leaves.Handler {
	logger := zap.NewNop()
	al := auditlog.New(audit.New(db), logger, auditlog.Config{Admin: auditlog.DB, Attendance: auditlog.Off})
	return leaves.NewHandler(leavestore.New(db), al, uierrors.NewErrorLogger(logger), logger)
}

func create(h *leaves.Handler, body map[string]any, user testutil.TestUser) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeCreate(rec, testutil.NewJSONRequest(http.MethodPost, "/api/leaves", body, user))
	return rec
}

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	alice := fixtures.CreateEndUser(ctx, "Alice", "alice@example.com", org.ID)
	h := newHandler(db)
	user := testutil.AsTestUser(alice)

	rec := create(h, map[string]any{
		"leave_type": "sick",
		"dates":      []string{"2024-01-08", "2024-01-08", "2024-01-10"},
		"reason":     "<b>flu</b>",
	}, user)
	rec.AssertStatus(t, http.StatusCreated)

	var got models.LeaveRequest
	rec.DecodeJSON(t, &got)
	if got.Status != models.LeavePending {
		t.Errorf("status: got %q, want pending", got.Status)
	}
	if got.UserID != alice.ID || got.OrganizationID != org.ID {
		t.Errorf("owner: got user %s org %s", got.UserID.Hex(), got.OrganizationID.Hex())
	}
	if len(got.Dates) != 2 {
		t.Errorf("dates should be deduplicated: got %v", got.Dates)
	}
	if got.Reason != "flu" {
		t.Errorf("reason: got %q, want tags stripped", got.Reason)
	}

	n, err := audit.New(db).CountByFilter(ctx, audit.QueryFilter{UserID: &alice.ID, EventType: audit.EventLeaveRequested})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("leave requested events: got %d, want 1", n)
	}

	rec = create(h, map[string]any{"leave_type": "casual", "start_date": "2024-02-01", "end_date": "2024-02-03"}, user)
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	h.ServeMine(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/leaves/mine", user))
	var mine struct {
		Leaves []models.LeaveRequest `json:"leaves"`
	}
	rec.DecodeJSON(t, &mine)
	if len(mine.Leaves) != 2 {
		t.Errorf("mine: got %d leaves, want 2", len(mine.Leaves))
	}
}

func TestServeCreate_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	user := testutil.EndUser(primitive.NewObjectID())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown type", map[string]any{"leave_type": "holiday", "dates": []string{"2024-01-08"}}},
		{"no dates", map[string]any{"leave_type": "sick"}},
		{"bad date", map[string]any{"leave_type": "sick", "dates": []string{"08/01/2024"}}},
		{"half range", map[string]any{"leave_type": "sick", "start_date": "2024-01-08"}},
		{"reversed range", map[string]any{"leave_type": "sick", "start_date": "2024-01-08", "end_date": "2024-01-01"}},
		{"range too long", map[string]any{"leave_type": "sick", "start_date": "2024-01-01", "end_date": "2025-06-01"}},
		{"unknown field", map[string]any{"leave_type": "sick", "dates": []string{"2024-01-08"}, "status": "approved"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := create(h, tt.body, user)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertErrorKind(t, "validation")
		})
	}
}

func TestDecide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	alice := fixtures.CreateEndUser(ctx, "Alice", "alice@example.com", org.ID)
	h := newHandler(db)
	store := leavestore.New(db)

	first, err := store.Create(ctx, models.LeaveRequest{
		OrganizationID: org.ID,
		UserID:         alice.ID,
		LeaveType:      models.LeaveTypeSick,
		Dates:          []models.Date{models.NewDate(2024, time.January, 8)},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := store.Create(ctx, models.LeaveRequest{
		OrganizationID: org.ID,
		UserID:         alice.ID,
		LeaveType:      models.LeaveTypeOther,
		Dates:          []models.Date{models.NewDate(2024, time.January, 9)},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mgr := testutil.ManagerUser(org.ID)
	decide := func(serve http.HandlerFunc, user testutil.TestUser, id string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(http.MethodPost, "/api/leaves/"+id, user)
		serve(rec, testutil.WithChiURLParam(req, "id", id))
		return rec
	}

	rec := testutil.NewRecorder()
	h.ServePending(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/leaves/pending", mgr))
	var pending struct {
		Leaves []models.LeaveRequest `json:"leaves"`
	}
	rec.DecodeJSON(t, &pending)
	if len(pending.Leaves) != 2 || pending.Leaves[0].ID != first.ID {
		t.Fatalf("pending: got %+v", pending.Leaves)
	}

	rec = decide(h.ServeApprove, mgr, first.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	var approved models.LeaveRequest
	rec.DecodeJSON(t, &approved)
	if approved.Status != models.LeaveApproved || approved.ApprovedBy == nil {
		t.Errorf("approve: got status %q approver %v", approved.Status, approved.ApprovedBy)
	}

	rec = decide(h.ServeReject, mgr, first.ID.Hex())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertErrorKind(t, "validation")

	rec = decide(h.ServeReject, mgr, second.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"rejected"`)

	tests := []struct {
		name   string
		user   testutil.TestUser
		id     string
		status int
	}{
		{"session admin", testutil.SessionAdminUser(org.ID), second.ID.Hex(), http.StatusForbidden},
		{"other organization", testutil.ManagerUser(other.ID), second.ID.Hex(), http.StatusNotFound},
		{"missing", mgr, "65a000000000000000000000", http.StatusNotFound},
		{"malformed", mgr, "nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := decide(h.ServeApprove, tt.user, tt.id)
			rec.AssertStatus(t, tt.status)
		})
	}

	n, err := audit.New(db).CountByFilter(ctx, audit.QueryFilter{OrganizationID: &org.ID, Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("decision events: got %d, want 2", n)
	}
}
