package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates an organization in UTC.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()
	return f.CreateOrganizationInZone(ctx, name, "UTC")
}

// CreateOrganizationInZone creates an organization with the given IANA zone.
func (f *Fixtures) CreateOrganizationInZone(ctx context.Context, name, tz string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		TimeZone:  tz,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a user with the given role in orgID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		Role:           role,
		Status:         "active",
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateEndUser creates an end user in orgID.
func (f *Fixtures) CreateEndUser(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleEndUser, &orgID)
}

// CreateManager creates a manager in orgID.
func (f *Fixtures) CreateManager(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleManager, &orgID)
}

// CreateDisabledUser creates an end user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()

	u := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		Role:           models.RoleEndUser,
		Status:         "disabled",
		OrganizationID: &orgID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create disabled user: %v", err)
	}
	return u
}

// WeeklyTemplate returns (without storing) a virtual weekly template for
// orgID running 09:00-10:00 on the given days from startDate.
func WeeklyTemplate(orgID primitive.ObjectID, name string, startDate models.Date, days []string, assigned ...primitive.ObjectID) models.SessionTemplate {
	if assigned == nil {
		assigned = []primitive.ObjectID{}
	}
	return models.SessionTemplate{
		OrganizationID:  orgID,
		Name:            name,
		Frequency:       models.FrequencyWeekly,
		StartDate:       startDate,
		StartTime:       "09:00",
		EndTime:         "10:00",
		WeeklyDays:      days,
		LocationType:    models.LocationVirtual,
		VirtualLocation: "https://meet.example.com/standup",
		AssignedUsers:   assigned,
	}
}

// CreateTemplate stores t as-is, assigning an ID and timestamps.
func (f *Fixtures) CreateTemplate(ctx context.Context, t models.SessionTemplate) models.SessionTemplate {
	f.t.Helper()

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.AssignedUsers == nil {
		t.AssignedUsers = []primitive.ObjectID{}
	}
	if _, err := f.db.Collection("session_templates").InsertOne(ctx, t); err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return t
}

// CreateApprovedLeave stores an approved leave for userID covering dates.
func (f *Fixtures) CreateApprovedLeave(ctx context.Context, orgID, userID, approverID primitive.ObjectID, dates ...models.Date) models.LeaveRequest {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.LeaveRequest{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		UserID:         userID,
		LeaveType:      models.LeaveTypeSick,
		Dates:          dates,
		Status:         models.LeaveApproved,
		ApprovedBy:     &approverID,
		DecidedAt:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("leave_requests").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test leave: %v", err)
	}
	return l
}
