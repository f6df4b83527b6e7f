package attendance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	devicebindingstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/devicebindings"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/authz"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/clock"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// memStore is an in-memory stand-in for every store the service uses. Its
// Insert and Bind are atomic in the same way the unique indexes make the
// Mongo stores atomic.
type memStore struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]models.SessionTemplate
	records   map[string]models.AttendanceRecord
	bindings  map[primitive.ObjectID]models.DeviceBinding
	leaves    []models.LeaveRequest
	orgs      map[primitive.ObjectID]models.Organization
	users     map[primitive.ObjectID]models.User
}

func newMemStore() *memStore {
	return &memStore{
		templates: make(map[primitive.ObjectID]models.SessionTemplate),
		records:   make(map[string]models.AttendanceRecord),
		bindings:  make(map[primitive.ObjectID]models.DeviceBinding),
		orgs:      make(map[primitive.ObjectID]models.Organization),
		users:     make(map[primitive.ObjectID]models.User),
	}
}

func recKey(tid primitive.ObjectID, d models.Date, uid primitive.ObjectID) string {
	return tid.Hex() + "|" + d.String() + "|" + uid.Hex()
}

// templates

type memTemplates struct{ *memStore }

func (m memTemplates) GetByID(_ context.Context, id primitive.ObjectID) (models.SessionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return models.SessionTemplate{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (m memTemplates) GetByIDs(_ context.Context, orgID primitive.ObjectID, ids []primitive.ObjectID) ([]models.SessionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SessionTemplate
	for _, id := range ids {
		if t, ok := m.templates[id]; ok && t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTemplates) ListByOrg(_ context.Context, orgID primitive.ObjectID) ([]models.SessionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SessionTemplate
	for _, t := range m.templates {
		if t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTemplates) ListAssignedTo(_ context.Context, orgID, userID primitive.ObjectID) ([]models.SessionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SessionTemplate
	for _, t := range m.templates {
		if t.OrganizationID == orgID && !t.IsCancelled && t.IsAssigned(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// records

type memRecords struct{ *memStore }

func (m memRecords) Find(_ context.Context, tid primitive.ObjectID, d models.Date, uid primitive.ObjectID) (*models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[recKey(tid, d, uid)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m memRecords) Insert(_ context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recKey(rec.TemplateID, rec.OccurrenceDate, rec.UserID)
	if _, ok := m.records[k]; ok {
		return models.AttendanceRecord{}, attendancestore.ErrDuplicate
	}
	rec.ID = primitive.NewObjectID()
	m.records[k] = rec
	return rec, nil
}

func (m memRecords) UpsertForced(_ context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recKey(rec.TemplateID, rec.OccurrenceDate, rec.UserID)
	cur, ok := m.records[k]
	if !ok {
		cur = rec
		cur.ID = primitive.NewObjectID()
	}
	cur.AttendanceStatus = rec.AttendanceStatus
	cur.ApprovedBy = rec.ApprovedBy
	cur.Forced = true
	cur.IsLate = false
	cur.LateByMinutes = nil
	m.records[k] = cur
	return cur, nil
}

func (m memRecords) ListRange(_ context.Context, tids []primitive.ObjectID, from, to models.Date) ([]models.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(tids))
	for _, id := range tids {
		want[id] = true
	}
	var out []models.AttendanceRecord
	for _, r := range m.records {
		if want[r.TemplateID] && !r.OccurrenceDate.Before(from) && !r.OccurrenceDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// bindings

type memBindings struct{ *memStore }

func (m memBindings) Get(_ context.Context, uid primitive.ObjectID) (*models.DeviceBinding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bindings[uid]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m memBindings) Bind(_ context.Context, uid primitive.ObjectID, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bindings[uid]; ok {
		return devicebindingstore.ErrAlreadyBound
	}
	m.bindings[uid] = models.DeviceBinding{UserID: uid, DeviceID: deviceID, BoundAt: time.Now()}
	return nil
}

func (m memBindings) Reset(uid primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, uid)
}

// leaves

type memLeaves struct{ *memStore }

func (m memLeaves) Resolve(_ context.Context, uid primitive.ObjectID, d models.Date) (*models.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.leaves {
		if l.UserID == uid && l.Status == models.LeaveApproved && l.Covers(d) {
			return &l, nil
		}
	}
	return nil, nil
}

func (m memLeaves) ListApprovedInRange(_ context.Context, uids []primitive.ObjectID, from, to models.Date) ([]models.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(uids))
	for _, id := range uids {
		want[id] = true
	}
	var out []models.LeaveRequest
	for _, l := range m.leaves {
		if !want[l.UserID] || l.Status != models.LeaveApproved {
			continue
		}
		for d := from; !d.After(to); d = d.AddDays(1) {
			if l.Covers(d) {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

// orgs and users

type memOrgs struct{ *memStore }

func (m memOrgs) GetByID(_ context.Context, id primitive.ObjectID) (models.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orgs[id]
	if !ok {
		return models.Organization{}, mongo.ErrNoDocuments
	}
	return o, nil
}

type memUsers struct{ *memStore }

func (m memUsers) ResolveRefs(_ context.Context, ids []primitive.ObjectID) ([]models.UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}
	return models.ResolveRefs(ids, users), nil
}

// harness wires a Service to a memStore with one organization.
type harness struct {
	t     *testing.T
	store *memStore
	svc   *attendance.Service
	org   models.Organization
	now   time.Time
}

// monday is 2024-01-01, a Monday.
var monday = models.NewDate(2024, time.January, 1)

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, store: newMemStore()}
	h.org = models.Organization{ID: primitive.NewObjectID(), Name: "Acme", TimeZone: "UTC"}
	h.store.orgs[h.org.ID] = h.org
	h.now = time.Date(2024, time.January, 1, 9, 0, 30, 0, time.UTC)
	h.svc = h.newService(attendance.Options{})
	return h
}

func (h *harness) newService(opts attendance.Options) *attendance.Service {
	opts.Clock = clock.Func(func() time.Time { return h.now })
	m := h.store
	return attendance.New(attendance.Deps{
		Templates: memTemplates{m},
		Records:   memRecords{m},
		Bindings:  memBindings{m},
		Leaves:    memLeaves{m},
		Orgs:      memOrgs{m},
		Users:     memUsers{m},
	}, opts, nil)
}

// addTemplate stores a Mon/Wed/Fri 09:00-10:00 virtual template.
func (h *harness) addTemplate(mutate func(*models.SessionTemplate), users ...primitive.ObjectID) models.SessionTemplate {
	t := models.SessionTemplate{
		ID:              primitive.NewObjectID(),
		OrganizationID:  h.org.ID,
		Name:            "Standup",
		NameCI:          "standup",
		Frequency:       models.FrequencyWeekly,
		StartDate:       monday,
		StartTime:       "09:00",
		EndTime:         "10:00",
		WeeklyDays:      []string{"monday", "wednesday", "friday"},
		LocationType:    models.LocationVirtual,
		VirtualLocation: "https://meet.example.com/standup",
		AssignedUsers:   users,
	}
	if mutate != nil {
		mutate(&t)
	}
	h.store.mu.Lock()
	h.store.templates[t.ID] = t
	h.store.mu.Unlock()
	return t
}

func (h *harness) addUser(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	h.store.mu.Lock()
	h.store.users[id] = models.User{ID: id, FullName: name, Role: models.RoleEndUser, OrganizationID: &h.org.ID}
	h.store.mu.Unlock()
	return id
}

func (h *harness) approveLeave(userID primitive.ObjectID, dates ...models.Date) models.LeaveRequest {
	approver := primitive.NewObjectID()
	l := models.LeaveRequest{
		ID:             primitive.NewObjectID(),
		OrganizationID: h.org.ID,
		UserID:         userID,
		LeaveType:      models.LeaveTypeSick,
		Dates:          dates,
		Status:         models.LeaveApproved,
		ApprovedBy:     &approver,
	}
	h.store.mu.Lock()
	h.store.leaves = append(h.store.leaves, l)
	h.store.mu.Unlock()
	return l
}

func (h *harness) manager() attendance.Actor {
	return attendance.Actor{
		UserID:         primitive.NewObjectID(),
		OrganizationID: h.org.ID,
		Role:           models.RoleManager,
		Caps:           authz.For(models.RoleManager),
	}
}

func (h *harness) scan(t models.SessionTemplate, userID primitive.ObjectID, device string) attendance.VerifyRequest {
	return attendance.VerifyRequest{
		SessionID:        t.ID,
		UserID:           userID,
		OrganizationID:   h.org.ID,
		ScannedSessionID: t.ID.Hex(),
		DeviceID:         device,
	}
}

func (h *harness) recordCount() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.records)
}
