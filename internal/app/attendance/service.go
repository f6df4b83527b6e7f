// Package attendance turns scan attempts into attendance records and
// summarizes those records into reports.
//
// The Service holds no state of its own beyond a cache of loaded time zones.
// Uniqueness of records and device bindings is enforced by the stores.
package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/clock"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/schedule"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TemplateStore reads session templates.
type TemplateStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.SessionTemplate, error)
	GetByIDs(ctx context.Context, orgID primitive.ObjectID, ids []primitive.ObjectID) ([]models.SessionTemplate, error)
	ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.SessionTemplate, error)
	ListAssignedTo(ctx context.Context, orgID, userID primitive.ObjectID) ([]models.SessionTemplate, error)
}

// RecordStore persists attendance records. Insert must fail with
// attendancestore.ErrDuplicate when the key already exists.
type RecordStore interface {
	Find(ctx context.Context, templateID primitive.ObjectID, date models.Date, userID primitive.ObjectID) (*models.AttendanceRecord, error)
	Insert(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error)
	UpsertForced(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error)
	ListRange(ctx context.Context, templateIDs []primitive.ObjectID, from, to models.Date) ([]models.AttendanceRecord, error)
}

// BindingStore holds one device per user. Bind must fail with
// devicebindingstore.ErrAlreadyBound when a binding exists.
type BindingStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.DeviceBinding, error)
	Bind(ctx context.Context, userID primitive.ObjectID, deviceID string) error
}

// LeaveStore answers leave coverage questions.
type LeaveStore interface {
	Resolve(ctx context.Context, userID primitive.ObjectID, date models.Date) (*models.LeaveRequest, error)
	ListApprovedInRange(ctx context.Context, userIDs []primitive.ObjectID, from, to models.Date) ([]models.LeaveRequest, error)
}

// OrgStore loads organizations for their time zone and grace default.
type OrgStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error)
}

// UserResolver turns user IDs into references for report rows.
type UserResolver interface {
	ResolveRefs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserRef, error)
}

// Leave policies for the aggregator's denominator.
const (
	LeavePolicyExclude = "exclude"
	LeavePolicyAbsent  = "absent"
)

// Options tune the service. Zero values fall back to defaults.
type Options struct {
	Lookahead        time.Duration
	DefaultLateGrace int
	DefaultTimeZone  string
	LeavePolicy      string
	Clock            clock.Clock
}

// Deps are the collaborators of a Service. Users may be nil.
type Deps struct {
	Templates TemplateStore
	Records   RecordStore
	Bindings  BindingStore
	Leaves    LeaveStore
	Orgs      OrgStore
	Users     UserResolver
}

// Service implements the attendance operations.
type Service struct {
	templates TemplateStore
	records   RecordStore
	bindings  BindingStore
	leaves    LeaveStore
	orgs      OrgStore
	users     UserResolver

	lookahead   time.Duration
	grace       int
	defaultLoc  *time.Location
	leavePolicy string
	clock       clock.Clock
	log         *zap.Logger

	locMu sync.Mutex
	locs  map[string]*time.Location
}

// New builds a Service. An unknown DefaultTimeZone falls back to UTC.
func New(deps Deps, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		templates:   deps.Templates,
		records:     deps.Records,
		bindings:    deps.Bindings,
		leaves:      deps.Leaves,
		orgs:        deps.Orgs,
		users:       deps.Users,
		lookahead:   opts.Lookahead,
		grace:       opts.DefaultLateGrace,
		leavePolicy: opts.LeavePolicy,
		clock:       opts.Clock,
		log:         logger,
		locs:        make(map[string]*time.Location),
	}
	if s.lookahead <= 0 {
		s.lookahead = schedule.DefaultLookahead
	}
	if s.grace < 0 {
		s.grace = 0
	}
	if s.leavePolicy != LeavePolicyAbsent {
		s.leavePolicy = LeavePolicyExclude
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	s.defaultLoc = time.UTC
	if opts.DefaultTimeZone != "" {
		if loc, err := time.LoadLocation(opts.DefaultTimeZone); err == nil {
			s.defaultLoc = loc
		} else {
			logger.Warn("unknown default time zone, using UTC", zap.String("tz", opts.DefaultTimeZone))
		}
	}
	return s
}

// orgContext is what every operation needs to know about an organization.
type orgContext struct {
	loc   *time.Location
	grace *int
}

func (s *Service) org(ctx context.Context, orgID primitive.ObjectID) (orgContext, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return orgContext{}, apperr.New(apperr.NotFound, "organization not found")
	}
	if err != nil {
		return orgContext{}, apperr.Wrap(apperr.Internal, err, "load organization")
	}
	return orgContext{loc: s.location(org.TimeZone), grace: org.LateGraceMinutes}, nil
}

func (s *Service) location(tz string) *time.Location {
	if tz == "" {
		return s.defaultLoc
	}
	s.locMu.Lock()
	defer s.locMu.Unlock()
	if loc, ok := s.locs[tz]; ok {
		return loc
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("unknown organization time zone, using default", zap.String("tz", tz))
		loc = s.defaultLoc
	}
	s.locs[tz] = loc
	return loc
}

// lateGrace picks the template's threshold, then the organization's, then
// the service default. An explicit zero on the template means no grace.
func (s *Service) lateGrace(t models.SessionTemplate, oc orgContext) int {
	switch {
	case t.LateGraceMinutes != nil && *t.LateGraceMinutes >= 0:
		return *t.LateGraceMinutes
	case oc.grace != nil && *oc.grace >= 0:
		return *oc.grace
	default:
		return s.grace
	}
}

// template loads a template scoped to orgID.
func (s *Service) template(ctx context.Context, orgID, id primitive.ObjectID) (models.SessionTemplate, error) {
	t, err := s.templates.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SessionTemplate{}, apperr.New(apperr.NotFound, "session not found")
	}
	if err != nil {
		return models.SessionTemplate{}, apperr.Wrap(apperr.Internal, err, "load session")
	}
	if t.OrganizationID != orgID {
		return models.SessionTemplate{}, apperr.New(apperr.NotFound, "session not found")
	}
	return t, nil
}
