package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/schedule"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectableSession is a template the user can scan now or shortly.
type SelectableSession struct {
	Template models.SessionTemplate `json:"template"`
	Status   schedule.Status        `json:"status"`
}

// ListSelectableSessions returns the actor's assigned sessions that are Live
// or UpcomingSoon at now, Live first, then soonest, then by name.
// A zero now means the service clock.
func (s *Service) ListSelectableSessions(ctx context.Context, actor Actor, now time.Time) ([]SelectableSession, error) {
	if actor.UserID.IsZero() || actor.OrganizationID.IsZero() {
		return nil, apperr.New(apperr.Validation, "user and organization are required")
	}
	oc, err := s.org(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = s.clock.Now()
	}
	local := now.In(oc.loc)

	templates, err := s.templates.ListAssignedTo(ctx, actor.OrganizationID, actor.UserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list sessions")
	}

	out := make([]SelectableSession, 0, len(templates))
	for _, t := range templates {
		if t.IsCancelled || !t.IsAssigned(actor.UserID) {
			continue
		}
		st := schedule.Classify(t, local, s.lookahead)
		if !st.Selectable() {
			continue
		}
		out = append(out, SelectableSession{Template: t, Status: st})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Status.Kind == schedule.Live) != (b.Status.Kind == schedule.Live) {
			return a.Status.Kind == schedule.Live
		}
		if a.Status.MinutesUntilStart != b.Status.MinutesUntilStart {
			return a.Status.MinutesUntilStart < b.Status.MinutesUntilStart
		}
		if a.Template.NameCI != b.Template.NameCI {
			return a.Template.NameCI < b.Template.NameCI
		}
		return a.Template.ID.Hex() < b.Template.ID.Hex()
	})
	return out, nil
}

// GetSession loads one template of the actor's organization with its status
// at now. Staff who can edit sessions see any template; other users only the
// ones they are assigned to. A zero now means the service clock.
func (s *Service) GetSession(ctx context.Context, actor Actor, id primitive.ObjectID, now time.Time) (SelectableSession, error) {
	t, err := s.template(ctx, actor.OrganizationID, id)
	if err != nil {
		return SelectableSession{}, err
	}
	if !actor.Caps.CanEditSession && !t.IsAssigned(actor.UserID) {
		return SelectableSession{}, apperr.New(apperr.NotFound, "session not found")
	}
	oc, err := s.org(ctx, actor.OrganizationID)
	if err != nil {
		return SelectableSession{}, err
	}
	if now.IsZero() {
		now = s.clock.Now()
	}
	return SelectableSession{Template: t, Status: schedule.Classify(t, now.In(oc.loc), s.lookahead)}, nil
}
