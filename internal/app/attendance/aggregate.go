package attendance

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/schedule"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRangeDays bounds a report's date range.
const MaxRangeDays = 366

// leaderboardSize is the length of the top performer and defaulter lists.
const leaderboardSize = 5

// Range is an inclusive span of calendar dates.
type Range struct {
	From models.Date `json:"from"`
	To   models.Date `json:"to"`
}

// Validate checks that the range is ordered and bounded.
func (r Range) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return apperr.New(apperr.Validation, "from and to dates are required")
	}
	if r.To.Before(r.From) {
		return apperr.New(apperr.Validation, "to must not be before from")
	}
	if r.From.AddDays(MaxRangeDays - 1).Before(r.To) {
		return apperr.New(apperr.Validation, "range may span at most %d days", MaxRangeDays)
	}
	return nil
}

type DayPoint struct {
	Date       models.Date `json:"date"`
	Present    int         `json:"present"`
	Late       int         `json:"late"`
	Absent     int         `json:"absent"`
	OnLeave    int         `json:"on_leave"`
	Expected   int         `json:"expected"`
	Percentage float64     `json:"percentage"`
}

// Summary counts outcomes across the range. Unverified is the part of
// Absent that checked in outside the geofence.
type Summary struct {
	Present    int `json:"present"`
	Late       int `json:"late"`
	Absent     int `json:"absent"`
	OnLeave    int `json:"on_leave"`
	Unverified int `json:"unverified"`
}

type UserScore struct {
	UserID   primitive.ObjectID `json:"user_id"`
	Name     string             `json:"name,omitempty"`
	Present  int                `json:"present"`
	Late     int                `json:"late"`
	Absent   int                `json:"absent"`
	OnLeave  int                `json:"on_leave"`
	Expected int                `json:"expected"`
	Rate     float64            `json:"rate"`
}

// Report is the analytics view of a set of templates over a range.
type Report struct {
	Range         Range       `json:"range"`
	Timeline      []DayPoint  `json:"timeline"`
	Summary       Summary     `json:"summary"`
	TopPerformers []UserScore `json:"top_performers"`
	Defaulters    []UserScore `json:"defaulters"`
}

// Occurrence log statuses.
const (
	LogCompleted = "completed"
	LogToday     = "today"
	LogUpcoming  = "upcoming"
)

// SessionLog is one occurrence of one template.
type SessionLog struct {
	TemplateID   primitive.ObjectID `json:"template_id"`
	TemplateName string             `json:"template_name"`
	Date         models.Date        `json:"date"`
	Status       string             `json:"status"`
	Present      int                `json:"present"`
	Late         int                `json:"late"`
	Absent       int                `json:"absent"`
	OnLeave      int                `json:"on_leave"`
}

// AggregateInput is everything the aggregator reads. Now must be in the
// organization's location.
type AggregateInput struct {
	Templates   []models.SessionTemplate
	Records     []models.AttendanceRecord
	Leaves      []models.LeaveRequest
	Range       Range
	Now         time.Time
	LeavePolicy string
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomePresent
	outcomeLate
	outcomeAbsent
	outcomeUnverified
	outcomeOnLeave
)

type recordKey struct {
	template primitive.ObjectID
	date     models.Date
	user     primitive.ObjectID
}

// occurrence is one (template, date) with the outcome of every user.
type occurrence struct {
	template models.SessionTemplate
	date     models.Date
	window   schedule.Window
	hasWin   bool
	outcomes map[primitive.ObjectID]outcome
}

func outcomeOf(status string) outcome {
	switch status {
	case models.StatusVerified, models.StatusForcedPresent:
		return outcomePresent
	case models.StatusLate:
		return outcomeLate
	case models.StatusOnLeave:
		return outcomeOnLeave
	case models.StatusNotVerified:
		return outcomeUnverified
	case models.StatusForcedAbsent:
		return outcomeAbsent
	}
	return outcomeNone
}

// occurrences expands templates into per-occurrence outcomes. A user without
// a record is OnLeave when an approved leave covers the date, absent once the
// window has closed, and not counted before that.
func occurrences(in AggregateInput) []occurrence {
	loc := in.Now.Location()

	recs := make(map[recordKey]models.AttendanceRecord, len(in.Records))
	recDates := make(map[primitive.ObjectID]map[models.Date]bool)
	recUsers := make(map[primitive.ObjectID]map[primitive.ObjectID]bool)
	for _, r := range in.Records {
		if r.OccurrenceDate.Before(in.Range.From) || r.OccurrenceDate.After(in.Range.To) {
			continue
		}
		recs[recordKey{r.TemplateID, r.OccurrenceDate, r.UserID}] = r
		if recDates[r.TemplateID] == nil {
			recDates[r.TemplateID] = make(map[models.Date]bool)
			recUsers[r.TemplateID] = make(map[primitive.ObjectID]bool)
		}
		recDates[r.TemplateID][r.OccurrenceDate] = true
		recUsers[r.TemplateID][r.UserID] = true
	}

	leaves := make(map[primitive.ObjectID][]models.LeaveRequest)
	for _, l := range in.Leaves {
		if l.Status == models.LeaveApproved {
			leaves[l.UserID] = append(leaves[l.UserID], l)
		}
	}
	onLeave := func(u primitive.ObjectID, d models.Date) bool {
		for _, l := range leaves[u] {
			if l.Covers(d) {
				return true
			}
		}
		return false
	}

	var out []occurrence
	for _, t := range in.Templates {
		dates := make(map[models.Date]bool)
		for _, d := range schedule.Occurrences(t, in.Range.From, in.Range.To) {
			dates[d] = true
		}
		for d := range recDates[t.ID] {
			dates[d] = true
		}
		ordered := make([]models.Date, 0, len(dates))
		for d := range dates {
			ordered = append(ordered, d)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

		users := append([]primitive.ObjectID(nil), t.AssignedUsers...)
		for u := range recUsers[t.ID] {
			if !t.IsAssigned(u) {
				users = append(users, u)
			}
		}

		for _, d := range ordered {
			w, ok := schedule.ComputeWindow(t, d, loc)
			closed := ok && in.Now.After(w.End)
			occ := occurrence{template: t, date: d, window: w, hasWin: ok, outcomes: make(map[primitive.ObjectID]outcome, len(users))}
			for _, u := range users {
				o := outcomeNone
				if r, found := recs[recordKey{t.ID, d, u}]; found {
					o = outcomeOf(r.AttendanceStatus)
				} else if onLeave(u, d) {
					o = outcomeOnLeave
				} else if closed {
					o = outcomeAbsent
				}
				if o != outcomeNone {
					occ.outcomes[u] = o
				}
			}
			out = append(out, occ)
		}
	}
	return out
}

type tally struct {
	present, late, absent, unverified, onLeave int
}

func (t *tally) add(o outcome) {
	switch o {
	case outcomePresent:
		t.present++
	case outcomeLate:
		t.late++
	case outcomeAbsent:
		t.absent++
	case outcomeUnverified:
		t.absent++
		t.unverified++
	case outcomeOnLeave:
		t.onLeave++
	}
}

func (t tally) expected(policy string) int {
	n := t.present + t.late + t.absent
	if policy == LeavePolicyAbsent {
		n += t.onLeave
	}
	return n
}

func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*10000) / 100
}

// Aggregate builds the timeline, summary and leaderboards. The timeline has
// one point per day from Range.From through the earlier of Range.To and
// today.
func Aggregate(in AggregateInput) Report {
	policy := in.LeavePolicy
	if policy != LeavePolicyAbsent {
		policy = LeavePolicyExclude
	}

	byDay := make(map[models.Date]*tally)
	byUser := make(map[primitive.ObjectID]*tally)
	var total tally

	for _, occ := range occurrences(in) {
		day := byDay[occ.date]
		if day == nil {
			day = &tally{}
			byDay[occ.date] = day
		}
		for u, o := range occ.outcomes {
			day.add(o)
			total.add(o)
			ut := byUser[u]
			if ut == nil {
				ut = &tally{}
				byUser[u] = ut
			}
			ut.add(o)
		}
	}

	rep := Report{
		Range: in.Range,
		Summary: Summary{
			Present:    total.present,
			Late:       total.late,
			Absent:     total.absent,
			OnLeave:    total.onLeave,
			Unverified: total.unverified,
		},
		Timeline:      []DayPoint{},
		TopPerformers: []UserScore{},
		Defaulters:    []UserScore{},
	}

	last := in.Range.To
	if today := models.DateOf(in.Now); today.Before(last) {
		last = today
	}
	for d := in.Range.From; !d.After(last); d = d.AddDays(1) {
		p := DayPoint{Date: d}
		if t := byDay[d]; t != nil {
			p.Present, p.Late, p.Absent, p.OnLeave = t.present, t.late, t.absent, t.onLeave
			p.Expected = t.expected(policy)
			p.Percentage = percent(t.present+t.late, p.Expected)
		}
		rep.Timeline = append(rep.Timeline, p)
	}

	scores := make([]UserScore, 0, len(byUser))
	for u, t := range byUser {
		exp := t.expected(policy)
		if exp == 0 {
			continue
		}
		scores = append(scores, UserScore{
			UserID:   u,
			Present:  t.present,
			Late:     t.late,
			Absent:   t.absent,
			OnLeave:  t.onLeave,
			Expected: exp,
			Rate:     percent(t.present, exp),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Rate != scores[j].Rate {
			return scores[i].Rate > scores[j].Rate
		}
		return scores[i].UserID.Hex() < scores[j].UserID.Hex()
	})
	rep.TopPerformers = append(rep.TopPerformers, scores[:min(leaderboardSize, len(scores))]...)

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Rate != scores[j].Rate {
			return scores[i].Rate < scores[j].Rate
		}
		return scores[i].UserID.Hex() < scores[j].UserID.Hex()
	})
	rep.Defaulters = append(rep.Defaulters, scores[:min(leaderboardSize, len(scores))]...)

	return rep
}

// BuildSessionLogs returns one row per occurrence, ordered by date then
// template name.
func BuildSessionLogs(in AggregateInput) []SessionLog {
	occs := occurrences(in)
	out := make([]SessionLog, 0, len(occs))
	today := models.DateOf(in.Now)
	for _, occ := range occs {
		var t tally
		for _, o := range occ.outcomes {
			t.add(o)
		}
		status := LogUpcoming
		switch {
		case occ.hasWin && occ.window.Contains(in.Now):
			status = LogToday
		case occ.hasWin && in.Now.After(occ.window.End):
			status = LogCompleted
		case occ.date.Before(today):
			status = LogCompleted
		case occ.date == today:
			status = LogToday
		}
		out = append(out, SessionLog{
			TemplateID:   occ.template.ID,
			TemplateName: occ.template.Name,
			Date:         occ.date,
			Status:       status,
			Present:      t.present,
			Late:         t.late,
			Absent:       t.absent,
			OnLeave:      t.onLeave,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TemplateName < out[j].TemplateName
	})
	return out
}

// Analytics loads the templates (all of the actor's organization when ids is
// empty) with their records and leaves for rng and aggregates them.
func (s *Service) Analytics(ctx context.Context, actor Actor, templateIDs []primitive.ObjectID, rng Range) (Report, error) {
	in, err := s.loadRange(ctx, actor, templateIDs, rng)
	if err != nil {
		return Report{}, err
	}
	rep := Aggregate(in)
	if s.users != nil {
		s.nameScores(ctx, rep.TopPerformers)
		s.nameScores(ctx, rep.Defaulters)
	}
	return rep, nil
}

// SessionLogs loads the same inputs as Analytics and returns per-occurrence
// rows.
func (s *Service) SessionLogs(ctx context.Context, actor Actor, templateIDs []primitive.ObjectID, rng Range) ([]SessionLog, error) {
	in, err := s.loadRange(ctx, actor, templateIDs, rng)
	if err != nil {
		return nil, err
	}
	return BuildSessionLogs(in), nil
}

func (s *Service) nameScores(ctx context.Context, scores []UserScore) {
	ids := make([]primitive.ObjectID, len(scores))
	for i, sc := range scores {
		ids[i] = sc.UserID
	}
	refs, err := s.users.ResolveRefs(ctx, ids)
	if err != nil || len(refs) != len(scores) {
		return
	}
	for i := range scores {
		scores[i].Name = refs[i].DisplayName()
	}
}

func (s *Service) loadRange(ctx context.Context, actor Actor, templateIDs []primitive.ObjectID, rng Range) (AggregateInput, error) {
	if !actor.Caps.CanViewAnalytics {
		return AggregateInput{}, apperr.New(apperr.NotAuthorized, "you may not view analytics")
	}
	if err := rng.Validate(); err != nil {
		return AggregateInput{}, err
	}
	oc, err := s.org(ctx, actor.OrganizationID)
	if err != nil {
		return AggregateInput{}, err
	}

	var templates []models.SessionTemplate
	if len(templateIDs) == 0 {
		templates, err = s.templates.ListByOrg(ctx, actor.OrganizationID)
	} else {
		templates, err = s.templates.GetByIDs(ctx, actor.OrganizationID, templateIDs)
	}
	if err != nil {
		return AggregateInput{}, apperr.Wrap(apperr.Internal, err, "load sessions")
	}
	if len(templateIDs) > 0 && len(templates) < len(uniqueIDs(templateIDs)) {
		return AggregateInput{}, apperr.New(apperr.NotFound, "one or more sessions were not found")
	}

	tids := make([]primitive.ObjectID, len(templates))
	userSet := make(map[primitive.ObjectID]bool)
	for i, t := range templates {
		tids[i] = t.ID
		for _, u := range t.AssignedUsers {
			userSet[u] = true
		}
	}

	records, err := s.records.ListRange(ctx, tids, rng.From, rng.To)
	if err != nil {
		return AggregateInput{}, apperr.Wrap(apperr.Internal, err, "load attendance")
	}
	for _, r := range records {
		userSet[r.UserID] = true
	}
	userIDs := make([]primitive.ObjectID, 0, len(userSet))
	for u := range userSet {
		userIDs = append(userIDs, u)
	}
	leaves, err := s.leaves.ListApprovedInRange(ctx, userIDs, rng.From, rng.To)
	if err != nil {
		return AggregateInput{}, apperr.Wrap(apperr.Internal, err, "load leaves")
	}

	return AggregateInput{
		Templates:   templates,
		Records:     records,
		Leaves:      leaves,
		Range:       rng,
		Now:         s.clock.Now().In(oc.loc),
		LeavePolicy: s.leavePolicy,
	}, nil
}

func uniqueIDs(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	m := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
