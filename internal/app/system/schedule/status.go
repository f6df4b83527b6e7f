package schedule

import (
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

// DefaultLookahead is how far ahead of its start an occurrence is surfaced
// as UpcomingSoon.
const DefaultLookahead = 120 * time.Minute

// Kind is the scannability classification of a template at an instant.
type Kind string

const (
	Live         Kind = "live"
	UpcomingSoon Kind = "upcoming_soon"
	Finished     Kind = "finished"
	NotToday     Kind = "not_today"
)

// Status is the result of Classify. Date is the occurrence the status refers
// to; Window is zero when no occurrence applies. MinutesUntilStart is only
// set for UpcomingSoon.
type Status struct {
	Kind              Kind        `json:"kind"`
	MinutesUntilStart int         `json:"minutes_until_start,omitempty"`
	Date              models.Date `json:"occurrence_date"`
	Window            Window      `json:"window"`
}

// Selectable reports whether the status puts the template in a user's
// scannable list.
func (s Status) Selectable() bool {
	return s.Kind == Live || s.Kind == UpcomingSoon
}

// Classify decides whether now is inside, shortly before, or after an
// occurrence of t. now must already be in the organization's location.
//
// The candidate date is the template's start date for one-time templates and
// now's calendar date otherwise. A recurring template whose window crosses
// midnight is also Live while now is inside the previous date's window.
func Classify(t models.SessionTemplate, now time.Time, lookahead time.Duration) Status {
	if lookahead < 0 {
		lookahead = 0
	}
	loc := now.Location()

	date := models.DateOf(now)
	if t.Frequency == models.FrequencyOneTime {
		date = t.StartDate
	}

	if t.Frequency != models.FrequencyOneTime && CrossesMidnight(t) {
		prev := date.AddDays(-1)
		if IsOccurrence(t, prev) {
			if w, ok := ComputeWindow(t, prev, loc); ok && w.Contains(now) {
				return Status{Kind: Live, Date: prev, Window: w}
			}
		}
	}

	if !IsOccurrence(t, date) {
		return Status{Kind: NotToday, Date: date}
	}
	w, ok := ComputeWindow(t, date, loc)
	if !ok {
		return Status{Kind: NotToday, Date: date}
	}

	switch {
	case w.Contains(now):
		return Status{Kind: Live, Date: date, Window: w}
	case w.Start.After(now):
		gap := w.Start.Sub(now)
		if gap <= lookahead {
			return Status{Kind: UpcomingSoon, MinutesUntilStart: ceilMinutes(gap), Date: date, Window: w}
		}
		return Status{Kind: NotToday, Date: date, Window: w}
	case now.After(w.End):
		return Status{Kind: Finished, Date: date, Window: w}
	}
	return Status{Kind: NotToday, Date: date, Window: w}
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
