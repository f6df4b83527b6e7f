// Package schedule decides when a session template occurs and whether a given
// instant falls inside one of its occurrences.
//
// Nothing in this package fails: malformed stored values map to "no
// occurrence" and every (template, instant) pair has exactly one Status.
package schedule

import (
	"strings"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a weekday name ("monday", "Mon", " FRIDAY ") to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if wd, ok := weekdayNames[n]; ok {
		return wd, true
	}
	if len(n) >= 3 {
		for full, wd := range weekdayNames {
			if strings.HasPrefix(full, n) {
				return wd, true
			}
		}
	}
	return 0, false
}

// IsOccurrence reports whether date d is an occurrence of template t.
//
// Recurring templates without an end date are open-ended. Monthly templates
// repeat on the start date's day of month, clamped to the last day of
// shorter months.
func IsOccurrence(t models.SessionTemplate, d models.Date) bool {
	if t.IsCancelled || t.StartDate.IsZero() || d.IsZero() {
		return false
	}

	if t.Frequency == models.FrequencyOneTime {
		return d == t.StartDate
	}

	if d.Before(t.StartDate) {
		return false
	}
	if t.EndDate != nil && !t.EndDate.IsZero() && d.After(*t.EndDate) {
		return false
	}

	switch t.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		wd := d.Weekday()
		for _, name := range t.WeeklyDays {
			if got, ok := ParseWeekday(name); ok && got == wd {
				return true
			}
		}
		return false
	case models.FrequencyMonthly:
		target := t.StartDate.Day
		if last := d.DaysInMonth(); target > last {
			target = last
		}
		return d.Day == target
	}
	return false
}

// Occurrences lists every occurrence of t in the inclusive range [from, to].
func Occurrences(t models.SessionTemplate, from, to models.Date) []models.Date {
	if from.After(to) {
		return nil
	}
	if t.Frequency == models.FrequencyOneTime {
		if !t.StartDate.Before(from) && !t.StartDate.After(to) && IsOccurrence(t, t.StartDate) {
			return []models.Date{t.StartDate}
		}
		return nil
	}

	start := from
	if start.Before(t.StartDate) {
		start = t.StartDate
	}
	end := to
	if t.EndDate != nil && !t.EndDate.IsZero() && t.EndDate.Before(end) {
		end = *t.EndDate
	}

	var out []models.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		if IsOccurrence(t, d) {
			out = append(out, d)
		}
	}
	return out
}
