package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

// Window is the check-in window of one occurrence. Both ends are inclusive:
// End is the last instant of the end minute.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseClock parses an "HH:MM" wall-clock value into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// CrossesMidnight reports whether the template's end time is earlier than its
// start time, i.e. each occurrence ends on the following calendar date.
func CrossesMidnight(t models.SessionTemplate) bool {
	start, err1 := ParseClock(t.StartTime)
	end, err2 := ParseClock(t.EndTime)
	return err1 == nil && err2 == nil && end < start
}

// ComputeWindow combines occurrence date d with the template's start and end
// times in loc. When the end time precedes the start time the window runs
// into the next calendar date. ok is false when the stored times are malformed.
func ComputeWindow(t models.SessionTemplate, d models.Date, loc *time.Location) (w Window, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	startMin, err := ParseClock(t.StartTime)
	if err != nil {
		return Window{}, false
	}
	endMin, err := ParseClock(t.EndTime)
	if err != nil {
		return Window{}, false
	}

	start := time.Date(d.Year, d.Month, d.Day, startMin/60, startMin%60, 0, 0, loc)

	endDay := d
	if endMin < startMin {
		endDay = d.AddDays(1)
	}
	endMinute := time.Date(endDay.Year, endDay.Month, endDay.Day, endMin/60, endMin%60, 0, 0, loc)

	return Window{Start: start, End: endMinute.Add(time.Minute - time.Nanosecond)}, true
}

// LateByMinutes returns whole minutes elapsed between the window start and
// ts, never below zero.
func LateByMinutes(w Window, ts time.Time) int {
	d := ts.Sub(w.Start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
