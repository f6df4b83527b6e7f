package schedule_test

import (
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/schedule"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

func monWedFri() models.SessionTemplate {
	return models.SessionTemplate{
		Frequency:  models.FrequencyWeekly,
		StartDate:  d(2024, 1, 1),
		StartTime:  "09:00",
		EndTime:    "10:00",
		WeeklyDays: []string{"monday", "wednesday", "friday"},
	}
}

func TestClassify_WeeklyScenario(t *testing.T) {
	tmpl := monWedFri()
	at := func(day, h, m int) time.Time { return time.Date(2024, 1, day, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		now     time.Time
		want    schedule.Kind
		minutes int
	}{
		{"monday 08:10", at(1, 8, 10), schedule.UpcomingSoon, 50},
		{"monday 09:30", at(1, 9, 30), schedule.Live, 0},
		{"monday 10:01", at(1, 10, 1), schedule.Finished, 0},
		{"tuesday 09:30", at(2, 9, 30), schedule.NotToday, 0},
		{"monday 06:59 beyond lookahead", at(1, 6, 59), schedule.NotToday, 0},
		{"monday 07:00 at lookahead edge", at(1, 7, 0), schedule.UpcomingSoon, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Classify(tmpl, tt.now, schedule.DefaultLookahead)
			if got.Kind != tt.want {
				t.Fatalf("kind: got %q, want %q", got.Kind, tt.want)
			}
			if got.MinutesUntilStart != tt.minutes {
				t.Errorf("minutes: got %d, want %d", got.MinutesUntilStart, tt.minutes)
			}
		})
	}
}

func TestClassify_UpcomingRoundsUp(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 10, 30, 0, time.UTC)
	got := schedule.Classify(monWedFri(), now, schedule.DefaultLookahead)
	if got.Kind != schedule.UpcomingSoon || got.MinutesUntilStart != 50 {
		t.Errorf("got %q(%d), want upcoming_soon(50)", got.Kind, got.MinutesUntilStart)
	}
}

func TestClassify_OneTimeUsesStartDate(t *testing.T) {
	tmpl := models.SessionTemplate{
		Frequency: models.FrequencyOneTime,
		StartDate: d(2024, 3, 15),
		StartTime: "14:00",
		EndTime:   "15:00",
	}
	before := schedule.Classify(tmpl, time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC), schedule.DefaultLookahead)
	if before.Kind != schedule.NotToday {
		t.Errorf("day before: got %q, want not_today", before.Kind)
	}
	after := schedule.Classify(tmpl, time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), schedule.DefaultLookahead)
	if after.Kind != schedule.Finished {
		t.Errorf("days after: got %q, want finished", after.Kind)
	}
	if after.Date != d(2024, 3, 15) {
		t.Errorf("date: got %s, want 2024-03-15", after.Date)
	}
}

func TestClassify_PreviousDayCrossingWindowIsLive(t *testing.T) {
	tmpl := models.SessionTemplate{
		Frequency:  models.FrequencyWeekly,
		StartDate:  d(2024, 1, 1),
		StartTime:  "22:00",
		EndTime:    "02:00",
		WeeklyDays: []string{"monday"},
	}
	got := schedule.Classify(tmpl, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), schedule.DefaultLookahead)
	if got.Kind != schedule.Live {
		t.Fatalf("got %q, want live", got.Kind)
	}
	if got.Date != d(2024, 1, 1) {
		t.Errorf("occurrence date: got %s, want 2024-01-01", got.Date)
	}
}

func TestClassify_CancelledIsNotToday(t *testing.T) {
	tmpl := monWedFri()
	tmpl.IsCancelled = true
	got := schedule.Classify(tmpl, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), schedule.DefaultLookahead)
	if got.Kind != schedule.NotToday {
		t.Errorf("got %q, want not_today", got.Kind)
	}
}

func TestClassify_TotalAndExclusive(t *testing.T) {
	templates := []models.SessionTemplate{
		monWedFri(),
		{Frequency: models.FrequencyDaily, StartDate: d(2024, 1, 1), StartTime: "23:30", EndTime: "00:30"},
		{Frequency: models.FrequencyMonthly, StartDate: d(2024, 1, 31), StartTime: "12:00", EndTime: "12:00"},
		{Frequency: models.FrequencyOneTime, StartDate: d(2024, 1, 2), StartTime: "bad", EndTime: "10:00"},
		{Frequency: "", StartDate: models.Date{}},
	}
	valid := map[schedule.Kind]bool{
		schedule.Live: true, schedule.UpcomingSoon: true, schedule.Finished: true, schedule.NotToday: true,
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, tmpl := range templates {
		for now := start; now.Before(start.Add(72 * time.Hour)); now = now.Add(7 * time.Minute) {
			got := schedule.Classify(tmpl, now, schedule.DefaultLookahead)
			if !valid[got.Kind] {
				t.Fatalf("template %d at %v: invalid kind %q", i, now, got.Kind)
			}
			if got.Kind != schedule.UpcomingSoon && got.MinutesUntilStart != 0 {
				t.Errorf("template %d at %v: minutes set for %q", i, now, got.Kind)
			}
			if got.Kind == schedule.Live && !got.Window.Contains(now) {
				t.Errorf("template %d at %v: live outside its window", i, now)
			}
		}
	}
}

func TestStatus_Selectable(t *testing.T) {
	tests := []struct {
		kind schedule.Kind
		want bool
	}{
		{schedule.Live, true},
		{schedule.UpcomingSoon, true},
		{schedule.Finished, false},
		{schedule.NotToday, false},
	}
	for _, tt := range tests {
		if got := (schedule.Status{Kind: tt.kind}).Selectable(); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.kind, got, tt.want)
		}
	}
}
