package workers_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/ratelimit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/workers"
	"go.uber.org/zap"
)

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 0
}

func TestLimiterSweep_Runs(t *testing.T) {
	s := &countingSweeper{}
	w := workers.NewLimiterSweep(s, zap.NewNop(), 5*time.Millisecond)
	w.Start()

	deadline := time.Now().Add(time.Second)
	for s.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if got := s.calls.Load(); got < 2 {
		t.Errorf("Sweep calls: got %d, want >= 2", got)
	}
}

func TestLimiterSweep_InMemoryLimiter(t *testing.T) {
	l := ratelimit.NewInMemory(1, 5*time.Millisecond)
	var _ workers.Sweeper = l

	w := workers.NewLimiterSweep(l, zap.NewNop(), 10*time.Millisecond)
	w.Start()
	defer w.Stop()

	if !l.Allow(t.Context(), "user").Allowed {
		t.Fatal("first call should be allowed")
	}
	time.Sleep(40 * time.Millisecond)
	if !l.Allow(t.Context(), "user").Allowed {
		t.Error("expected the expired window to be gone")
	}
}
