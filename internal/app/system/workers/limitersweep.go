// internal/app/system/workers/limitersweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops expired state and reports how many entries it removed.
// ratelimit.InMemory satisfies it.
type Sweeper interface {
	Sweep() int
}

// LimiterSweep is a background worker that periodically drops expired
// rate-limit windows so idle keys do not accumulate.
type LimiterSweep struct {
	target   Sweeper
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLimiterSweep creates a sweep worker running every interval.
func NewLimiterSweep(target Sweeper, logger *zap.Logger, interval time.Duration) *LimiterSweep {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LimiterSweep{
		target:   target,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *LimiterSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("limiter sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *LimiterSweep) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("limiter sweep worker stopped")
}

func (w *LimiterSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if n := w.target.Sweep(); n > 0 {
				w.log.Debug("swept expired rate-limit windows", zap.Int("count", n))
			}
		}
	}
}
