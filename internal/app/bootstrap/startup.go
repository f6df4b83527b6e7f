// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/ratelimit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// scanLimiterPrefix namespaces scan counters in a shared Redis.
const scanLimiterPrefix = "attendancemark:rl:"

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the attendance service and the scan limiter, and starts the limiter's
// sweep worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.services == nil {
		return errors.New("bootstrap: DBDeps was not built by ConnectDB")
	}
	svc := deps.services

	svc.attendance = attendance.NewWithMongo(deps.MongoDatabase, attendance.Options{
		Lookahead:        appCfg.Lookahead,
		DefaultLateGrace: appCfg.DefaultLateGraceMinutes,
		DefaultTimeZone:  appCfg.DefaultTimeZone,
		LeavePolicy:      appCfg.OnLeavePolicy,
	}, logger.Named("attendance"))

	// Expired local windows are swept either way: the in-process limiter
	// itself, or the fallback the Redis limiter uses while Redis is down.
	var local *ratelimit.InMemory
	if deps.Redis != nil {
		rl := ratelimit.NewRedis(deps.Redis, scanLimiterPrefix, appCfg.ScanRateLimit, appCfg.ScanRateWindow, logger.Named("ratelimit"))
		svc.limiter = rl
		local = rl.Fallback()
	} else {
		local = ratelimit.NewInMemory(appCfg.ScanRateLimit, appCfg.ScanRateWindow)
		svc.limiter = local
	}
	svc.sweeper = workers.NewLimiterSweep(local, logger.Named("workers"), appCfg.LimiterSweepInt)
	svc.sweeper.Start()

	logger.Info("startup complete",
		zap.Bool("redis_limiter", deps.Redis != nil),
		zap.Int("scan_rate_limit", appCfg.ScanRateLimit),
		zap.Duration("scan_rate_window", appCfg.ScanRateWindow))
	return nil
}
