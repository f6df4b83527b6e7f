// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for AttendanceMark.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ATTENDANCEMARK_MONGO_URI, ATTENDANCEMARK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "attendance_mark", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "attendancemark-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	// Attendance defaults
	{Name: "default_time_zone", Default: "UTC", Desc: "IANA time zone for organizations that do not set one"},
	{Name: "default_late_grace_minutes", Default: 0, Desc: "Minutes after start before a check-in counts as late"},
	{Name: "lookahead_minutes", Default: 15, Desc: "Minutes before start that a session is listed as upcoming"},
	{Name: "on_leave_policy", Default: "exclude", Desc: "Analytics treatment of approved leave: 'exclude' or 'absent'"},

	// Scan rate limiting
	{Name: "redis_addr", Default: "", Desc: "Redis address for shared rate limits (blank keeps counters in process)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "scan_rate_limit", Default: 10, Desc: "Scan attempts allowed per user per window"},
	{Name: "scan_rate_window", Default: "1m", Desc: "Scan rate limit window (e.g., 30s, 1m)"},
	{Name: "limiter_sweep_interval", Default: "1m", Desc: "How often expired in-process limiter windows are dropped"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list and report queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for startup work such as index reconciliation"},

	// Audit logging settings
	{Name: "audit_log_attendance", Default: "all", Desc: "Attendance/security event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ATTENDANCEMARK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ATTENDANCEMARK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		// Attendance
		DefaultTimeZone:         appValues.String("default_time_zone"),
		DefaultLateGraceMinutes: appValues.Int("default_late_grace_minutes"),
		Lookahead:               time.Duration(appValues.Int("lookahead_minutes")) * time.Minute,
		OnLeavePolicy:           appValues.String("on_leave_policy"),

		// Rate limiting
		RedisAddr:       appValues.String("redis_addr"),
		RedisPassword:   appValues.String("redis_password"),
		RedisDB:         appValues.Int("redis_db"),
		ScanRateLimit:   appValues.Int("scan_rate_limit"),
		ScanRateWindow:  appValues.Duration("scan_rate_window", time.Minute),
		LimiterSweepInt: appValues.Duration("limiter_sweep_interval", time.Minute),

		// Timeouts
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		// Audit logging
		AuditLogAttendance: appValues.String("audit_log_attendance"),
		AuditLogAdmin:      appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if _, err := time.LoadLocation(appCfg.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid default_time_zone %q: %w", appCfg.DefaultTimeZone, err)
	}
	if appCfg.DefaultLateGraceMinutes < 0 {
		return fmt.Errorf("default_late_grace_minutes must not be negative")
	}
	if appCfg.Lookahead < 0 {
		return fmt.Errorf("lookahead_minutes must not be negative")
	}
	switch appCfg.OnLeavePolicy {
	case attendance.LeavePolicyExclude, attendance.LeavePolicyAbsent:
	default:
		return fmt.Errorf("on_leave_policy must be %q or %q, got %q",
			attendance.LeavePolicyExclude, attendance.LeavePolicyAbsent, appCfg.OnLeavePolicy)
	}
	if appCfg.ScanRateLimit < 1 {
		return fmt.Errorf("scan_rate_limit must be at least 1")
	}
	if appCfg.ScanRateWindow <= 0 {
		return fmt.Errorf("scan_rate_window must be positive")
	}
	for name, v := range map[string]string{
		"audit_log_attendance": appCfg.AuditLogAttendance,
		"audit_log_admin":      appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidDestination(v) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}
	return nil
}
