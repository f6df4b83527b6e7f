// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: attendancemark-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Attendance defaults
	DefaultTimeZone         string        // IANA zone for organizations without one
	DefaultLateGraceMinutes int           // Minutes after start before a check-in is late
	Lookahead               time.Duration // How early a session shows as upcoming
	OnLeavePolicy           string        // "exclude" or "absent" for analytics denominators

	// Scan rate limiting. A blank RedisAddr keeps counters in process.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ScanRateLimit   int
	ScanRateWindow  time.Duration
	LimiterSweepInt time.Duration

	// Timeouts for handler I/O
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAttendance string
	AuditLogAdmin      string
}
