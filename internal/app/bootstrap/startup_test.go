package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/ratelimit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "attendance_mark_test",
		MongoMaxPoolSize:   10,
		MongoMinPoolSize:   1,
		SessionKey:         "test-session-key-for-testing-only",
		SessionName:        "test-session",
		SessionMaxAge:      time.Hour,
		DefaultTimeZone:    "UTC",
		Lookahead:          15 * time.Minute,
		OnLeavePolicy:      "exclude",
		ScanRateLimit:      5,
		ScanRateWindow:     time.Minute,
		LimiterSweepInt:    time.Minute,
		AuditLogAttendance: "all",
		AuditLogAdmin:      "log",
	}
}

func TestValidateConfig(t *testing.T) {
	core := &config.CoreConfig{}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, "invalid MongoDB URI"},
		{"no database", func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"pool sizes", func(c *AppConfig) { c.MongoMinPoolSize = 50 }, "mongo_min_pool_size"},
		{"bad zone", func(c *AppConfig) { c.DefaultTimeZone = "Mars/Olympus" }, "default_time_zone"},
		{"negative grace", func(c *AppConfig) { c.DefaultLateGraceMinutes = -1 }, "default_late_grace_minutes"},
		{"bad policy", func(c *AppConfig) { c.OnLeavePolicy = "present" }, "on_leave_policy"},
		{"zero limit", func(c *AppConfig) { c.ScanRateLimit = 0 }, "scan_rate_limit"},
		{"zero window", func(c *AppConfig) { c.ScanRateWindow = 0 }, "scan_rate_window"},
		{"bad audit destination", func(c *AppConfig) { c.AuditLogAdmin = "file" }, "audit_log_admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(core, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStartup_RequiresConnectDB(t *testing.T) {
	err := Startup(context.Background(), &config.CoreConfig{}, validAppConfig(), DBDeps{}, testLogger())
	if err == nil {
		t.Fatal("expected an error for DBDeps not built by ConnectDB")
	}
	if _, err := BuildHandler(&config.CoreConfig{}, validAppConfig(), DBDeps{}, testLogger()); err == nil {
		t.Fatal("expected BuildHandler to refuse before Startup")
	}
}

func TestStartup_InMemoryLimiter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, services: &services{}}

	if err := Startup(context.Background(), &config.CoreConfig{}, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	defer deps.services.sweeper.Stop()

	if deps.services.attendance == nil {
		t.Fatal("attendance service not built")
	}
	if _, ok := deps.services.limiter.(*ratelimit.InMemory); !ok {
		t.Errorf("limiter: got %T, want *ratelimit.InMemory", deps.services.limiter)
	}
}

func TestStartup_RedisLimiter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, Redis: rdb, services: &services{}}
	if err := Startup(context.Background(), &config.CoreConfig{}, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	defer deps.services.sweeper.Stop()

	if _, ok := deps.services.limiter.(*ratelimit.Redis); !ok {
		t.Errorf("limiter: got %T, want *ratelimit.Redis", deps.services.limiter)
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, services: &services{}}
	core := &config.CoreConfig{}
	core.Env = "dev"

	if err := Startup(context.Background(), core, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	defer deps.services.sweeper.Stop()

	h, err := BuildHandler(core, validAppConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/sessions/selectable", http.StatusUnauthorized},
		{http.MethodPost, "/api/attendance/scan", http.StatusUnauthorized},
		{http.MethodPost, "/api/devices/65a000000000000000000000/reset", http.StatusUnauthorized},
		{http.MethodGet, "/api/leaves/mine", http.StatusUnauthorized},
		{http.MethodGet, "/api/analytics", http.StatusUnauthorized},
		{http.MethodGet, "/api/audit", http.StatusUnauthorized},
		{http.MethodPost, "/api/logout", http.StatusUnauthorized},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("got status %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestShutdown_NoDeps(t *testing.T) {
	if err := Shutdown(context.Background(), &config.CoreConfig{}, validAppConfig(), DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Shutdown with empty deps: %v", err)
	}
}
