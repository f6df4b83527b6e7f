// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	analyticsfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/analytics"
	auditlogfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/auditlog"
	checkinfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/checkin"
	devicesfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/devices"
	errorsfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	healthfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/health"
	leavesfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/leaves"
	logoutfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/logout"
	sessionsfeature "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/sessions"
	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
	devicebindingstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/devicebindings"
	leavestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/leaves"
	sessiontemplatestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/sessiontemplates"
	userstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/users"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auditlog"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every API router is mounted under /api;
// /health stays at the root for load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.services == nil || deps.services.attendance == nil {
		return nil, errors.New("bootstrap: Startup has not run")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Re-read the user on each request so role changes and disabled
	// accounts take effect immediately.
	users := userstore.New(db)
	sessionMgr.SetFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Attendance: appCfg.AuditLogAttendance,
		Admin:      appCfg.AuditLogAdmin,
	})
	svc := deps.services.attendance

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		sessionsHandler := sessionsfeature.NewHandler(svc, sessiontemplatestore.New(db), users, auditLog, errLog, logger)
		api.Mount("/sessions", sessionsfeature.Routes(sessionsHandler, sessionMgr))

		checkinHandler := checkinfeature.NewHandler(svc, attendancestore.New(db), auditLog, errLog, logger)
		api.Mount("/attendance", checkinfeature.Routes(checkinHandler, sessionMgr, deps.services.limiter))

		devicesHandler := devicesfeature.NewHandler(devicebindingstore.New(db), users, auditLog, errLog, logger)
		api.Mount("/devices", devicesfeature.Routes(devicesHandler, sessionMgr))

		leavesHandler := leavesfeature.NewHandler(leavestore.New(db), auditLog, errLog, logger)
		api.Mount("/leaves", leavesfeature.Routes(leavesHandler, sessionMgr))

		analyticsHandler := analyticsfeature.NewHandler(svc, errLog, logger)
		api.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(audit.New(db), users, errLog, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		api.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, logger), sessionMgr))

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errLog.Write(w, r, apperr.New(apperr.NotFound, "no such endpoint"))
		})
	})

	return r, nil
}
