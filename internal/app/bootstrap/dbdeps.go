// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/ratelimit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_addr is blank.
	Redis *redis.Client

	// services is allocated by ConnectDB, filled by Startup and read by
	// BuildHandler and Shutdown.
	services *services
}

// services are the long-lived objects built once at startup.
type services struct {
	attendance *attendance.Service
	limiter    ratelimit.Limiter
	sweeper    *workers.LimiterSweep
}
