package attendance

import (
	attendancestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/attendance"
	devicebindingstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/devicebindings"
	leavestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/leaves"
	organizationstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/organizations"
	sessiontemplatestore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/sessiontemplates"
	userstore "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoDeps wires every collaborator to its MongoDB store in db.
func MongoDeps(db *mongo.Database) Deps {
	return Deps{
		Templates: sessiontemplatestore.New(db),
		Records:   attendancestore.New(db),
		Bindings:  devicebindingstore.New(db),
		Leaves:    leavestore.New(db),
		Orgs:      organizationstore.New(db),
		Users:     userstore.New(db),
	}
}

// NewWithMongo builds a Service backed by the MongoDB stores of db.
func NewWithMongo(db *mongo.Database, opts Options, logger *zap.Logger) *Service {
	return New(MongoDeps(db), opts, logger)
}
