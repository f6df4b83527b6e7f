// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/status"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Identity collections read by the attendance core
	ensure("users", usersSchema())
	ensure("organizations", orgsSchema())

	// Scheduling and check-in
	ensure("session_templates", sessionTemplatesSchema())
	ensure("attendance_records", attendanceRecordsSchema())
	ensure("device_bindings", deviceBindingsSchema())
	ensure("leave_requests", leaveRequestsSchema())

	// Append-only; shape is enforced by the audit store.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// ymd matches the "YYYY-MM-DD" storage form of models.Date.
const ymd = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`

// hhmm matches a 24h "HH:MM" wall-clock time.
const hhmm = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "role", "status"},
			"properties": bson.M{
				"full_name":       nonBlank,
				"full_name_ci":    bson.M{"bsonType": "string"},
				"email":           bson.M{"bsonType": bson.A{"string", "null"}},
				"role":            bson.M{"enum": bson.A{models.RolePlatformOwner, models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleManager, models.RoleSessionAdmin, models.RoleEndUser}},
				"status":          bson.M{"enum": bson.A{status.Active, status.Disabled}},
				"organization_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func orgsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status"},
			"properties": bson.M{
				"name":               nonBlank,
				"name_ci":            nonBlank,
				"status":             bson.M{"enum": bson.A{status.Active, status.Disabled}},
				"time_zone":          bson.M{"bsonType": "string"},
				"late_grace_minutes": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func sessionTemplatesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"organization_id", "name", "name_ci", "frequency", "start_date", "start_time", "end_time", "location_type"},
			"properties": bson.M{
				"organization_id": bson.M{"bsonType": "objectId"},
				"name":            nonBlank,
				"name_ci":         nonBlank,
				"frequency":       bson.M{"enum": bson.A{models.FrequencyOneTime, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly}},
				"start_date":      bson.M{"bsonType": "string", "pattern": ymd},
				"end_date":        bson.M{"bsonType": bson.A{"string", "null"}},
				"start_time":      bson.M{"bsonType": "string", "pattern": hhmm},
				"end_time":        bson.M{"bsonType": "string", "pattern": hhmm},
				"weekly_days": bson.M{
					"bsonType": bson.A{"array", "null"},
					"items":    bson.M{"enum": bson.A{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}},
				},
				"location_type": bson.M{"enum": bson.A{models.LocationPhysical, models.LocationVirtual}},
				"physical_location": bson.M{
					"bsonType": bson.A{"object", "null"},
					"required": bson.A{"center", "radius_meters"},
					"properties": bson.M{
						"radius_meters": bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
					},
				},
				"assigned_users":     bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "objectId"}},
				"is_cancelled":       bson.M{"bsonType": "bool"},
				"late_grace_minutes": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func attendanceRecordsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"organization_id", "template_id", "occurrence_date", "user_id", "attendance_status"},
			"properties": bson.M{
				"organization_id": bson.M{"bsonType": "objectId"},
				"template_id":     bson.M{"bsonType": "objectId"},
				"user_id":         bson.M{"bsonType": "objectId"},
				"occurrence_date": bson.M{"bsonType": "string", "pattern": ymd},
				"attendance_status": bson.M{"enum": bson.A{
					models.StatusVerified, models.StatusNotVerified, models.StatusLate,
					models.StatusOnLeave, models.StatusForcedPresent, models.StatusForcedAbsent,
				}},
				"is_late":         bson.M{"bsonType": "bool"},
				"late_by_minutes": bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 0},
			},
		},
	}
}

func deviceBindingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "device_id", "bound_at"},
			"properties": bson.M{
				"user_id":   bson.M{"bsonType": "objectId"},
				"device_id": nonBlank,
				"bound_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func leaveRequestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"organization_id", "user_id", "leave_type", "status"},
			"properties": bson.M{
				"organization_id": bson.M{"bsonType": "objectId"},
				"user_id":         bson.M{"bsonType": "objectId"},
				"leave_type":      bson.M{"enum": bson.A{models.LeaveTypeSick, models.LeaveTypeCasual, models.LeaveTypePersonal, models.LeaveTypeOther}},
				"status":          bson.M{"enum": bson.A{models.LeavePending, models.LeaveApproved, models.LeaveRejected}},
				"dates":           bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string", "pattern": ymd}},
				"start_date":      bson.M{"bsonType": bson.A{"string", "null"}},
				"end_date":        bson.M{"bsonType": bson.A{"string", "null"}},
				"approved_by":     bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}
