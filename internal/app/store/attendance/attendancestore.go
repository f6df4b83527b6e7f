// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned by Insert when a record already exists for the
// (template, occurrence date, user) key. The unique index
// uniq_attendance_template_date_user enforces it.
var ErrDuplicate = errors.New("attendance already recorded for this occurrence")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance_records")}
}

func keyFilter(templateID primitive.ObjectID, date models.Date, userID primitive.ObjectID) bson.M {
	return bson.M{
		"template_id":     templateID,
		"occurrence_date": date.String(),
		"user_id":         userID,
	}
}

// Find returns the record for the key, or (nil, nil) when there is none.
func (s *Store) Find(ctx context.Context, templateID primitive.ObjectID, date models.Date, userID primitive.ObjectID) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := s.c.FindOne(ctx, keyFilter(templateID, date, userID)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Insert writes a new record. A concurrent or repeated insert for the same
// key fails with ErrDuplicate and leaves the first record untouched.
func (s *Store) Insert(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AttendanceRecord{}, ErrDuplicate
		}
		return models.AttendanceRecord{}, err
	}
	return rec, nil
}

// UpsertForced overwrites the outcome fields of the key's record, creating it
// if absent, and returns the stored document. Two racing upserts on a missing
// key can collide on the unique index; the loser surfaces ErrDuplicate and
// the caller may retry.
func (s *Store) UpsertForced(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	now := time.Now().UTC()
	set := bson.M{
		"attendance_status": rec.AttendanceStatus,
		"approved_by":       rec.ApprovedBy,
		"forced":            true,
		"is_late":           false,
		"updated_at":        now,
	}
	update := bson.M{
		"$set":   set,
		"$unset": bson.M{"late_by_minutes": ""},
		"$setOnInsert": bson.M{
			"_id":               primitive.NewObjectID(),
			"organization_id":   rec.OrganizationID,
			"check_in_time":     rec.CheckInTime,
			"location_verified": rec.LocationVerified,
			"created_at":        now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.AttendanceRecord
	err := s.c.FindOneAndUpdate(ctx, keyFilter(rec.TemplateID, rec.OccurrenceDate, rec.UserID), update, opts).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.AttendanceRecord{}, ErrDuplicate
		}
		return models.AttendanceRecord{}, err
	}
	return out, nil
}

// ListRange returns the records of the given templates whose occurrence date
// lies in [from, to].
func (s *Store) ListRange(ctx context.Context, templateIDs []primitive.ObjectID, from, to models.Date) ([]models.AttendanceRecord, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"template_id":     bson.M{"$in": templateIDs},
		"occurrence_date": bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "occurrence_date", Value: 1},
		{Key: "template_id", Value: 1},
		{Key: "user_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a user's most recent records, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "check_in_time", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
