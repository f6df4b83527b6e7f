// internal/app/store/sessiontemplates/sessiontemplatestore.go
package sessiontemplatestore

import (
	"context"
	"errors"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/paging"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateName is returned when an organization already has a template
// with the same (case-insensitive) name.
var ErrDuplicateName = errors.New("a session with this name already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("session_templates")}
}

// Create inserts a template, assigning ID, NameCI and timestamps.
func (s *Store) Create(ctx context.Context, t models.SessionTemplate) (models.SessionTemplate, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if t.AssignedUsers == nil {
		t.AssignedUsers = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.SessionTemplate{}, ErrDuplicateName
		}
		return models.SessionTemplate{}, err
	}
	return t, nil
}

// GetByID loads a template. Returns mongo.ErrNoDocuments if it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SessionTemplate, error) {
	var t models.SessionTemplate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.SessionTemplate{}, err
	}
	return t, nil
}

// GetByIDs loads the templates among ids that belong to orgID.
func (s *Store) GetByIDs(ctx context.Context, orgID primitive.ObjectID, ids []primitive.ObjectID) ([]models.SessionTemplate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"organization_id": orgID, "_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListByOrg returns every template of an organization, cancelled ones included.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.SessionTemplate, error) {
	return s.find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListPage returns one keyset page of an organization's templates ordered by
// name_ci. Cancelled templates are included only when withCancelled is set.
func (s *Store) ListPage(ctx context.Context, orgID primitive.ObjectID, withCancelled bool, k paging.Keyset) ([]models.SessionTemplate, paging.Result, error) {
	filter := bson.M{"organization_id": orgID}
	if !withCancelled {
		filter["is_cancelled"] = false
	}
	if w := k.Window("name_ci"); w != nil {
		for key, v := range w {
			filter[key] = v
		}
	}
	rows, err := s.find(ctx, filter, k.ApplyToFind(options.Find(), "name_ci"))
	if err != nil {
		return nil, paging.Result{}, err
	}
	res := paging.Trim(&rows, k)
	return rows, res, nil
}

// ListAssignedTo returns the non-cancelled templates of orgID that list userID
// in assigned_users.
func (s *Store) ListAssignedTo(ctx context.Context, orgID, userID primitive.ObjectID) ([]models.SessionTemplate, error) {
	return s.find(ctx, bson.M{
		"organization_id": orgID,
		"assigned_users":  userID,
		"is_cancelled":    false,
	}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// Update replaces the mutable schedule, location and assignment fields.
func (s *Store) Update(ctx context.Context, t models.SessionTemplate) error {
	assigned := t.AssignedUsers
	if assigned == nil {
		assigned = []primitive.ObjectID{}
	}
	set := bson.M{
		"name":             t.Name,
		"name_ci":          text.Fold(t.Name),
		"description":      t.Description,
		"frequency":        t.Frequency,
		"start_date":       t.StartDate,
		"start_time":       t.StartTime,
		"end_time":         t.EndTime,
		"weekly_days":      t.WeeklyDays,
		"location_type":    t.LocationType,
		"virtual_location": t.VirtualLocation,
		"assigned_users":   assigned,
		"updated_at":       time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	unset := bson.M{}
	if t.EndDate != nil {
		set["end_date"] = *t.EndDate
	} else {
		unset["end_date"] = ""
	}
	if t.LateGraceMinutes != nil {
		set["late_grace_minutes"] = *t.LateGraceMinutes
	} else {
		unset["late_grace_minutes"] = ""
	}
	if t.PhysicalLocation != nil {
		set["physical_location"] = *t.PhysicalLocation
	} else {
		unset["physical_location"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": t.ID, "organization_id": t.OrganizationID}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Cancel marks a template cancelled. Cancelling twice is not an error.
func (s *Store) Cancel(ctx context.Context, orgID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "organization_id": orgID},
		bson.M{"$set": bson.M{"is_cancelled": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.SessionTemplate, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SessionTemplate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
