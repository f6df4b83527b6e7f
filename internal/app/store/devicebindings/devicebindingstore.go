// internal/app/store/devicebindings/devicebindingstore.go
package devicebindingstore

import (
	"context"
	"errors"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadyBound is returned by Bind when the user already has a device.
var ErrAlreadyBound = errors.New("user already has a bound device")

// Store keeps one device binding per user. The unique index
// uniq_device_bindings_user turns Bind into create-if-absent.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("device_bindings")}
}

// Get returns the user's binding, or (nil, nil) when the user has none.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (*models.DeviceBinding, error) {
	var b models.DeviceBinding
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Bind claims deviceID for userID if the user has no binding yet.
func (s *Store) Bind(ctx context.Context, userID primitive.ObjectID, deviceID string) error {
	_, err := s.c.InsertOne(ctx, models.DeviceBinding{
		UserID:   userID,
		DeviceID: deviceID,
		BoundAt:  time.Now().UTC(),
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyBound
		}
		return err
	}
	return nil
}

// Reset clears the user's binding so the next scan binds again. It reports
// whether a binding existed.
func (s *Store) Reset(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
