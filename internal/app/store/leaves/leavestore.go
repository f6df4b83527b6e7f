// internal/app/store/leaves/leavestore.go
package leavestore

import (
	"context"
	"errors"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotPending is returned when approving or rejecting a request that has
// already been decided.
var ErrNotPending = errors.New("leave request is not pending")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leave_requests")}
}

// Create stores a new pending request.
func (s *Store) Create(ctx context.Context, l models.LeaveRequest) (models.LeaveRequest, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.Status = models.LeavePending
	l.ApprovedBy = nil
	l.DecidedAt = nil
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.LeaveRequest{}, err
	}
	return l, nil
}

// GetByID loads a leave request. Returns mongo.ErrNoDocuments if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.LeaveRequest, error) {
	var l models.LeaveRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.LeaveRequest{}, err
	}
	return l, nil
}

// Approve moves a pending request to approved, recording the approver.
func (s *Store) Approve(ctx context.Context, id, approverID primitive.ObjectID) (models.LeaveRequest, error) {
	return s.decide(ctx, id, approverID, models.LeaveApproved)
}

// Reject moves a pending request to rejected. The decider is kept in
// approved_by for the audit trail.
func (s *Store) Reject(ctx context.Context, id, approverID primitive.ObjectID) (models.LeaveRequest, error) {
	return s.decide(ctx, id, approverID, models.LeaveRejected)
}

func (s *Store) decide(ctx context.Context, id, approverID primitive.ObjectID, status string) (models.LeaveRequest, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var l models.LeaveRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.LeavePending},
		bson.M{"$set": bson.M{
			"status":      status,
			"approved_by": approverID,
			"decided_at":  now,
			"updated_at":  now,
		}},
		opts,
	).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish "missing" from "already decided".
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return models.LeaveRequest{}, getErr
		}
		return models.LeaveRequest{}, ErrNotPending
	}
	if err != nil {
		return models.LeaveRequest{}, err
	}
	return l, nil
}

// ListByUser returns a user's requests, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.LeaveRequest, error) {
	return s.find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// ListPending returns an organization's undecided requests, oldest first.
func (s *Store) ListPending(ctx context.Context, orgID primitive.ObjectID) ([]models.LeaveRequest, error) {
	return s.find(ctx, bson.M{"organization_id": orgID, "status": models.LeavePending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

// Resolve returns the approved leave of userID that covers date, or
// (nil, nil) when none does. Coverage is either an explicit entry in dates
// or an inclusive start_date..end_date range.
func (s *Store) Resolve(ctx context.Context, userID primitive.ObjectID, date models.Date) (*models.LeaveRequest, error) {
	ds := date.String()
	filter := bson.M{
		"user_id": userID,
		"status":  models.LeaveApproved,
		"$or": bson.A{
			bson.M{"dates": ds},
			bson.M{"start_date": bson.M{"$lte": ds}, "end_date": bson.M{"$gte": ds}},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "decided_at", Value: 1}, {Key: "_id", Value: 1}})

	var l models.LeaveRequest
	err := s.c.FindOne(ctx, filter, opts).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListApprovedInRange returns the approved leaves of the given users that
// cover at least one date in [from, to].
func (s *Store) ListApprovedInRange(ctx context.Context, userIDs []primitive.ObjectID, from, to models.Date) ([]models.LeaveRequest, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	fs, ts := from.String(), to.String()
	filter := bson.M{
		"user_id": bson.M{"$in": userIDs},
		"status":  models.LeaveApproved,
		"$or": bson.A{
			bson.M{"dates": bson.M{"$elemMatch": bson.M{"$gte": fs, "$lte": ts}}},
			bson.M{"start_date": bson.M{"$lte": ts}, "end_date": bson.M{"$gte": fs}},
		},
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.LeaveRequest, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LeaveRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
