package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/pkg/config"
	"agendamento/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names created by the migrations. The remote store reads them back out
// of duplicate-key errors to tell a cpf clash from a slot clash.
const (
	IndexUniqueCPF  = "uniq_cpf"
	IndexUniqueSlot = "uniq_slot"
)

type RemoteStore struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewRemoteStore binds to the bookings collection. When the service started
// without a Mongo client every call fails with ErrRemoteUnavailable.
func NewRemoteStore(cfg *config.Config) *RemoteStore {
	s := &RemoteStore{
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
	if client := cfg.Client.MongoDB(); client != nil {
		s.collection = client.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	}
	return s
}

func (s *RemoteStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *RemoteStore) List(ctx context.Context) ([]*model.Booking, error) {
	if s.collection == nil {
		return nil, ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Create inserts the booking under a fresh ObjectID hex string id.
func (s *RemoteStore) Create(ctx context.Context, booking *model.Booking) (string, error) {
	if s.collection == nil {
		return "", ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	doc := *booking
	doc.ID = primitive.NewObjectID().Hex()

	if _, err := s.collection.InsertOne(ctx, &doc); err != nil {
		return "", classifyWriteError(err)
	}
	return doc.ID, nil
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	if s.collection == nil {
		return ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

// DeleteAll removes documents one at a time. It is not atomic: an error part
// way through leaves the remaining documents in place.
func (s *RemoteStore) DeleteAll(ctx context.Context) error {
	if s.collection == nil {
		return ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("failed to list bookings for deletion: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []struct {
		ID any `bson:"_id"`
	}
	if err := cursor.All(ctx, &ids); err != nil {
		return fmt.Errorf("failed to decode booking ids: %w", err)
	}

	for i, doc := range ids {
		if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": doc.ID}); err != nil {
			return fmt.Errorf("deleted %d of %d bookings: %w", i, len(ids), err)
		}
	}
	return nil
}

// Ping checks the remote is reachable, for the readiness probe.
func (s *RemoteStore) Ping(ctx context.Context) error {
	if s.collection == nil {
		return ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()
	return s.collection.Database().Client().Ping(ctx, nil)
}

func classifyWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, IndexUniqueCPF):
		return fmt.Errorf("%w: %v", bookingserrors.ErrDuplicateCPF, err)
	case strings.Contains(msg, IndexUniqueSlot):
		return fmt.Errorf("%w: %v", bookingserrors.ErrSlotConflict, err)
	default:
		return errors.Join(bookingserrors.ErrSlotConflict, err)
	}
}
