// Package store is the persistence facade for bookings: a remote document
// store, a local durable cache, and a FallbackStore that composes the two.
package store

import (
	"context"
	"errors"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/pkg/model"
)

const (
	CollectionName = "agendamentos"
	CacheKey       = "scheduling_appointments"
)

var ErrRemoteUnavailable = errors.New("remote store unavailable")

// Store is implemented by both backends. List returns bookings newest first.
type Store interface {
	List(ctx context.Context) ([]*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) (string, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// Cache is a Store that can also be overwritten by a remote snapshot.
type Cache interface {
	Store
	Replace(ctx context.Context, bookings []*model.Booking) error
	Prepend(ctx context.Context, booking *model.Booking) error
}

// isDomainError reports errors that are answers from a reachable store rather
// than connectivity failures. They never trigger the cache fallback.
func isDomainError(err error) bool {
	return errors.Is(err, bookingserrors.ErrSlotConflict) ||
		errors.Is(err, bookingserrors.ErrDuplicateCPF) ||
		errors.Is(err, bookingserrors.ErrNotFound)
}
