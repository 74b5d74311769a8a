package store

import (
	"context"
	"errors"
	"time"

	bookingserrors "agendamento/internal/bookings/errors"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"
)

type Outcome int

const (
	// OutcomeRemote means the remote store served the call.
	OutcomeRemote Outcome = iota
	// OutcomeDegraded means the remote failed and the local cache served the call.
	OutcomeDegraded
	// OutcomeFailed means neither backend could serve the call, or the remote
	// rejected it with a domain error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRemote:
		return "remote"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Result tags every facade call with the backend that answered it.
type Result struct {
	Outcome  Outcome
	ID       string
	Bookings []*model.Booking
	Err      error
}

func (r Result) OK() bool {
	return r.Outcome != OutcomeFailed
}

func (r Result) Degraded() bool {
	return r.Outcome == OutcomeDegraded
}

// FallbackStore tries the remote store first and falls back to the local
// cache on any connectivity failure. Successful remote writes are mirrored
// into the cache on a best-effort basis.
type FallbackStore struct {
	remote Store
	cache  Cache
	log    *logger.Logger
	now    func() time.Time
}

func NewFallbackStore(remote Store, cache Cache, log *logger.Logger) *FallbackStore {
	return &FallbackStore{
		remote: remote,
		cache:  cache,
		log:    log.Component("fallback_store"),
		now:    time.Now,
	}
}

func (s *FallbackStore) warnFallback(operation string, err error) {
	s.log.Warn("Remote store unavailable, falling back to local cache",
		"operation", operation,
		"error", err,
	)
}

func (s *FallbackStore) mirrorFailed(operation string, err error) {
	if err != nil {
		s.log.Debug("Local cache mirror failed", "operation", operation, "error", err)
	}
}

func (s *FallbackStore) List(ctx context.Context) Result {
	bookings, err := s.remote.List(ctx)
	if err == nil {
		s.mirrorFailed("list", s.cache.Replace(ctx, bookings))
		return Result{Outcome: OutcomeRemote, Bookings: bookings}
	}

	s.warnFallback("list", err)
	cached, cacheErr := s.cache.List(ctx)
	if cacheErr != nil {
		return Result{Outcome: OutcomeFailed, Err: errors.Join(err, cacheErr)}
	}
	return Result{Outcome: OutcomeDegraded, Bookings: cached}
}

// Create assigns CreatedAt when absent and sets booking.ID on success.
func (s *FallbackStore) Create(ctx context.Context, booking *model.Booking) Result {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}

	id, err := s.remote.Create(ctx, booking)
	if err == nil {
		booking.ID = id
		s.mirrorFailed("create", s.cache.Prepend(ctx, booking))
		return Result{Outcome: OutcomeRemote, ID: id}
	}
	if isDomainError(err) {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	s.warnFallback("create", err)
	id, cacheErr := s.cache.Create(ctx, booking)
	if cacheErr != nil {
		s.log.Error("Failed to save booking to local cache", "error", cacheErr)
		return Result{Outcome: OutcomeFailed, Err: errors.Join(err, cacheErr)}
	}
	booking.ID = id
	return Result{Outcome: OutcomeDegraded, ID: id}
}

// Delete removes the booking remotely and from the cache. A booking the
// remote does not know may still be a cache-only booking written during an
// outage, so the cache is consulted before reporting not found.
func (s *FallbackStore) Delete(ctx context.Context, id string) Result {
	err := s.remote.Delete(ctx, id)
	if err == nil {
		if cacheErr := s.cache.Delete(ctx, id); !errors.Is(cacheErr, bookingserrors.ErrNotFound) {
			s.mirrorFailed("delete", cacheErr)
		}
		return Result{Outcome: OutcomeRemote, ID: id}
	}

	if !errors.Is(err, bookingserrors.ErrNotFound) {
		s.warnFallback("delete", err)
	}

	if cacheErr := s.cache.Delete(ctx, id); cacheErr != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return Result{Outcome: OutcomeFailed, Err: cacheErr}
		}
		return Result{Outcome: OutcomeFailed, Err: errors.Join(err, cacheErr)}
	}
	return Result{Outcome: OutcomeDegraded, ID: id}
}

// DeleteAll clears the remote store and the cache. The cache is cleared even
// when the remote fails part way, and the remote failure is still returned:
// bulk deletion never reports success while remote bookings may remain.
func (s *FallbackStore) DeleteAll(ctx context.Context) Result {
	remoteErr := s.remote.DeleteAll(ctx)
	if remoteErr != nil {
		s.log.Error("Failed to delete all bookings from remote store", "error", remoteErr)
	}

	if err := s.cache.DeleteAll(ctx); err != nil {
		s.log.Error("Failed to clear local cache", "error", err)
		return Result{Outcome: OutcomeFailed, Err: errors.Join(remoteErr, err)}
	}

	if remoteErr != nil {
		return Result{Outcome: OutcomeFailed, Err: remoteErr}
	}
	return Result{Outcome: OutcomeRemote}
}
