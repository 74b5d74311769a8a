// Package events announces booking lifecycle changes to downstream consumers.
// Publishing is best effort: a failed publish is logged and never fails the
// operation that produced it.
package events

import (
	"context"
	"time"

	"agendamento/pkg/model"
)

type Type string

const (
	BookingCreated  Type = "booking.created"
	BookingDeleted  Type = "booking.deleted"
	BookingsCleared Type = "bookings.cleared"
)

const (
	SchemaVersion = "1"
	Source        = "agendamento"
)

// BookingEvent is the JSON payload of every event.
type BookingEvent struct {
	Type       Type           `json:"type"`
	BookingID  string         `json:"bookingId,omitempty"`
	Booking    *model.Booking `json:"booking,omitempty"`
	Degraded   bool           `json:"degraded"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent)
	Close() error
}

// Created builds the event emitted after a confirmation is persisted.
func Created(booking *model.Booking, degraded bool) BookingEvent {
	return BookingEvent{
		Type:       BookingCreated,
		BookingID:  booking.ID,
		Booking:    booking,
		Degraded:   degraded,
		OccurredAt: time.Now().UTC(),
	}
}

func Deleted(id string, degraded bool) BookingEvent {
	return BookingEvent{
		Type:       BookingDeleted,
		BookingID:  id,
		Degraded:   degraded,
		OccurredAt: time.Now().UTC(),
	}
}

func Cleared() BookingEvent {
	return BookingEvent{
		Type:       BookingsCleared,
		OccurredAt: time.Now().UTC(),
	}
}

// key partitions by booking so every event of one booking stays ordered.
func (e BookingEvent) key() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	return string(e.Type)
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, BookingEvent) {}

func (noopPublisher) Close() error { return nil }
