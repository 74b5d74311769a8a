package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agendamento/pkg/kafka"
	kafka_config "agendamento/pkg/kafka/config"
	"agendamento/pkg/logger"
	"agendamento/pkg/middleware"
	"agendamento/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	published []kafka.Message
	err       error
	closed    bool
}

func (f *fakeProducer) Publish(ctx context.Context, msg kafka.Message) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_BookingCreated(t *testing.T) {
	producer := &fakeProducer{}
	pub := newKafkaPublisher(producer, logger.Discard())

	booking := &model.Booking{ID: "abc123", Name: "Maria", CPF: "12345678901", Program: model.ProgramFIES, Date: "2026-02-02", Time: "11:00"}
	event := Created(booking, true)
	pub.Publish(context.Background(), event)

	require.Len(t, producer.published, 1)
	msg := producer.published[0]
	assert.Equal(t, "abc123", msg.Key)
	assert.True(t, event.OccurredAt.Equal(msg.Timestamp))
	assert.Equal(t, string(BookingCreated), msg.GetEventType())
	assert.Equal(t, SchemaVersion, msg.Headers[kafka.HeaderSchemaVersion])
	assert.Equal(t, Source, msg.Headers[kafka.HeaderSource])
	assert.NotEmpty(t, msg.GetEventID())

	var decoded BookingEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, BookingCreated, decoded.Type)
	assert.True(t, decoded.Degraded)
	require.NotNil(t, decoded.Booking)
	assert.Equal(t, "12345678901", decoded.Booking.CPF)
}

func TestKafkaPublisher_ClearedKeyedByType(t *testing.T) {
	producer := &fakeProducer{}
	newKafkaPublisher(producer, logger.Discard()).Publish(context.Background(), Cleared())

	require.Len(t, producer.published, 1)
	assert.Equal(t, string(BookingsCleared), producer.published[0].Key)
}

func TestKafkaPublisher_CarriesRequestID(t *testing.T) {
	producer := &fakeProducer{}
	pub := newKafkaPublisher(producer, logger.Discard())

	handler := middleware.RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pub.Publish(r.Context(), Deleted("abc123", false))
	}))
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/bookings/id/abc123", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, producer.published, 1)
	assert.Equal(t, "req-42", producer.published[0].GetCorrelationID())
}

func TestKafkaPublisher_SurvivesCanceledRequest(t *testing.T) {
	producer := &fakeProducer{}
	pub := newKafkaPublisher(producer, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub.Publish(ctx, Deleted("abc123", false))

	assert.Len(t, producer.published, 1)
}

func TestKafkaPublisher_FailureIsSwallowed(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	pub := newKafkaPublisher(producer, logger.Discard())

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), Deleted("abc123", false))
	})
	assert.Empty(t, producer.published)

	require.NoError(t, pub.Close())
	assert.True(t, producer.closed)
}

func TestNewPublisher_DisabledWithoutBrokers(t *testing.T) {
	pub, err := NewPublisher(&kafka_config.Config{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, noopPublisher{}, pub)
	assert.NoError(t, pub.Close())

	pub, err = NewPublisher(nil, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, noopPublisher{}, pub)
}
