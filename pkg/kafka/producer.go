package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	kafka_config "agendamento/pkg/kafka/config"
	"agendamento/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PublishFunc sends one message.
type PublishFunc func(ctx context.Context, msg Message) error

// ProducerMiddleware wraps a publish. Middleware registered first runs
// outermost.
type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

var compressionCodecs = map[string]compress.Compression{
	"none":   compress.None,
	"gzip":   compress.Gzip,
	"snappy": compress.Snappy,
	"lz4":    compress.Lz4,
	"zstd":   compress.Zstd,
}

var ackLevels = map[int]kafka.RequiredAcks{
	-1: kafka.RequireAll,
	0:  kafka.RequireNone,
	1:  kafka.RequireOne,
}

// Producer writes keyed messages to one topic through a middleware chain.
type Producer struct {
	writer     messageWriter
	topic      string
	mu         sync.RWMutex
	middleware []ProducerMiddleware
	publish    PublishFunc
	closed     bool
}

func NewProducer(cfg *kafka_config.Config, topic string, log *logger.Logger) (*Producer, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("kafka config cannot be nil")
	case !cfg.Enabled():
		return nil, errors.New("at least one broker is required")
	case topic == "":
		return nil, errors.New("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: ackLevels[cfg.ProducerRequireAcks],
		Compression:  compressionCodecs[cfg.ProducerCompression],
		MaxAttempts:  cfg.ProducerMaxAttempts,
		BatchTimeout: cfg.ProducerBatchTimeout,
		Async:        cfg.ProducerAsync,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "topic", topic, "detail", fmt.Sprintf(msg, args...))
		}),
	}

	return newProducer(writer, topic), nil
}

func newProducer(writer messageWriter, topic string) *Producer {
	p := &Producer{writer: writer, topic: topic}
	p.publish = p.write
	return p
}

// Use appends middleware and rebuilds the chain.
func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware)
	publish := PublishFunc(p.write)
	for i := len(p.middleware) - 1; i >= 0; i-- {
		mw, next := p.middleware[i], publish
		publish = func(ctx context.Context, msg Message) error {
			return mw(ctx, msg, next)
		}
	}
	p.publish = publish
}

func (p *Producer) Topic() string {
	return p.topic
}

// Publish validates msg, defaults its topic and runs it through the chain.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	closed, publish := p.closed, p.publish
	p.mu.RUnlock()

	switch {
	case closed:
		return ErrProducerClosed
	case msg.Key == "":
		return ErrEmptyKey
	case len(msg.Value) == 0:
		return ErrEmptyValue
	}
	if msg.Topic == "" {
		msg.Topic = p.topic
	}
	return publish(ctx, msg)
}

func (p *Producer) write(ctx context.Context, msg Message) error {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: headers,
		Time:    msg.Timestamp,
	})
}

// Close flushes and closes the writer. Later calls are no-ops.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
