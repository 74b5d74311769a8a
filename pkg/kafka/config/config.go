package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the producer side of the Kafka configuration. No brokers
// means booking events are not published.
type Config struct {
	Brokers       []string `validate:"dive,hostname_port"`
	BookingsTopic string   `validate:"required"`

	ProducerMaxAttempts  int           `validate:"gt=0"`
	ProducerBatchTimeout time.Duration `validate:"gt=0"`
	ProducerRequireAcks  int           `validate:"oneof=-1 0 1"`
	ProducerCompression  string        `validate:"oneof=none gzip snappy lz4 zstd"`
	ProducerAsync        bool

	EnableMiddleware bool
}

// Load reads the Kafka configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Brokers:       splitBrokers(os.Getenv(EnvKafkaBrokers)),
		BookingsTopic: envOr(EnvKafkaBookingsTopic, DefaultKafkaBookingsTopic, identity),

		ProducerMaxAttempts:  envOr(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts, strconv.Atoi),
		ProducerBatchTimeout: envOr(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout, time.ParseDuration),
		ProducerRequireAcks:  envOr(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks, strconv.Atoi),
		ProducerCompression:  envOr(EnvKafkaProducerCompression, DefaultProducerCompression, identity),
		ProducerAsync:        envOr(EnvKafkaProducerAsync, DefaultProducerAsync, strconv.ParseBool),

		EnableMiddleware: envOr(EnvKafkaEnableMiddleware, DefaultEnableMiddleware, strconv.ParseBool),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Enabled reports whether any broker is configured.
func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

// Validate checks the producer settings. A disabled config is always valid.
func (cfg *Config) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	err := validator.New().Struct(cfg)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Errorf("%s failed %q (got %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
	}
	return fmt.Errorf("kafka configuration invalid: %w", errors.Join(problems...))
}

func (cfg *Config) LogConfiguration(logFunc func(msg string, args ...any)) {
	if logFunc == nil {
		return
	}

	if !cfg.Enabled() {
		logFunc("Kafka disabled, booking events will not be published")
		return
	}

	logFunc("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"bookings_topic", cfg.BookingsTopic,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_batch_timeout", cfg.ProducerBatchTimeout,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func identity(s string) (string, error) { return s, nil }

// envOr parses key with parse, keeping fallback when the variable is unset
// or malformed.
func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := parse(raw)
	if err != nil {
		return fallback
	}
	return value
}
