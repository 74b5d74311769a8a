package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Brokers:              []string{"localhost:9092"},
		BookingsTopic:        DefaultKafkaBookingsTopic,
		ProducerMaxAttempts:  DefaultProducerMaxAttempts,
		ProducerBatchTimeout: DefaultProducerBatchTimeout,
		ProducerRequireAcks:  DefaultProducerRequireAcks,
		ProducerCompression:  DefaultProducerCompression,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Brokers = nil; c.ProducerCompression = "brotli" }, ""},
		{"broker without port", func(c *Config) { c.Brokers = []string{"localhost"} }, "Brokers[0]"},
		{"missing topic", func(c *Config) { c.BookingsTopic = "" }, "BookingsTopic"},
		{"zero attempts", func(c *Config) { c.ProducerMaxAttempts = 0 }, "ProducerMaxAttempts"},
		{"zero batch timeout", func(c *Config) { c.ProducerBatchTimeout = 0 }, "ProducerBatchTimeout"},
		{"bad acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "ProducerRequireAcks"},
		{"bad compression", func(c *Config) { c.ProducerCompression = "brotli" }, "ProducerCompression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-1:9092 , ,broker-2:9092")
	t.Setenv(EnvKafkaProducerBatchTimeout, "50ms")
	t.Setenv(EnvKafkaProducerMaxAttempts, "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
	assert.Equal(t, 50*time.Millisecond, cfg.ProducerBatchTimeout)
	assert.Equal(t, DefaultProducerMaxAttempts, cfg.ProducerMaxAttempts)
}

func TestLoad_DisabledWithoutBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
}
