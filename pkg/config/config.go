package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"agendamento/pkg/client"
	"agendamento/pkg/logger"
	"agendamento/pkg/model"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	RemoteEnabled     bool

	LocalCachePath string

	Port string

	AdminPassword    string
	AdminTokenSecret string
	AdminTokenTTL    time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DefaultAgendaStartDate  string
	DefaultAgendaEndDate    string
	DefaultAgendaDaysOfWeek []int
	DefaultAgendaStartHour  int
	DefaultAgendaEndHour    int
	DefaultAgendaInterval   int

	Log    *logger.Logger
	Client *client.Client
}

var (
	mongoURIRegex   = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	dateRegex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func Load(serviceName string) *Config {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		RemoteEnabled:     getEnvBool(EnvRemoteEnabled, DefaultRemoteEnabled),

		LocalCachePath: getEnvStr(EnvLocalCachePath, DefaultLocalCachePath),

		Port: getEnvStr(EnvPort, DefaultPort),

		AdminPassword:    getEnvStr(EnvAdminPassword, ""),
		AdminTokenSecret: getEnvStr(EnvAdminTokenSecret, ""),
		AdminTokenTTL:    getEnvDuration(EnvAdminTokenTTL, DefaultAdminTokenTTL),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultAgendaStartDate:  getEnvStr(EnvDefaultAgendaStartDate, DefaultAgendaStartDate),
		DefaultAgendaEndDate:    getEnvStr(EnvDefaultAgendaEndDate, DefaultAgendaEndDate),
		DefaultAgendaDaysOfWeek: getEnvInts(EnvDefaultAgendaDaysOfWeek, DefaultAgendaDaysOfWeek),
		DefaultAgendaStartHour:  getEnvNum(EnvDefaultAgendaStartHour, DefaultAgendaStartHour),
		DefaultAgendaEndHour:    getEnvNum(EnvDefaultAgendaEndHour, DefaultAgendaEndHour),
		DefaultAgendaInterval:   getEnvNum(EnvDefaultAgendaInterval, DefaultAgendaInterval),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if cfg.AdminTokenSecret == "" {
		cfg.AdminTokenSecret = randomSecret()
		cfg.Log.Warn("ADMIN_TOKEN_SECRET not set, generated an ephemeral secret; admin tokens will not survive a restart")
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// SetMongo connects the remote store. A failed connection leaves the service
// running on the local cache only.
func (cfg *Config) SetMongo() {
	if !cfg.RemoteEnabled {
		cfg.Log.Warn("Remote store disabled by configuration, running on local cache only")
		return
	}
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetLocalCache() {
	cfg.Client.SetSQLite(cfg.Log, cfg.LocalCachePath)
}

func (cfg *Config) DefaultAgenda() model.AgendaConfig {
	return model.AgendaConfig{
		StartDate:  cfg.DefaultAgendaStartDate,
		EndDate:    cfg.DefaultAgendaEndDate,
		DaysOfWeek: append([]int(nil), cfg.DefaultAgendaDaysOfWeek...),
		StartHour:  cfg.DefaultAgendaStartHour,
		EndHour:    cfg.DefaultAgendaEndHour,
		Interval:   cfg.DefaultAgendaInterval,
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.RemoteEnabled {
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !mongoURIRegex.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if cfg.LocalCachePath == "" {
		errors = append(errors, "LocalCachePath cannot be empty")
	}

	if len(cfg.AdminTokenSecret) < 16 {
		errors = append(errors, "AdminTokenSecret must be at least 16 characters")
	}
	if cfg.AdminTokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("AdminTokenTTL must be positive, got: %s", cfg.AdminTokenTTL))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	errors = append(errors, cfg.validateDefaultAgenda()...)

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) validateDefaultAgenda() []string {
	var errors []string

	if !dateRegex.MatchString(cfg.DefaultAgendaStartDate) {
		errors = append(errors, fmt.Sprintf("DefaultAgendaStartDate must be YYYY-MM-DD, got: %s", cfg.DefaultAgendaStartDate))
	}
	if !dateRegex.MatchString(cfg.DefaultAgendaEndDate) {
		errors = append(errors, fmt.Sprintf("DefaultAgendaEndDate must be YYYY-MM-DD, got: %s", cfg.DefaultAgendaEndDate))
	}
	if cfg.DefaultAgendaStartDate > cfg.DefaultAgendaEndDate {
		errors = append(errors, fmt.Sprintf("DefaultAgendaStartDate (%s) must not be after DefaultAgendaEndDate (%s)", cfg.DefaultAgendaStartDate, cfg.DefaultAgendaEndDate))
	}
	if len(cfg.DefaultAgendaDaysOfWeek) == 0 {
		errors = append(errors, "DefaultAgendaDaysOfWeek cannot be empty")
	}
	for _, d := range cfg.DefaultAgendaDaysOfWeek {
		if d < 0 || d > 6 {
			errors = append(errors, fmt.Sprintf("DefaultAgendaDaysOfWeek entries must be between 0 and 6, got: %d", d))
		}
	}
	if cfg.DefaultAgendaStartHour < 0 || cfg.DefaultAgendaEndHour > 23 || cfg.DefaultAgendaStartHour >= cfg.DefaultAgendaEndHour {
		errors = append(errors, fmt.Sprintf("DefaultAgenda hours must satisfy 0 <= start < end <= 23, got: %d-%d", cfg.DefaultAgendaStartHour, cfg.DefaultAgendaEndHour))
	}
	switch cfg.DefaultAgendaInterval {
	case 15, 20, 30, 60:
	default:
		errors = append(errors, fmt.Sprintf("DefaultAgendaInterval must be one of 15, 20, 30, 60, got: %d", cfg.DefaultAgendaInterval))
	}

	return errors
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"remote_enabled", cfg.RemoteEnabled,
		"local_cache_path", cfg.LocalCachePath,
		"port", cfg.Port,
		"admin_token_ttl", cfg.AdminTokenTTL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_agenda", cfg.DefaultAgenda(),
	)
}

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvInts parses a comma separated list such as "1,2,3". Any malformed
// entry discards the whole value.
func getEnvInts(key string, fallback []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return append([]int(nil), fallback...)
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return append([]int(nil), fallback...)
		}
		out = append(out, n)
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
