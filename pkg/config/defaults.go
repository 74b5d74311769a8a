package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "agendamento"
	DefaultMongoConnTimeout  = 5 * time.Second
	DefaultRemoteEnabled     = true

	DefaultLocalCachePath = "agendamento-cache.db"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAdminTokenTTL = 30 * time.Minute

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultAgendaStartDate = "2026-02-02"
	DefaultAgendaEndDate   = "2026-02-20"
	DefaultAgendaStartHour = 11
	DefaultAgendaEndHour   = 18
	DefaultAgendaInterval  = 30
)

// Monday through Friday.
var DefaultAgendaDaysOfWeek = []int{1, 2, 3, 4, 5}
