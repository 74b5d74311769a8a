package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvRemoteEnabled     = "REMOTE_ENABLED"

	EnvLocalCachePath = "LOCAL_CACHE_PATH"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminPassword    = "ADMIN_PASSWORD"
	EnvAdminTokenSecret = "ADMIN_TOKEN_SECRET"
	EnvAdminTokenTTL    = "ADMIN_TOKEN_TTL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultAgendaStartDate  = "DEFAULT_AGENDA_START_DATE"
	EnvDefaultAgendaEndDate    = "DEFAULT_AGENDA_END_DATE"
	EnvDefaultAgendaDaysOfWeek = "DEFAULT_AGENDA_DAYS_OF_WEEK"
	EnvDefaultAgendaStartHour  = "DEFAULT_AGENDA_START_HOUR"
	EnvDefaultAgendaEndHour    = "DEFAULT_AGENDA_END_HOUR"
	EnvDefaultAgendaInterval   = "DEFAULT_AGENDA_INTERVAL"
)
