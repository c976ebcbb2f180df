package config

const (
	EnvAppEnv     = "POLLOS_APP_ENV"
	EnvPort       = "POLLOS_APP_PORT"
	EnvDBDriver   = "POLLOS_DB_DRIVER"
	EnvDBDSN      = "POLLOS_DB_DSN"
	EnvDBHost     = "POLLOS_DB_HOST"
	EnvDBPort     = "POLLOS_DB_PORT"
	EnvDBUser     = "POLLOS_DB_USER"
	EnvDBPassword = "POLLOS_DB_PASSWORD"
	EnvDBName     = "POLLOS_DB_NAME"

	EnvSessionSecret = "POLLOS_SESSION_SECRET"
	EnvSessionTTL    = "POLLOS_SESSION_TTL"
	EnvRedisURL      = "POLLOS_REDIS_URL"
)
