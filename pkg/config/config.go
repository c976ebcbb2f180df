package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "POLLOS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Session SessionConfig
	Redis   RedisConfig
	Seed    SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POLLOS_APP_ENV" default:"development"`
	Port         string `envconfig:"POLLOS_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"POLLOS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"POLLOS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"POLLOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	Driver string `envconfig:"POLLOS_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"POLLOS_DB_DSN"`

	Host     string `envconfig:"POLLOS_DB_HOST"`
	Port     int    `envconfig:"POLLOS_DB_PORT" default:"5432"`
	User     string `envconfig:"POLLOS_DB_USER"`
	Password string `envconfig:"POLLOS_DB_PASSWORD"`
	Name     string `envconfig:"POLLOS_DB_NAME"`
	SSLMode  string `envconfig:"POLLOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POLLOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POLLOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POLLOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"POLLOS_DB_AUTO_MIGRATE" default:"true"`
}

type SessionConfig struct {
	Secret       string        `envconfig:"POLLOS_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"POLLOS_SESSION_ISSUER" default:"pollos-admin"`
	TTL          time.Duration `envconfig:"POLLOS_SESSION_TTL" default:"12h"`
	CookieName   string        `envconfig:"POLLOS_SESSION_COOKIE" default:"pollos_session"`
	CookieSecure bool          `envconfig:"POLLOS_SESSION_COOKIE_SECURE" default:"false"`
}

// RedisConfig is optional: without a URL or address sessions are kept in memory.
type RedisConfig struct {
	URL          string        `envconfig:"POLLOS_REDIS_URL"`
	Address      string        `envconfig:"POLLOS_REDIS_ADDR"`
	Password     string        `envconfig:"POLLOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"POLLOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POLLOS_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"POLLOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POLLOS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"POLLOS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SeedConfig struct {
	AdminUsername string `envconfig:"POLLOS_SEED_ADMIN_USERNAME"`
	AdminPassword string `envconfig:"POLLOS_SEED_ADMIN_PASSWORD"`
	AdminName     string `envconfig:"POLLOS_SEED_ADMIN_NAME" default:"Administrador"`
}

func (db *DBConfig) ensureDSN() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverSQLite:
		if db.DSN == "" {
			db.DSN = "app.db"
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverPostgres, DriverSQLite, db.Driver)
	}

	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, EnvDBHost)
	}
	if db.User == "" {
		missing = append(missing, EnvDBUser)
	}
	if db.Name == "" {
		missing = append(missing, EnvDBName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
