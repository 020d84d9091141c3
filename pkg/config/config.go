package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "HEALTHOPT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Supported key-value store drivers.
const (
	KVDriverMemory   = "memory"
	KVDriverSQLite   = "sqlite"
	KVDriverPostgres = "postgres"
	KVDriverRedis    = "redis"
)

type Config struct {
	App          AppConfig
	KV           KVConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.KV.validate(); err != nil {
		return nil, err
	}
	if cfg.KV.Driver == KVDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("redis url or address is required for the redis kv driver")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HEALTHOPT_APP_ENV" default:"dev"`
	Port         string `envconfig:"HEALTHOPT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HEALTHOPT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HEALTHOPT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// KVConfig selects and tunes the key-value storage driver.
type KVConfig struct {
	Driver string `envconfig:"HEALTHOPT_KV_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"HEALTHOPT_KV_DSN" default:"file:health-optimised.db"`

	MaxOpenConns    int           `envconfig:"HEALTHOPT_KV_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"HEALTHOPT_KV_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"HEALTHOPT_KV_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HEALTHOPT_KV_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (k KVConfig) validate() error {
	switch k.Driver {
	case KVDriverMemory, KVDriverSQLite, KVDriverPostgres, KVDriverRedis:
	default:
		return fmt.Errorf("unknown kv driver %q", k.Driver)
	}
	if (k.Driver == KVDriverSQLite || k.Driver == KVDriverPostgres) && k.DSN == "" {
		return fmt.Errorf("kv dsn is required for driver %q", k.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"HEALTHOPT_REDIS_URL"`
	Address      string        `envconfig:"HEALTHOPT_REDIS_ADDR"`
	Password     string        `envconfig:"HEALTHOPT_REDIS_PASSWORD"`
	DB           int           `envconfig:"HEALTHOPT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HEALTHOPT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HEALTHOPT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HEALTHOPT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HEALTHOPT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HEALTHOPT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HEALTHOPT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HEALTHOPT_JWT_ISSUER" default:"health-optimised"`
	ExpirationMinutes int    `envconfig:"HEALTHOPT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AdminConfig tunes the admin engine's user-facing behaviour.
type AdminConfig struct {
	FeedbackTTL      time.Duration `envconfig:"HEALTHOPT_ADMIN_FEEDBACK_TTL" default:"4s"`
	CredentialDomain string        `envconfig:"HEALTHOPT_ADMIN_CREDENTIAL_DOMAIN" default:"health-optimised.dev"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HEALTHOPT_AUTO_MIGRATE" default:"false"`
}
