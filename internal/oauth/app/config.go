package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env                  string        `yaml:"env" env:"ENV" env-default:"dev"`
	LogLevel             string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat            string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	Port                 int           `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval" env:"HOUSEKEEPING_INTERVAL" env-default:"1h"`

	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Tokens  TokenConfig   `yaml:"tokens"`
	Tracing TracingConfig `yaml:"tracing"`

	PepperFile string `yaml:"pepper_file" env:"OAUTH_PEPPER_FILE" env-default:"pepper"`

	// AdminToken guards the administrative endpoints. Empty disables them.
	AdminToken string `yaml:"admin_token" env:"OAUTH_ADMIN_TOKEN"`
}

type StorageConfig struct {
	Driver       string        `yaml:"driver" env:"OAUTH_STORAGE_DRIVER" env-default:"sqlite"`
	DatabaseFile string        `yaml:"database_file" env:"OAUTH_DATABASE_FILE" env-default:"oauth.db"`
	PostgresDSN  string        `yaml:"postgres_dsn" env:"OAUTH_POSTGRES_DSN"`
	Timeout      time.Duration `yaml:"timeout" env:"OAUTH_STORAGE_TIMEOUT" env-default:"5s"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"OAUTH_REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"OAUTH_REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"OAUTH_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"OAUTH_REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"OAUTH_REDIS_CACHE_TTL" env-default:"5m"`
}

type TokenConfig struct {
	AccessTTL time.Duration `yaml:"access_ttl" env:"OAUTH_ACCESS_TTL" env-default:"1h"`

	// RefreshTTL of zero issues refresh tokens that never expire.
	RefreshTTL          time.Duration `yaml:"refresh_ttl" env:"OAUTH_REFRESH_TTL" env-default:"720h"`
	CodeTTL             time.Duration `yaml:"code_ttl" env:"OAUTH_CODE_TTL" env-default:"5m"`
	RotateRefreshTokens bool          `yaml:"rotate_refresh_tokens" env:"OAUTH_ROTATE_REFRESH_TOKENS" env-default:"true"`
	PasswordGrant       bool          `yaml:"password_grant" env:"OAUTH_PASSWORD_GRANT" env-default:"true"`
}

type TracingConfig struct {
	Endpoint    string  `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_TRACES_SAMPLER_ARG" env-default:"1"`
}

// LoadConfig reads the YAML file named by CONFIG_PATH, if set, and then the
// environment. Environment variables win over the file.
func LoadConfig() (Config, error) {
	var cfg Config

	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DatabaseFile == "" {
			errs = append(errs, errors.New("OAUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("OAUTH_POSTGRES_DSN is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.Tokens.AccessTTL <= 0 {
		errs = append(errs, errors.New("OAUTH_ACCESS_TTL must be positive"))
	}
	if c.Tokens.RefreshTTL < 0 {
		errs = append(errs, errors.New("OAUTH_REFRESH_TTL must not be negative"))
	}
	if c.Tokens.CodeTTL <= 0 {
		errs = append(errs, errors.New("OAUTH_CODE_TTL must be positive"))
	}
	if c.Storage.Timeout <= 0 {
		errs = append(errs, errors.New("OAUTH_STORAGE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
