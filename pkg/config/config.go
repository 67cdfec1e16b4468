package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, EnvProduction)
}

type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	BaseURL         string        `envconfig:"API_BASE_URL" default:"/api/v1"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Driver          string        `envconfig:"DATABASE_DRIVER" default:"mysql"`
	URL             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns    int           `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns    int           `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate     bool          `envconfig:"DATABASE_AUTO_MIGRATE" default:"true"`
}

// RedisConfig is optional; without a URL the rate limiter stays in memory.
type RedisConfig struct {
	URL string `envconfig:"REDIS_URL"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	Max    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv parses the process environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverMySQL, DriverPostgres, c.Database.Driver))
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	c.HTTP.BaseURL = strings.TrimRight(strings.TrimSpace(c.HTTP.BaseURL), "/")
	if c.HTTP.BaseURL != "" && !strings.HasPrefix(c.HTTP.BaseURL, "/") {
		errs = append(errs, fmt.Errorf("API_BASE_URL must start with /, got %q", c.HTTP.BaseURL))
	}

	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.Max <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}

	return errors.Join(errs...)
}
