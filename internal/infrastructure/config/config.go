package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/prepinter/prepinter/internal/core/origin"
)

const envProduction = "production"

type Config struct {
	Env            string        `env:"NODE_ENV,        default=development"`
	Port           string        `env:"PORT,            default=5000"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS"`
	JWTSecret      string        `env:"JWT_SECRET,      required"`
	JWTTTL         time.Duration `env:"JWT_TTL,         default=720h"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	UploadsDir     string        `env:"UPLOADS_DIR,     default=uploads"`
	BodyLimit      string        `env:"BODY_LIMIT,      default=1M"`
	OpsPort        string        `env:"OPS_PORT,        default=9090"`

	Activity  ActivityConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Shell     ShellConfig
	Tracing   TracingConfig
}

type ActivityConfig struct {
	Workers    int `env:"ACTIVITY_WORKERS,     default=4"`
	BufferSize int `env:"ACTIVITY_BUFFER_SIZE, default=256"`
}

type RateLimitConfig struct {
	PerSecond float64 `env:"AUTH_RATE_LIMIT, default=1"`
	Burst     int     `env:"AUTH_RATE_BURST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=prepinter"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// ShellConfig configures the frontend shell process.
type ShellConfig struct {
	Port    string `env:"SHELL_PORT,     default=3000"`
	DistDir string `env:"SHELL_DIST_DIR, default=frontend/dist"`
}

type TracingConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED,                default=false"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT, default=http://localhost:4318"`
	ServiceName string  `env:"OTEL_SERVICE_NAME,           default=prepinter-api"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO,           default=1"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Activity.Workers < 1 {
		return nil, fmt.Errorf("config: ACTIVITY_WORKERS must be at least 1, got %d", cfg.Activity.Workers)
	}
	return &cfg, nil
}

// IsProduction reports whether NODE_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// Origins returns the parsed allow-list, falling back to the built-in
// defaults when ALLOWED_ORIGINS is unset or blank.
func (c *Config) Origins() []string {
	if list := origin.ParseList(c.AllowedOrigins); len(list) > 0 {
		return list
	}
	return origin.DefaultAllowedOrigins
}
