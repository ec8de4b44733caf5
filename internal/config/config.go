package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/utafrali/AssistantGo/pkg/config"
)

// Config holds all service configuration loaded from the environment.
type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Tracing  TracingConfig
}

type ServiceConfig struct {
	Name        string `env:"SERVICE_NAME" envDefault:"assistant-service"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	RateLimitRPS    int           `env:"SERVER_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst  int           `env:"SERVER_RATE_LIMIT_BURST" envDefault:"20"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"assistant"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"DB_MIN_CONNS" envDefault:"5"`
}

type RedisConfig struct {
	Host     string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int           `env:"REDIS_PORT" envDefault:"6379"`
	Password string        `env:"REDIS_PASSWORD" envDefault:""`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"10m"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
}

// AuthConfig carries the token signing material. The access and refresh
// secrets must be set and must differ from each other.
type AuthConfig struct {
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" envDefault:"7d"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"12"`
	CookieSecure       bool   `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain       string `env:"COOKIE_DOMAIN" envDefault:""`

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AccessTokenTTL returns the parsed access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration { return a.accessTTL }

// RefreshTokenTTL returns the parsed refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration { return a.refreshTTL }

type LLMConfig struct {
	APIKey         string        `env:"GEMINI_API_KEY" envDefault:""`
	Model          string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	BaseURL        string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	RequestTimeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"30s"`
}

type TracingConfig struct {
	Enabled      bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	accessTTL, err := ParseExpiry(c.Auth.AccessTokenExpiry)
	if err != nil {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := ParseExpiry(c.Auth.RefreshTokenExpiry)
	if err != nil {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}
	c.Auth.accessTTL = accessTTL
	c.Auth.refreshTTL = refreshTTL

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}

	return nil
}

// ParseExpiry parses a token lifetime string. It accepts everything
// time.ParseDuration accepts plus a "d" suffix for days (e.g. "7d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", s)
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
