package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	AppURL   string `env:"APP_URL,   default=http://localhost:5173"`

	Session SessionConfig
	Backend BackendConfig
	Demo    DemoConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	PhonePe PhonePeConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,     default=168h"`
	CookieSecure bool          `env:"COOKIE_SECURE,   default=false"`
	Backend      string        `env:"SESSION_BACKEND, default=redis"`
}

type BackendConfig struct {
	APIURL  string        `env:"BACKEND_API_URL,  default=http://localhost:3000"`
	AuthURL string        `env:"BACKEND_AUTH_URL"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=15s"`
}

type DemoConfig struct {
	Enabled       bool   `env:"DEMO_ENABLED, default=false"`
	AccessKeyHash string `env:"DEMO_ACCESS_KEY_HASH"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=minutehire"`
	PoolSize uint64 `env:"MONGO_POOL_SIZE, default=50"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type PhonePeConfig struct {
	BaseURL    string `env:"PHONEPE_BASE_URL,    default=https://api.phonepe.com/apis/hermes"`
	MerchantID string `env:"PHONEPE_MERCHANT_ID"`
	Secret     string `env:"PHONEPE_SECRET"`
	SaltIndex  string `env:"PHONEPE_SALT_INDEX,  default=1"`
}

// IsDevelopment reports whether the gateway runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	switch c.Session.Backend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q",
			SessionBackendRedis, SessionBackendMemory, c.Session.Backend)
	}
	if c.Backend.AuthURL == "" {
		c.Backend.AuthURL = c.Backend.APIURL
	}
	return nil
}
