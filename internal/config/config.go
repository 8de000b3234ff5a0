package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultSessionSecret = "change-this-secret"
)

type Config struct {
	Env      string `env:"APP_ENV,default=development"`
	Port     string `env:"PORT,default=3000"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	SessionSecret string        `env:"SESSION_SECRET,default=change-this-secret"`
	SessionStore  string        `env:"SESSION_STORE,default=db"` // db or cookie
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE,default=168h"`

	DBDriver    string `env:"DB_DRIVER,default=sqlite"` // sqlite or postgres
	DatabaseURL string `env:"DATABASE_URL"`
	DBPath      string `env:"DB_PATH,default=data/commons.sqlite3"`
	DBLog       bool   `env:"DB_LOG,default=false"`

	LockoutThreshold int           `env:"LOCKOUT_THRESHOLD,default=5"`
	LockoutWindow    time.Duration `env:"LOCKOUT_WINDOW,default=15m"`
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION,default=15m"`

	BcryptCost     int `env:"BCRYPT_COST,default=12"`
	HashWorkers    int `env:"HASH_WORKERS,default=0"` // 0 means one per CPU
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT,default=20"`

	TemplatesDir   string   `env:"TEMPLATES_DIR,default=./web/templates"`
	StaticDir      string   `env:"STATIC_DIR,default=./web/static"`
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// Load reads .env (when present) and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() && (c.SessionSecret == defaultSessionSecret || len(c.SessionSecret) < 32) {
		return fmt.Errorf("SESSION_SECRET must be set to at least 32 characters in production")
	}
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "db", "cookie":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.LockoutThreshold < 1 {
		return fmt.Errorf("LOCKOUT_THRESHOLD must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
