package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment once at start-up.
type Config struct {
	HTTPAddr string `env:"INTAKE_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	GELFAddr string `env:"GELF_ADDR"`

	Store       string `env:"INTAKE_STORE" envDefault:"memory"`
	OxiDBHost   string `env:"OXIDB_HOST" envDefault:"127.0.0.1"`
	OxiDBPort   int    `env:"OXIDB_PORT" envDefault:"4444"`
	PoolSize    int    `env:"INTAKE_POOL_SIZE" envDefault:"3"`
	SQLitePath  string `env:"INTAKE_SQLITE_PATH" envDefault:"intake.db"`
	PostgresDSN string `env:"INTAKE_POSTGRES_DSN"`

	JWTSecret     string        `env:"INTAKE_JWT_SECRET" envDefault:"oxintake-dev-secret-change-me"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"ohio2024admin"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	NotifyEmail  string `env:"NOTIFY_EMAIL" envDefault:"astickley@example.com"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"onboarding@resend.dev"`

	PlaidClientID string `env:"PLAID_CLIENT_ID"`
	PlaidSecret   string `env:"PLAID_SECRET"`
	PlaidEnv      string `env:"PLAID_ENV" envDefault:"sandbox"`

	CaseDefaultsPath string        `env:"INTAKE_CASE_DEFAULTS"`
	OTelEndpoint     string        `env:"INTAKE_OTEL_ENDPOINT"`
	AutosaveDelay    time.Duration `env:"INTAKE_AUTOSAVE_DELAY" envDefault:"1500ms"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 1
	}
	switch cfg.PlaidEnv {
	case "sandbox", "development", "production":
	default:
		return nil, fmt.Errorf("config: PLAID_ENV %q is not sandbox, development or production", cfg.PlaidEnv)
	}
	return &cfg, nil
}
