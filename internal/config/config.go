// Package config reads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	Cart CartConfig

	BudgetKey string `env:"BUDGET_KEY" envDefault:"amazonCloneBudget"`

	Currency           string  `env:"CURRENCY" envDefault:"INR"`
	PaymentSuccessRate float64 `env:"PAYMENT_SUCCESS_RATE" envDefault:"0.9"`
}

type CartConfig struct {
	Backend     string `env:"CART_BACKEND" envDefault:"file"`
	Key         string `env:"CART_KEY" envDefault:"amazonCart"`
	FileDir     string `env:"CART_FILE_DIR" envDefault:"./data"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/cart.db"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"cartstore:"`
}

// Load reads files (default ".env") into the process environment when they
// exist, then parses the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}
	if c.PaymentSuccessRate < 0 || c.PaymentSuccessRate > 1 {
		return fmt.Errorf("PAYMENT_SUCCESS_RATE must be within [0, 1], got %v", c.PaymentSuccessRate)
	}
	if c.Cart.Key == "" {
		return fmt.Errorf("CART_KEY is empty")
	}
	if c.BudgetKey == "" {
		return fmt.Errorf("BUDGET_KEY is empty")
	}
	if c.BudgetKey == c.Cart.Key {
		return fmt.Errorf("BUDGET_KEY must differ from CART_KEY")
	}

	switch c.Cart.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Cart.FileDir == "" {
			return fmt.Errorf("CART_FILE_DIR is required for the %s backend", BackendFile)
		}
	case BackendPostgres:
		if c.Cart.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendSQLite:
		if c.Cart.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	case BackendRedis:
		if c.Cart.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.Cart.Backend)
	}

	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}
