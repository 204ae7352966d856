// Package config loads process configuration from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Addr      string `env:"CUADERNO_ADDR" env-default:":8080"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	// StorageDriver picks the backend. Empty means postgres when DATABASE_URL
	// is set and memory otherwise.
	StorageDriver string `env:"STORAGE_DRIVER"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`
	SQLitePath    string `env:"SQLITE_PATH" env-default:"cuaderno.db"`

	Timezone string `env:"CUADERNO_TIMEZONE" env-default:"America/Lima"`
	Currency string `env:"CUADERNO_CURRENCY" env-default:"PEN"`

	JWTSecret string `env:"JWT_HS256_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER"`

	DevSeed bool `env:"DEV_SEED" env-default:"false"`
}

// Load reads dotenvPath when it exists (variables already set win) and then
// the environment. An empty dotenvPath skips the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Driver resolves the effective storage driver.
func (c Config) Driver() string {
	d := strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if d != "" {
		return d
	}
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return DriverPostgres
	}
	return DriverMemory
}

// Location loads the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("CUADERNO_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Validate() error {
	switch c.Driver() {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("REDIS_URL is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if len(strings.TrimSpace(c.Currency)) != 3 {
		return fmt.Errorf("CUADERNO_CURRENCY %q is not an ISO 4217 code", c.Currency)
	}
	return nil
}
