package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                string        `env:"PORT" envDefault:"8080"`
	DatabaseURL         string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	AddressRequestLimit int           `env:"ADDRESS_REQUEST_LIMIT" envDefault:"50"`
	HistoryPageSize     int           `env:"HISTORY_PAGE_SIZE" envDefault:"100"`
	OTelEnabled         bool          `env:"OTEL_ENABLED" envDefault:"true"`
	OTelServiceName     string        `env:"OTEL_SERVICE_NAME" envDefault:"chainhistory-api"`
	JWTSecret           string        `env:"JWT_SECRET"`
	JWTIssuer           string        `env:"JWT_ISSUER" envDefault:"chainhistory-api"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AddressRequestLimit < 1 {
		return fmt.Errorf("ADDRESS_REQUEST_LIMIT must be positive, got %d", c.AddressRequestLimit)
	}
	if c.HistoryPageSize < 1 {
		return fmt.Errorf("HISTORY_PAGE_SIZE must be positive, got %d", c.HistoryPageSize)
	}
	return nil
}
