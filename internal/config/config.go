package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	JWTExpiryMin int    `env:"JWT_EXPIRY_MIN" envDefault:"60"`
	Port         int    `env:"PORT" envDefault:"8080"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv       string `env:"APP_ENV" envDefault:"production"`

	// TxTimeoutS bounds every metering unit-of-work; exceeding it aborts the
	// whole transaction with no partial commit.
	TxTimeoutS int `env:"TX_TIMEOUT_S" envDefault:"18"`

	// JournalFreeActions controls whether zero-cost actions still produce a
	// ledger entry for audit continuity.
	JournalFreeActions bool `env:"JOURNAL_FREE_ACTIONS" envDefault:"true"`

	// StartingBalance is the token grant for newly provisioned accounts.
	StartingBalance int64 `env:"STARTING_BALANCE" envDefault:"100"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) TxTimeout() time.Duration {
	return time.Duration(c.TxTimeoutS) * time.Second
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMin) * time.Minute
}
