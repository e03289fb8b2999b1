package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	StorageDriver    string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"debug"`
	Kafka            Kafka
}

type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS"`
	EventsTopic string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"crm.events"`
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	err = c.validate()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	return nil
}
