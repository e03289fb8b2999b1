package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samandr77/microservices/crm/internal/repository"
	"github.com/samandr77/microservices/crm/internal/repository/memory"
	"github.com/samandr77/microservices/crm/internal/service"
	"github.com/samandr77/microservices/crm/pkg/broker"
	"github.com/samandr77/microservices/crm/pkg/config"
	"github.com/samandr77/microservices/crm/pkg/postgres"
)

// App owns the record store and everything it depends on.
type App struct {
	Service *service.Service

	closers []func()
}

// New connects storage (running migrations for postgres) and the event producer when brokers are configured.
func New(ctx context.Context, cfg config.Config, l *slog.Logger) (*App, error) {
	a := &App{}

	repo, err := a.storage(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher service.Publisher

	if cfg.Kafka.Enabled() {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		a.closers = append(a.closers, producer.Close)
		publisher = producer
	}

	a.Service = service.New(repo, publisher)

	return a, nil
}

func (a *App) storage(ctx context.Context, cfg config.Config) (service.Repository, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		return memory.New(), nil
	case config.StorageDriverPostgres:
		applied, err := postgres.Migrate(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}

		if len(applied) > 0 {
			slog.InfoContext(ctx, "migrations applied", "versions", applied)
		}

		pool, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		a.closers = append(a.closers, pool.Close)

		return repository.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}

	a.closers = nil
}
