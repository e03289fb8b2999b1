// Command crm prepares the record store and exits: it loads configuration, applies pending
// migrations, and checks that storage and the event producer can be built. Processes that
// serve requests embed internal/app themselves. SIGTERM cancels a migration in flight.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/samandr77/microservices/crm/internal/app"
	"github.com/samandr77/microservices/crm/pkg/config"
	"github.com/samandr77/microservices/crm/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	panicOnErr("prepare record store", run(ctx, ".env"))
}

func run(ctx context.Context, envPath string) error {
	cfg, err := config.New(envPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l := logger.New(cfg.LogLevel)

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer a.Close()

	slog.InfoContext(ctx, "record store ready",
		"storage_driver", cfg.StorageDriver,
		"events_enabled", cfg.Kafka.Enabled(),
	)

	return nil
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
