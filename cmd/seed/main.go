// Package main implements the seed command, which loads reference data
// (administrator, team positions, dictionary terms, source categories)
// from a YAML file into the database through the service layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/events"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/blob"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/postgres"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/task"
)

func main() {
	file := flag.String("file", "seed.yaml", "path to the fixture file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *file); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	fixtures, err := LoadFixtures(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	backend, err := blob.NewBackend(ctx, cfg.Blob)
	if err != nil {
		return err
	}
	if c, ok := backend.(interface{ Close() error }); ok {
		defer func() { _ = c.Close() }()
	}

	services, err := service.NewSet(service.SetDeps{
		Store: postgres.NewStore(db, l),
		Users: postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, l),
		Blobs: blob.NewService(backend, l),
		// seeding never starts imports
		Emitter: events.NewInMemoryEventEmitter(l).Strict(),
		Tasks:   task.NewMemoryTaskStore(),
	}, l)
	if err != nil {
		return err
	}

	_, err = newSeeder(services, filepath.Dir(file), l).Apply(ctx, fixtures)
	if err != nil {
		l.Error("seeding failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
