package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	catalogpostgres "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/persistence/postgres"
	catalogseed "github.com/Apurer/gift-registry/internal/domains/catalog/adapters/seed"
	"github.com/Apurer/gift-registry/internal/platform/migrations"
	platformpostgres "github.com/Apurer/gift-registry/internal/platform/postgres"
)

func main() {
	seedFile := flag.String("seed", "", "optional YAML catalog to upsert after migrating")
	skipFunction := flag.Bool("skip-increment-function", false, "do not install increment_packages_sold")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot migrate")
	}

	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	logger.Info("schema migrated")
	if !*skipFunction {
		if err := migrations.InstallIncrementFunction(db.WithContext(ctx)); err != nil {
			log.Fatalf("failed to install increment function: %v", err)
		}
		logger.Info("increment_packages_sold installed")
	}

	if *seedFile == "" {
		return
	}
	items, err := catalogseed.LoadFile(*seedFile)
	if err != nil {
		log.Fatalf("failed to load seed: %v", err)
	}
	repo := catalogpostgres.NewRepository(db)
	for _, item := range items {
		if err := repo.Upsert(ctx, item); err != nil {
			log.Fatalf("failed to upsert experience %s: %v", item.ID, err)
		}
	}
	logger.Info("catalog seeded", slog.String("file", *seedFile), slog.Int("experiences", len(items)))
}
