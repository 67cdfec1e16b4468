package main

import (
	"context"
	"flag"
	"os"

	"testapi/internal/store"
	"testapi/pkg/config"
	"testapi/pkg/logger"
)

func main() {
	fixturesPath := flag.String("fixtures", "", "JSON fixture file; defaults to the embedded set")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{Service: "seed"}).Error(ctx, "load config", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service: "seed",
		Env:     cfg.App.Env,
		Level:   logger.ParseLevel(cfg.App.LogLevel),
	})

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Error(ctx, "load fixtures", err)
		os.Exit(1)
	}

	db, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error(ctx, "Error seeding database", err)
		os.Exit(1)
	}
	defer store.Close(db)

	n, err := store.Seed(ctx, db, fixtures, log)
	if err != nil {
		log.Error(log.WithField(ctx, "created", n), "Error seeding database", err)
		_ = store.Close(db)
		os.Exit(1)
	}
	log.Info(log.WithField(ctx, "created", n), "seed complete")
}

func loadFixtures(path string) ([]store.Fixture, error) {
	if path == "" {
		return store.DefaultFixtures()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return store.ParseFixtures(raw)
}
