package main

import (
	"context"
	_ "embed"
	"flag"
	"log"
	"os"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/repositories/mongodb"
	"shelterfund/pkg/database"
	"shelterfund/pkg/logger"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

func main() {
	fixturesPath := flag.String("fixtures", "", "path to a fixtures YAML file (defaults to the embedded set)")
	rollbackTo := flag.Int("rollback-to", -1, "roll migrations back to this version and exit without seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		AppName:    cfg.App.Name + "-seed",
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	data := defaultFixtures
	if *fixturesPath != "" {
		if data, err = os.ReadFile(*fixturesPath); err != nil {
			appLogger.WithError(err).Fatal("Failed to read fixtures")
		}
	}

	f, err := parseFixtures(data)
	if err != nil {
		appLogger.WithError(err).Fatal("Invalid fixtures")
	}

	if cfg.Database.Driver != config.DatabaseDriverMongo {
		appLogger.Fatal("Seeding requires DATABASE_DRIVER=mongodb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Database, appLogger)
	if *rollbackTo >= 0 {
		if err := migrator.Down(ctx, *rollbackTo); err != nil {
			appLogger.WithError(err).Fatal("Failed to roll back migrations")
		}
		return
	}

	if err := migrator.Up(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to run migrations")
	}

	s := &seeder{
		shelters: mongodb.NewShelterRepository(db.Database, nil),
		animals:  mongodb.NewAnimalRepository(db.Database, nil),
		prices:   mongodb.NewDonationItemPriceRepository(db.Database, nil),
		currency: cfg.Donation.Currency,
		logger:   appLogger,
	}
	if _, err := s.run(ctx, f); err != nil {
		appLogger.WithError(err).Fatal("Seed failed")
	}
}
