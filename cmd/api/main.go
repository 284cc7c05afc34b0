package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goimpute/adapters/api"
	"goimpute/adapters/postgres"
	"goimpute/adapters/rng"
	"goimpute/app"
	"goimpute/internal"
	"goimpute/internal/config"
	"goimpute/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("failed to prepare schema: %v", err)
		}
		runs = postgres.NewRunRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set; run persistence disabled")
	}

	service := app.NewImputeService(rng.NewAdapter(), logger)
	httpApp := api.NewApp(service, runs, logger)

	if err := httpApp.Start(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
