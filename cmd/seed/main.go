// Seeds a development database with demo data. Refuses to run in production.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/serenispa/serenity-api/internal/config"
	"github.com/serenispa/serenity-api/internal/database"
	"github.com/serenispa/serenity-api/internal/seed"
	"github.com/serenispa/serenity-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Environment == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed.Run(context.Background(), db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("Seed complete")
}
