package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	mongoMigration "hotelbox/internal/migrations/mongo"
	"hotelbox/pkg/config"
)

const JobName = "hotelbox-migrate"

func main() {
	_ = godotenv.Overload()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
