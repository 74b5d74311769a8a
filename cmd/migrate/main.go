package main

import (
	"context"
	"time"

	mongoMigration "agendamento/internal/migrations/mongo"
	"agendamento/pkg/client"
	"agendamento/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if !cfg.RemoteEnabled {
		cfg.Log.Fatal("Remote store disabled by configuration, nothing to migrate")
	}

	cfg.Log.Info("Starting Mongo migration job")
	mc, err := client.NewMongoClient(cfg.MongoURI, cfg.MongoConnTimeout)
	if mc != nil {
		cfg.Client.Mongo = mc
		defer cfg.GracefulShutdown()
	}
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := mongoMigration.RunMigration(ctx, mc.Client, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
