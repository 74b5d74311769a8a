package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agendamento/internal/migrations/mongo/validators"
	"agendamento/internal/settings"
	"agendamento/internal/store"
	"agendamento/pkg/logger"
)

type CollectionDefinition struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	// BookingsIndexes back the listing order and turn a double booking of a
	// slot or a cpf into a duplicate-key error the remote store can classify.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cpf", Value: 1}},
			Options: options.Index().SetName(store.IndexUniqueCPF).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetName(store.IndexUniqueSlot).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	}

	SettingsIndexes = []mongo.IndexModel{}
)

func Collections() map[string]CollectionDefinition {
	return map[string]CollectionDefinition{
		store.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		settings.CollectionName: {
			Indexes:   SettingsIndexes,
			Validator: validators.SettingsValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

// ensureIndexes fails when existing documents already violate a unique
// index; duplicated cpfs or slots must be resolved by hand first.
func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	created, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("existing documents violate a unique index, remove the duplicates and rerun: %w", err)
		}
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
