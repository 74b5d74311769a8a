package client

import (
	"context"
	"time"

	"agendamento/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Client holds the process-wide store connections. Mongo stays nil when the
// remote store is disabled or unreachable at startup.
type Client struct {
	Mongo  *MongoClient
	SQLite *gorm.DB
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	mc, err := NewMongoClient(mongoURI, mongoConnTimeout)
	if err != nil {
		log.Warn("Remote store unreachable at startup, continuing on local cache", "error", err)
		c.Mongo = mc
		return
	}
	log.Info("Successfully connected to MongoDB")
	c.Mongo = mc
}

func (c *Client) SetSQLite(log *logger.Logger, path string) {
	db, err := OpenSQLite(path)
	if err != nil {
		log.Fatal("Failed to open local cache", "error", err, "path", path)
	}
	log.Info("Local cache opened", "path", path)
	c.SQLite = db
}

// MongoDB returns the underlying driver client, or nil when no remote store
// was configured.
func (c *Client) MongoDB() *mongo.Client {
	if c.Mongo == nil {
		return nil
	}
	return c.Mongo.Client
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.Mongo != nil && c.Mongo.Client != nil {
		if err := c.Mongo.Client.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}
	if c.SQLite != nil {
		if sqlDB, err := c.SQLite.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Failed to close local cache", "error", err)
			}
		}
	}
}
