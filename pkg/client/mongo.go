package client

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoClient struct {
	Client *mongo.Client
}

// NewMongoClient connects and pings. The driver reconnects lazily, so the
// returned client is usable even when the ping failed; callers get the error
// to decide whether to run degraded.
func NewMongoClient(mongoURI string, mongoConnTimeout time.Duration) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(mongoURI).
		SetServerSelectionTimeout(mongoConnTimeout).
		SetConnectTimeout(mongoConnTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return &MongoClient{Client: client}, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoClient{Client: client}, nil
}
