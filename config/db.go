package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"cyclesafe-be/store"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo is the process-wide database handle. It is opened once in main and
// closed at shutdown.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectDB connects, pings and makes sure the indexes exist.
func ConnectDB(ctx context.Context, cfg MongoConfig, logger *slog.Logger) (*Mongo, error) {
	logger.Info("connecting to MongoDB", slog.String("uri", redactURI(cfg.URI)), slog.String("db", cfg.Database))

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := c.Database(cfg.Database)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Connected to MongoDB!")
	return &Mongo{Client: c, DB: db}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
