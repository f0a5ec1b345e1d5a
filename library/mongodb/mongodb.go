package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Artexxx/perf-tracker/library/yamlenv"
)

type MongoConfig struct {
	URI      *yamlenv.Env[string] `yaml:"uri"`
	Database *yamlenv.Env[string] `yaml:"database"`
}

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// NewMongo connects to MongoDB and verifies connectivity with a ping.
func NewMongo(ctx context.Context, uri, database string, logger zerolog.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	logger.Info().Str("database", database).Msg("mongodb connected")

	return &Mongo{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

func (m *Mongo) Database() *mongo.Database {
	return m.db
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
