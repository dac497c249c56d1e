// Package database owns the MongoDB connection and all collection access
// for the account, favorites and reactions stores.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const operationTimeout = 15 * time.Second

type Database struct {
	cli       *mongo.Client
	users     *mongo.Collection
	favorites *mongo.Collection
	reactions *mongo.Collection
}

// Connect establishes the MongoDB connection, pings it and prepares the
// collection handles and indexes.
func Connect(ctx context.Context, uri, name string) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}
	if err = cli.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("connect to db failed: %w", err)
	}

	db := cli.Database(name)
	d := &Database{
		cli:       cli,
		users:     db.Collection("users"),
		favorites: db.Collection("favorites"),
		reactions: db.Collection("reactions"),
	}

	if err = d.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes failed: %w", err)
	}

	return d, nil
}

func (d *Database) ensureIndexes(ctx context.Context) error {
	mediaKey := bson.D{
		{Key: "userId", Value: 1},
		{Key: "mediaType", Value: 1},
		{Key: "mediaId", Value: 1},
	}

	_, err := d.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    mediaKey,
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = d.reactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    mediaKey,
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the underlying client.
func (d *Database) Close(ctx context.Context) error {
	return d.cli.Disconnect(ctx)
}
