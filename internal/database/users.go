package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kinolab/models"
)

// InsertUser stores a new account. Duplicate emails surface as a mongo
// write error from the unique index.
func (d *Database) InsertUser(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if _, err := d.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

// FindUserByEmail returns nil without error when no account matches.
func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result := d.users.FindOne(ctx, bson.D{{Key: "email", Value: email}})
	return decodeUser(result)
}

// FindUserByID returns nil without error when no account matches.
func (d *Database) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result := d.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}})
	return decodeUser(result)
}

// UpdateUser replaces the stored document for the user.
func (d *Database) UpdateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: u.ID}}
	if _, err := d.users.ReplaceOne(ctx, filter, u); err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	return nil
}

func decodeUser(result *mongo.SingleResult) (*models.User, error) {
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("fetch user failed: %w", result.Err())
	}

	var u models.User
	if err := result.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user failed: %w", err)
	}
	return &u, nil
}
