package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kinolab/models"
)

func favoriteFilter(userID, mediaType string, mediaID int) bson.D {
	return bson.D{
		{Key: "userId", Value: userID},
		{Key: "mediaType", Value: mediaType},
		{Key: "mediaId", Value: mediaID},
	}
}

// UpsertFavorite inserts or replaces a favorite keyed by
// (userId, mediaType, mediaId).
func (d *Database) UpsertFavorite(ctx context.Context, fav *models.Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filter := favoriteFilter(fav.UserID, fav.MediaType, fav.MediaID)
	opts := options.Replace().SetUpsert(true)
	if _, err := d.favorites.ReplaceOne(ctx, filter, fav, opts); err != nil {
		return fmt.Errorf("upsert favorite failed: %w", err)
	}
	return nil
}

// ListFavorites returns the user's favorites, most recently added first.
func (d *Database) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filter := bson.D{{Key: "userId", Value: userID}}
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})

	cur, err := d.favorites.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list favorites failed: %w", err)
	}

	results := make([]models.Favorite, 0)
	if err = cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode favorites failed: %w", err)
	}
	return results, nil
}

// GetFavorite returns nil without error when the entry does not exist.
func (d *Database) GetFavorite(ctx context.Context, userID, mediaType string, mediaID int) (*models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result := d.favorites.FindOne(ctx, favoriteFilter(userID, mediaType, mediaID))
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("fetch favorite failed: %w", result.Err())
	}

	var fav models.Favorite
	if err := result.Decode(&fav); err != nil {
		return nil, fmt.Errorf("decode favorite failed: %w", err)
	}
	return &fav, nil
}

// DeleteFavorite reports whether an entry was actually removed.
func (d *Database) DeleteFavorite(ctx context.Context, userID, mediaType string, mediaID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	res, err := d.favorites.DeleteOne(ctx, favoriteFilter(userID, mediaType, mediaID))
	if err != nil {
		return false, fmt.Errorf("delete favorite failed: %w", err)
	}
	return res.DeletedCount > 0, nil
}
