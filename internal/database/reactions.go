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

func reactionFilter(userID, mediaType string, mediaID int) bson.D {
	return bson.D{
		{Key: "userId", Value: userID},
		{Key: "mediaType", Value: mediaType},
		{Key: "mediaId", Value: mediaID},
	}
}

// UpsertReaction replaces the user's reaction for a title, whatever kind
// was stored before.
func (d *Database) UpsertReaction(ctx context.Context, r *models.Reaction) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	filter := reactionFilter(r.UserID, r.MediaType, r.MediaID)
	opts := options.Replace().SetUpsert(true)
	if _, err := d.reactions.ReplaceOne(ctx, filter, r, opts); err != nil {
		return fmt.Errorf("upsert reaction failed: %w", err)
	}
	return nil
}

// GetReaction returns nil without error when the user has no reaction.
func (d *Database) GetReaction(ctx context.Context, userID, mediaType string, mediaID int) (*models.Reaction, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result := d.reactions.FindOne(ctx, reactionFilter(userID, mediaType, mediaID))
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("fetch reaction failed: %w", result.Err())
	}

	var r models.Reaction
	if err := result.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode reaction failed: %w", err)
	}
	return &r, nil
}

// DeleteReaction reports whether a reaction was actually removed.
func (d *Database) DeleteReaction(ctx context.Context, userID, mediaType string, mediaID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	res, err := d.reactions.DeleteOne(ctx, reactionFilter(userID, mediaType, mediaID))
	if err != nil {
		return false, fmt.Errorf("delete reaction failed: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CountReactions aggregates reaction totals per kind for one title.
func (d *Database) CountReactions(ctx context.Context, mediaType string, mediaID int) (models.ReactionCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "mediaType", Value: mediaType},
			{Key: "mediaId", Value: mediaID},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$kind"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := d.reactions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count reactions failed: %w", err)
	}

	var rows []struct {
		Kind  models.ReactionKind `bson:"_id"`
		Count int                 `bson:"count"`
	}
	if err = cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode reaction counts failed: %w", err)
	}

	counts := make(models.ReactionCounts, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}
