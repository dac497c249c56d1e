package models

import (
	"strconv"
	"time"
)

// Favorite represents a media entry saved by a user. Uniqueness is
// enforced per (userId, mediaType, mediaId).
type Favorite struct {
	UserID     string    `bson:"userId" json:"-"`
	MediaType  string    `bson:"mediaType" json:"mediaType"` // movie | tv
	MediaID    int       `bson:"mediaId" json:"mediaId"`
	Title      string    `bson:"title" json:"title"`
	PosterPath string    `bson:"posterPath,omitempty" json:"posterPath,omitempty"`
	Year       string    `bson:"year,omitempty" json:"year,omitempty"`
	AddedAt    time.Time `bson:"addedAt" json:"addedAt"`
}

// FavoriteUpsert captures data required to insert or update a favorite.
type FavoriteUpsert struct {
	MediaType  string `json:"mediaType"`
	MediaID    int    `json:"mediaId"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath,omitempty"`
	Year       string `json:"year,omitempty"`
}

// Key returns a stable identifier combining media type and id.
func (f Favorite) Key() string {
	return f.MediaType + ":" + strconv.Itoa(f.MediaID)
}
