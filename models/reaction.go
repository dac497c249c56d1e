package models

import "time"

// ReactionKind enumerates the reactions a user can leave on a title.
type ReactionKind string

const (
	ReactionLike     ReactionKind = "like"
	ReactionDislike  ReactionKind = "dislike"
	ReactionFire     ReactionKind = "fire"
	ReactionBored    ReactionKind = "bored"
	ReactionConfused ReactionKind = "confused"
)

// ValidReactionKind reports whether k is one of the known reaction kinds.
func ValidReactionKind(k ReactionKind) bool {
	switch k {
	case ReactionLike, ReactionDislike, ReactionFire, ReactionBored, ReactionConfused:
		return true
	}
	return false
}

// Reaction is a single user's reaction to a title. A user holds at most
// one reaction per (mediaType, mediaId); setting a new kind replaces it.
type Reaction struct {
	UserID    string       `bson:"userId" json:"-"`
	MediaType string       `bson:"mediaType" json:"mediaType"`
	MediaID   int          `bson:"mediaId" json:"mediaId"`
	Kind      ReactionKind `bson:"kind" json:"kind"`
	UpdatedAt time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// ReactionCounts aggregates reactions for one title, keyed by kind.
type ReactionCounts map[ReactionKind]int
