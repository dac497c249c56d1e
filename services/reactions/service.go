package reactions

import (
	"context"
	"errors"
	"strings"
	"time"

	"kinolab/models"
)

var (
	ErrUserIDRequired   = errors.New("user id is required")
	ErrMediaIDRequired  = errors.New("media id is required")
	ErrMediaTypeInvalid = errors.New("media type must be movie or tv")
	ErrKindInvalid      = errors.New("unknown reaction kind")
)

// Store is the reactions persistence, implemented by the MongoDB layer.
type Store interface {
	UpsertReaction(ctx context.Context, r *models.Reaction) error
	GetReaction(ctx context.Context, userID, mediaType string, mediaID int) (*models.Reaction, error)
	DeleteReaction(ctx context.Context, userID, mediaType string, mediaID int) (bool, error)
	CountReactions(ctx context.Context, mediaType string, mediaID int) (models.ReactionCounts, error)
}

// Service manages per-user reactions. A user holds at most one reaction
// per title; setting the kind already stored toggles it off.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func normalizeMediaType(mediaType string) (string, error) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != "movie" && mediaType != "tv" {
		return "", ErrMediaTypeInvalid
	}
	return mediaType, nil
}

// Set stores the reaction and returns the resulting state: the stored
// reaction, or nil when the call toggled an identical reaction off.
func (s *Service) Set(ctx context.Context, userID, mediaType string, mediaID int, kind models.ReactionKind) (*models.Reaction, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if mediaID <= 0 {
		return nil, ErrMediaIDRequired
	}
	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	if !models.ValidReactionKind(kind) {
		return nil, ErrKindInvalid
	}

	existing, err := s.store.GetReaction(ctx, userID, mediaType, mediaID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Kind == kind {
		if _, err := s.store.DeleteReaction(ctx, userID, mediaType, mediaID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	reaction := models.Reaction{
		UserID:    userID,
		MediaType: mediaType,
		MediaID:   mediaID,
		Kind:      kind,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertReaction(ctx, &reaction); err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Get returns the user's reaction for the title, or nil.
func (s *Service) Get(ctx context.Context, userID, mediaType string, mediaID int) (*models.Reaction, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	return s.store.GetReaction(ctx, userID, mediaType, mediaID)
}

// Counts aggregates reaction totals for one title. Kinds nobody used are
// present with a zero count so clients can render the full set.
func (s *Service) Counts(ctx context.Context, mediaType string, mediaID int) (models.ReactionCounts, error) {
	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	if mediaID <= 0 {
		return nil, ErrMediaIDRequired
	}

	counts, err := s.store.CountReactions(ctx, mediaType, mediaID)
	if err != nil {
		return nil, err
	}

	for _, kind := range []models.ReactionKind{
		models.ReactionLike,
		models.ReactionDislike,
		models.ReactionFire,
		models.ReactionBored,
		models.ReactionConfused,
	} {
		if _, ok := counts[kind]; !ok {
			counts[kind] = 0
		}
	}
	return counts, nil
}
