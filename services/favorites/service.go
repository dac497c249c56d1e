package favorites

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
	ErrTitleRequired    = errors.New("title is required")
)

// Store is the favorites persistence, implemented by the MongoDB layer.
type Store interface {
	UpsertFavorite(ctx context.Context, fav *models.Favorite) error
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	GetFavorite(ctx context.Context, userID, mediaType string, mediaID int) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, mediaType string, mediaID int) (bool, error)
}

// Service manages per-user favorites with upsert semantics.
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

// AddOrUpdate inserts the favorite or refreshes its metadata when the
// user favorites the same title again.
func (s *Service) AddOrUpdate(ctx context.Context, userID string, input models.FavoriteUpsert) (models.Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Favorite{}, ErrUserIDRequired
	}
	if input.MediaID <= 0 {
		return models.Favorite{}, ErrMediaIDRequired
	}
	mediaType, err := normalizeMediaType(input.MediaType)
	if err != nil {
		return models.Favorite{}, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.Favorite{}, ErrTitleRequired
	}

	fav := models.Favorite{
		UserID:     userID,
		MediaType:  mediaType,
		MediaID:    input.MediaID,
		Title:      strings.TrimSpace(input.Title),
		PosterPath: input.PosterPath,
		Year:       input.Year,
		AddedAt:    time.Now().UTC(),
	}

	// Re-favoriting keeps the original AddedAt so the list order stays
	// stable.
	if existing, err := s.store.GetFavorite(ctx, userID, mediaType, input.MediaID); err == nil && existing != nil {
		fav.AddedAt = existing.AddedAt
	}

	if err := s.store.UpsertFavorite(ctx, &fav); err != nil {
		return models.Favorite{}, err
	}
	return fav, nil
}

// List returns the user's favorites, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.store.ListFavorites(ctx, userID)
}

// Contains reports whether the title is in the user's favorites.
func (s *Service) Contains(ctx context.Context, userID, mediaType string, mediaID int) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return false, err
	}

	fav, err := s.store.GetFavorite(ctx, userID, mediaType, mediaID)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}

// Remove deletes the favorite and reports whether it existed.
func (s *Service) Remove(ctx context.Context, userID, mediaType string, mediaID int) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	mediaType, err := normalizeMediaType(mediaType)
	if err != nil {
		return false, err
	}
	return s.store.DeleteFavorite(ctx, userID, mediaType, mediaID)
}
