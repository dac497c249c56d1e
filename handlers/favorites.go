package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kinolab/models"
	favoritespkg "kinolab/services/favorites"
)

type favoritesService interface {
	AddOrUpdate(ctx context.Context, userID string, input models.FavoriteUpsert) (models.Favorite, error)
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Contains(ctx context.Context, userID, mediaType string, mediaID int) (bool, error)
	Remove(ctx context.Context, userID, mediaType string, mediaID int) (bool, error)
}

var _ favoritesService = (*favoritespkg.Service)(nil)

type FavoritesHandler struct {
	Service favoritesService
}

func NewFavoritesHandler(s favoritesService) *FavoritesHandler {
	return &FavoritesHandler{Service: s}
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	items, err := h.Service.List(r.Context(), userID)
	if err != nil {
		writeJSONError(w, err.Error(), favoritesErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"favorites": items})
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var input models.FavoriteUpsert
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fav, err := h.Service.AddOrUpdate(r.Context(), userID, input)
	if err != nil {
		writeJSONError(w, err.Error(), favoritesErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, fav)
}

func (h *FavoritesHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	found, err := h.Service.Contains(r.Context(), userID, mediaType, id)
	if err != nil {
		writeJSONError(w, err.Error(), favoritesErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"favorite": found})
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	removed, err := h.Service.Remove(r.Context(), userID, mediaType, id)
	if err != nil {
		writeJSONError(w, err.Error(), favoritesErrorStatus(err))
		return
	}
	if !removed {
		writeJSONError(w, "favorite not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func favoritesErrorStatus(err error) int {
	switch {
	case errors.Is(err, favoritespkg.ErrUserIDRequired):
		return http.StatusUnauthorized
	case errors.Is(err, favoritespkg.ErrMediaIDRequired),
		errors.Is(err, favoritespkg.ErrMediaTypeInvalid),
		errors.Is(err, favoritespkg.ErrTitleRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
