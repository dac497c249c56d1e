package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kinolab/models"
	reactionspkg "kinolab/services/reactions"
)

type reactionsService interface {
	Set(ctx context.Context, userID, mediaType string, mediaID int, kind models.ReactionKind) (*models.Reaction, error)
	Get(ctx context.Context, userID, mediaType string, mediaID int) (*models.Reaction, error)
	Counts(ctx context.Context, mediaType string, mediaID int) (models.ReactionCounts, error)
}

var _ reactionsService = (*reactionspkg.Service)(nil)

type ReactionsHandler struct {
	Service reactionsService
}

func NewReactionsHandler(s reactionsService) *ReactionsHandler {
	return &ReactionsHandler{Service: s}
}

// Set stores or toggles the caller's reaction and answers with the
// resulting state plus refreshed counts.
func (h *ReactionsHandler) Set(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	var body struct {
		Kind models.ReactionKind `json:"kind"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reaction, err := h.Service.Set(r.Context(), userID, mediaType, id, body.Kind)
	if err != nil {
		writeJSONError(w, err.Error(), reactionsErrorStatus(err))
		return
	}

	counts, err := h.Service.Counts(r.Context(), mediaType, id)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reaction": reaction,
		"counts":   counts,
	})
}

func (h *ReactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	reaction, err := h.Service.Get(r.Context(), userID, mediaType, id)
	if err != nil {
		writeJSONError(w, err.Error(), reactionsErrorStatus(err))
		return
	}

	counts, err := h.Service.Counts(r.Context(), mediaType, id)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reaction": reaction,
		"counts":   counts,
	})
}

func reactionsErrorStatus(err error) int {
	switch {
	case errors.Is(err, reactionspkg.ErrUserIDRequired):
		return http.StatusUnauthorized
	case errors.Is(err, reactionspkg.ErrMediaIDRequired),
		errors.Is(err, reactionspkg.ErrMediaTypeInvalid),
		errors.Is(err, reactionspkg.ErrKindInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
