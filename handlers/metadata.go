package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"kinolab/models"
	metadatapkg "kinolab/services/metadata"
)

type metadataService interface {
	Trending(ctx context.Context, mediaType string) ([]models.Media, error)
	Search(ctx context.Context, query string) ([]models.Media, error)
	Details(ctx context.Context, mediaType string, id int) (*models.Media, error)
	ExternalIDs(ctx context.Context, mediaType string, id int) models.ExternalIDs
}

var _ metadataService = (*metadatapkg.Service)(nil)

type MetadataHandler struct {
	Service metadataService
}

func NewMetadataHandler(s metadataService) *MetadataHandler {
	return &MetadataHandler{Service: s}
}

func (h *MetadataHandler) Trending(w http.ResponseWriter, r *http.Request) {
	mediaType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))

	items, err := h.Service.Trending(r.Context(), mediaType)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeJSONError(w, "query parameter is required", http.StatusBadRequest)
		return
	}

	results, err := h.Service.Search(r.Context(), query)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *MetadataHandler) Details(w http.ResponseWriter, r *http.Request) {
	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	media, err := h.Service.Details(r.Context(), mediaType, id)
	if err != nil {
		if errors.Is(err, metadatapkg.ErrNotFound) {
			writeJSONError(w, "title not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

// ExternalIDs never fails; missing identifiers come back as an empty set
// and the player flow degrades from there.
func (h *MetadataHandler) ExternalIDs(w http.ResponseWriter, r *http.Request) {
	mediaType, id, ok := mediaVars(w, r)
	if !ok {
		return
	}

	ids := h.Service.ExternalIDs(r.Context(), mediaType, id)
	writeJSON(w, http.StatusOK, ids)
}

// mediaVars extracts and validates the {mediaType}/{id} route variables.
func mediaVars(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)

	mediaType := strings.ToLower(strings.TrimSpace(vars["mediaType"]))
	if mediaType != "movie" && mediaType != "tv" {
		writeJSONError(w, "media type must be movie or tv", http.StatusBadRequest)
		return "", 0, false
	}

	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		writeJSONError(w, "id must be a positive integer", http.StatusBadRequest)
		return "", 0, false
	}

	return mediaType, id, true
}
