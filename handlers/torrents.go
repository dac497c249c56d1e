package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kinolab/models"
	torrentspkg "kinolab/services/torrents"
)

type torrentsService interface {
	Search(ctx context.Context, opts torrentspkg.SearchOptions) ([]models.TorrentResult, error)
}

var _ torrentsService = (*torrentspkg.Service)(nil)

type TorrentsHandler struct {
	Service torrentsService
}

func NewTorrentsHandler(s torrentsService) *TorrentsHandler {
	return &TorrentsHandler{Service: s}
}

func (h *TorrentsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := torrentspkg.SearchOptions{
		Query:     strings.TrimSpace(q.Get("query")),
		IMDBID:    strings.TrimSpace(q.Get("imdbId")),
		MediaType: strings.ToLower(strings.TrimSpace(q.Get("type"))),
	}
	if opts.Query == "" && opts.IMDBID == "" {
		writeJSONError(w, "query or imdbId parameter is required", http.StatusBadRequest)
		return
	}
	if limit := q.Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			opts.MaxResults = parsed
		}
	}

	results, err := h.Service.Search(r.Context(), opts)
	if err != nil {
		if errors.Is(err, torrentspkg.ErrNotConfigured) {
			writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
