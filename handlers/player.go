package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kinolab/services/player"
)

type playerResolver interface {
	Resolve(req player.Request) (string, error)
}

var _ playerResolver = player.Resolver{}

type PlayerHandler struct {
	Resolver playerResolver
}

func NewPlayerHandler(resolver playerResolver) *PlayerHandler {
	return &PlayerHandler{Resolver: resolver}
}

type resolveRequest struct {
	Player      string `json:"player"`
	IMDBID      string `json:"imdbId"`
	KinopoiskID int    `json:"kinopoiskId"`
	InternalID  string `json:"id"`
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
}

type resolveResponse struct {
	URL       *string `json:"url"`
	MediaType string  `json:"mediaType"`
}

// Resolve builds the playback URL for one title. A title no backend can
// play is a normal outcome and answers 200 with a null url.
func (h *PlayerHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body resolveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := player.Request{
		Player:      body.Player,
		IMDBID:      body.IMDBID,
		KinopoiskID: body.KinopoiskID,
		InternalID:  body.InternalID,
		Season:      body.Season,
		Episode:     body.Episode,
	}
	mediaType := player.InferMediaType(body.Season, body.Episode)

	url, err := h.Resolver.Resolve(req)
	if err != nil {
		if errors.Is(err, player.ErrNoIdentifiers) {
			writeJSON(w, http.StatusOK, resolveResponse{URL: nil, MediaType: mediaType})
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{URL: &url, MediaType: mediaType})
}
