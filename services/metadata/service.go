// Package metadata aggregates the upstream media catalogs (TMDB and a
// Kinopoisk-compatible API) behind one service. Every record leaving the
// package has been reduced to the canonical models.Media shape by Unify.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"kinolab/config"
	"kinolab/models"
	"kinolab/utils/similarity"
)

// ErrNotFound means no upstream source knows the requested title.
var ErrNotFound = errors.New("title not found")

// externalIDsTimeout bounds the identifier lookup the player flow
// depends on. On expiry the caller proceeds with empty identifiers.
const externalIDsTimeout = 8 * time.Second

// duplicateThreshold is the title similarity above which a TMDB search
// hit is considered the same title as a Kinopoisk one.
const duplicateThreshold = 0.9

type Service struct {
	tmdb      *tmdbClient
	kinopoisk *kinopoiskClient
}

func NewService(cfg config.MetadataSettings, httpc *http.Client) *Service {
	return &Service{
		tmdb:      newTMDBClient(cfg.TMDBAPIKey, cfg.Language, httpc),
		kinopoisk: newKinopoiskClient(cfg.KinopoiskAPIKey, cfg.KinopoiskAPIURL, httpc),
	}
}

func unifyAll(raws []RawMedia) []models.Media {
	media := make([]models.Media, len(raws))
	for i, raw := range raws {
		media[i] = Unify(raw)
	}
	return media
}

// Trending returns the weekly trending titles for "movie" or "tv".
func (s *Service) Trending(ctx context.Context, mediaType string) ([]models.Media, error) {
	if mediaType != "tv" {
		mediaType = "movie"
	}

	raws, err := s.tmdb.trending(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("trending %s failed: %w", mediaType, err)
	}

	media := unifyAll(raws)
	for i := range media {
		if media[i].MediaType == "" {
			media[i].MediaType = mediaType
		}
	}
	return media, nil
}

// Search queries both upstreams in parallel and merges the results.
// One upstream failing only narrows the result set; both failing is an
// error.
func (s *Service) Search(ctx context.Context, query string) ([]models.Media, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Media{}, nil
	}

	var (
		kpResults, tmdbResults []RawMedia
		kpErr, tmdbErr         error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		kpResults, kpErr = s.kinopoisk.searchByKeyword(ctx, query)
	})
	wg.Go(func() {
		tmdbResults, tmdbErr = s.tmdb.search(ctx, query)
	})
	wg.Wait()

	if kpErr != nil && tmdbErr != nil {
		return nil, fmt.Errorf("search failed: %w", tmdbErr)
	}
	if kpErr != nil && !errors.Is(kpErr, errKinopoiskNotConfigured) {
		log.Printf("[metadata] kinopoisk search failed: %v", kpErr)
	}
	if tmdbErr != nil && !errors.Is(tmdbErr, errTMDBNotConfigured) {
		log.Printf("[metadata] tmdb search failed: %v", tmdbErr)
	}

	return mergeSearchResults(unifyAll(kpResults), unifyAll(tmdbResults)), nil
}

// mergeSearchResults keeps Kinopoisk entries first (they carry the ids
// most playback backends prefer) and drops TMDB entries that duplicate
// one of them.
func mergeSearchResults(kp, tmdb []models.Media) []models.Media {
	out := make([]models.Media, 0, len(kp)+len(tmdb))
	out = append(out, kp...)

	for _, cand := range tmdb {
		dup := false
		for _, have := range kp {
			if sameTitle(cand, have) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, cand)
		}
	}
	return out
}

func sameTitle(a, b models.Media) bool {
	if a.Year != "" && b.Year != "" && a.Year != b.Year {
		return false
	}
	pairs := [][2]string{
		{a.Title, b.Title},
		{a.Title, b.OriginalTitle},
		{a.OriginalTitle, b.Title},
		{a.OriginalTitle, b.OriginalTitle},
	}
	for _, p := range pairs {
		if p[0] == "" || p[1] == "" {
			continue
		}
		if similarity.Score(p[0], p[1]) >= duplicateThreshold {
			return true
		}
	}
	return false
}

// Details returns full info for one internal id. Kinopoisk is the
// primary namespace; TMDB fills in for titles it does not know.
func (s *Service) Details(ctx context.Context, mediaType string, id int) (*models.Media, error) {
	raw, err := s.kinopoisk.film(ctx, id)
	if err == nil {
		m := Unify(*raw)
		if m.MediaType == "" {
			m.MediaType = mediaType
		}
		return &m, nil
	}
	if !errors.Is(err, errKinopoiskNotFound) && !errors.Is(err, errKinopoiskNotConfigured) {
		log.Printf("[metadata] kinopoisk film %d failed: %v", id, err)
	}

	raw, err = s.tmdb.details(ctx, mediaType, id)
	if err != nil {
		if errors.Is(err, errTMDBNotConfigured) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("details %d failed: %w", id, err)
	}

	m := Unify(*raw)
	return &m, nil
}

// ExternalIDs resolves the cross-namespace identifier set the player
// resolver needs for one internal id. The lookup is bounded and never
// retried beyond the clients' own backoff; on failure it returns empty
// identifiers so playback degrades to the "player unavailable" path
// instead of blocking.
func (s *Service) ExternalIDs(ctx context.Context, mediaType string, id int) models.ExternalIDs {
	ctx, cancel := context.WithTimeout(ctx, externalIDsTimeout)
	defer cancel()

	if raw, err := s.kinopoisk.film(ctx, id); err == nil {
		ids := models.ExternalIDs{KinopoiskID: id}
		if raw.KinopoiskID != nil {
			ids.KinopoiskID = *raw.KinopoiskID
		}
		ids.IMDBID = firstString(raw.IMDBID, raw.IMDBIDSnake)
		return ids
	}

	ids, err := s.tmdb.externalIDs(ctx, mediaType, id)
	if err != nil {
		log.Printf("[metadata] external ids for %s %d failed: %v", mediaType, id, err)
		return models.ExternalIDs{}
	}

	resolved := *ids
	if resolved.IMDBID != "" {
		// The TMDB namespace has no Kinopoisk ids; try the reverse lookup.
		if raw, err := s.kinopoisk.filmByIMDB(ctx, resolved.IMDBID); err == nil && raw.KinopoiskID != nil {
			resolved.KinopoiskID = *raw.KinopoiskID
		}
	}
	return resolved
}
