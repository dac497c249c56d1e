package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"kinolab/models"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

var errTMDBNotConfigured = errors.New("tmdb api key not configured")

type tmdbClient struct {
	apiKey   string
	language string
	httpc    *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:      strings.TrimSpace(apiKey),
		language:    language,
		httpc:       httpc,
		minInterval: 20 * time.Millisecond, // TMDB has generous rate limits
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// doGET performs an HTTP GET with rate limiting and retry with exponential backoff.
func (c *tmdbClient) doGET(ctx context.Context, endpoint string, query url.Values, v any) error {
	if !c.isConfigured() {
		return errTMDBNotConfigured
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if lang := strings.TrimSpace(c.language); lang != "" {
		query.Set("language", lang)
	}

	var lastErr error
	backoff := 300 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		c.throttleMu.Lock()
		since := time.Since(c.lastRequest)
		if since < c.minInterval {
			time.Sleep(c.minInterval - since)
		}
		c.lastRequest = time.Now()
		c.throttleMu.Unlock()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.URL.RawQuery = query.Encode()

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[tmdb] http error (attempt %d/3): %v", attempt+1, err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			log.Printf("[tmdb] rate limited or server error (attempt %d/3): status %d", attempt+1, resp.StatusCode)
			lastErr = fmt.Errorf("tmdb request failed: %s", resp.Status)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("tmdb request failed: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		return err
	}

	return lastErr
}

type tmdbListResponse struct {
	Results []RawMedia `json:"results"`
}

// trending returns the weekly trending list for "movie" or "tv".
func (c *tmdbClient) trending(ctx context.Context, mediaType string) ([]RawMedia, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "trending", mediaType, "week")
	if err != nil {
		return nil, err
	}

	var payload tmdbListResponse
	if err := c.doGET(ctx, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// search queries the multi-search endpoint. Person hits are filtered out.
func (c *tmdbClient) search(ctx context.Context, query string) ([]RawMedia, error) {
	endpoint, err := url.JoinPath(tmdbBaseURL, "search", "multi")
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)

	var payload tmdbListResponse
	if err := c.doGET(ctx, endpoint, q, &payload); err != nil {
		return nil, err
	}

	results := payload.Results[:0]
	for _, r := range payload.Results {
		if r.MediaType != nil && *r.MediaType != "movie" && *r.MediaType != "tv" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// details fetches the full movie or TV record.
func (c *tmdbClient) details(ctx context.Context, mediaType string, id int) (*RawMedia, error) {
	if mediaType != "tv" {
		mediaType = "movie"
	}

	endpoint, err := url.JoinPath(tmdbBaseURL, mediaType, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	var raw RawMedia
	if err := c.doGET(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	raw.MediaType = &mediaType
	return &raw, nil
}

type tmdbExternalIDsResponse struct {
	IMDBID string `json:"imdb_id"`
}

// externalIDs resolves the IMDB id for a TMDB title.
func (c *tmdbClient) externalIDs(ctx context.Context, mediaType string, id int) (*models.ExternalIDs, error) {
	if mediaType != "tv" {
		mediaType = "movie"
	}

	endpoint, err := url.JoinPath(tmdbBaseURL, mediaType, strconv.Itoa(id), "external_ids")
	if err != nil {
		return nil, err
	}

	var payload tmdbExternalIDsResponse
	if err := c.doGET(ctx, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return &models.ExternalIDs{IMDBID: payload.IMDBID}, nil
}
