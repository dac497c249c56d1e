package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

var (
	errKinopoiskNotConfigured = errors.New("kinopoisk api key not configured")
	errKinopoiskNotFound      = errors.New("kinopoisk film not found")
)

// kinopoiskClient talks to a Kinopoisk-compatible API. Authentication is
// a static X-API-KEY header.
type kinopoiskClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func newKinopoiskClient(apiKey, baseURL string, httpc *http.Client) *kinopoiskClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &kinopoiskClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   httpc,
	}
}

func (c *kinopoiskClient) isConfigured() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

func (c *kinopoiskClient) doGET(ctx context.Context, apiPath string, query url.Values, v any) error {
	if !c.isConfigured() {
		return errKinopoiskNotConfigured
	}

	endpoint := c.baseURL + apiPath
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("X-API-KEY", c.apiKey)

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(errKinopoiskNotFound)
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				return fmt.Errorf("kinopoisk request failed: %s", resp.Status)
			case resp.StatusCode >= 400:
				return retry.Unrecoverable(fmt.Errorf("kinopoisk request failed: %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// film fetches full details for one Kinopoisk id.
func (c *kinopoiskClient) film(ctx context.Context, id int) (*RawMedia, error) {
	var raw RawMedia
	if err := c.doGET(ctx, "/api/v2.2/films/"+strconv.Itoa(id), nil, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

type kinopoiskSearchResponse struct {
	Films []RawMedia `json:"films"`
}

// searchByKeyword returns film-short records; year and rating arrive as
// strings there, which RawMedia tolerates.
func (c *kinopoiskClient) searchByKeyword(ctx context.Context, keyword string) ([]RawMedia, error) {
	q := url.Values{}
	q.Set("keyword", keyword)

	var payload kinopoiskSearchResponse
	if err := c.doGET(ctx, "/api/v2.1/films/search-by-keyword", q, &payload); err != nil {
		return nil, err
	}
	return payload.Films, nil
}

type kinopoiskFilteredResponse struct {
	Items []RawMedia `json:"items"`
}

// filmByIMDB looks a title up by its IMDB id.
func (c *kinopoiskClient) filmByIMDB(ctx context.Context, imdbID string) (*RawMedia, error) {
	q := url.Values{}
	q.Set("imdbId", imdbID)

	var payload kinopoiskFilteredResponse
	if err := c.doGET(ctx, "/api/v2.2/films", q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, errKinopoiskNotFound
	}
	return &payload.Items[0], nil
}
