// Package torrents talks to a Torznab-compatible aggregator and
// normalizes its RSS feed into TorrentResult entries sorted by
// resolution and swarm health.
package torrents

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"kinolab/config"
	"kinolab/models"
)

// ErrNotConfigured means no aggregator URL is set.
var ErrNotConfigured = errors.New("torrent aggregator not configured")

type SearchOptions struct {
	Query      string
	IMDBID     string
	MediaType  string // "movie" or "tv"
	MaxResults int
}

type Service struct {
	url    string
	apiKey string
	httpc  *http.Client
}

func NewService(cfg config.TorrentsSettings, httpc *http.Client) *Service {
	if httpc == nil {
		httpc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Service{
		url:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey: strings.TrimSpace(cfg.APIKey),
		httpc:  httpc,
	}
}

func (s *Service) isConfigured() bool {
	return s != nil && s.url != ""
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title     string        `xml:"title"`
	Link      string        `xml:"link"`
	GUID      string        `xml:"guid"`
	Comments  string        `xml:"comments"`
	PubDate   string        `xml:"pubDate"`
	Enclosure enclosure     `xml:"enclosure"`
	Attrs     []torznabAttr `xml:"attr"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
}

type torznabAttr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Search queries the aggregator. IMDB-keyed searches use the movie/tvsearch
// functions; free-text falls back to t=search.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]models.TorrentResult, error) {
	if !s.isConfigured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	switch {
	case opts.IMDBID != "" && opts.MediaType == "tv":
		params.Set("t", "tvsearch")
		params.Set("imdbid", opts.IMDBID)
	case opts.IMDBID != "":
		params.Set("t", "movie")
		params.Set("imdbid", opts.IMDBID)
	default:
		params.Set("t", "search")
	}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}

	feed, err := s.fetchFeed(ctx, params)
	if err != nil {
		return nil, err
	}

	results := make([]models.TorrentResult, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		results = append(results, normalizeItem(item))
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := resolutionRank(results[i].Quality), resolutionRank(results[j].Quality)
		if ri != rj {
			return ri > rj
		}
		if results[i].Seeders != results[j].Seeders {
			return results[i].Seeders > results[j].Seeders
		}
		return results[i].SizeBytes > results[j].SizeBytes
	})

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

func (s *Service) fetchFeed(ctx context.Context, params url.Values) (*rssFeed, error) {
	endpoint := s.url
	if !strings.HasSuffix(strings.ToLower(endpoint), "/api") {
		endpoint += "/api"
	}

	var feed rssFeed
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.URL.RawQuery = params.Encode()

			resp, err := s.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("aggregator search failed: %s", resp.Status)
			}
			if resp.StatusCode >= 400 {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return retry.Unrecoverable(fmt.Errorf("aggregator search failed: %s: %s", resp.Status, strings.TrimSpace(string(body))))
			}

			buf, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if err := xml.Unmarshal(buf, &feed); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode aggregator feed: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func normalizeItem(item rssItem) models.TorrentResult {
	attrs := make(map[string]string, len(item.Attrs))
	for _, a := range item.Attrs {
		attrs[strings.ToLower(a.Name)] = a.Value
	}

	result := models.TorrentResult{
		Title:     item.Title,
		Tracker:   attrs["tracker"],
		SizeBytes: parseSize(attrs["size"], item.Enclosure.Length),
		Seeders:   parseIntAttr(attrs["seeders"]),
		Leechers:  parseIntAttr(attrs["peers"]),
		Magnet:    pickMagnet(item, attrs),
		PageURL:   item.Comments,
		Quality:   ParseQuality(item.Title),
		Source:    ParseSource(item.Title),
	}
	if result.PageURL == "" {
		result.PageURL = item.GUID
	}
	if t := parsePubDate(item.PubDate); !t.IsZero() {
		result.PublishedAt = t.UTC().Format(time.RFC3339)
	}
	return result
}

func pickMagnet(item rssItem, attrs map[string]string) string {
	if link, ok := attrs["magneturl"]; ok && link != "" {
		return link
	}
	if strings.HasPrefix(item.Link, "magnet:") {
		return item.Link
	}
	if strings.HasPrefix(item.Enclosure.URL, "magnet:") {
		return item.Enclosure.URL
	}
	return item.Enclosure.URL
}

func parseSize(attrSize, enclosureLength string) int64 {
	if v, err := strconv.ParseInt(attrSize, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseInt(enclosureLength, 10, 64); err == nil {
		return v
	}
	return 0
}

func parseIntAttr(value string) int {
	v, _ := strconv.Atoi(value)
	return v
}

func parsePubDate(pubDate string) time.Time {
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, pubDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
