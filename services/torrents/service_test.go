package torrents

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"kinolab/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:torznab="http://torznab.com/schemas/2015/feed">
  <channel>
    <item>
      <title>The.Matrix.1999.720p.BluRay.x264-GRP</title>
      <link>magnet:?xt=urn:btih:aaa</link>
      <guid>https://tracker.test/t/1</guid>
      <comments>https://tracker.test/t/1</comments>
      <pubDate>Fri, 21 Aug 2026 10:00:00 +0000</pubDate>
      <enclosure url="https://tracker.test/dl/1.torrent" length="700000000" type="application/x-bittorrent"/>
      <torznab:attr name="seeders" value="12"/>
      <torznab:attr name="peers" value="3"/>
      <torznab:attr name="tracker" value="rutor"/>
    </item>
    <item>
      <title>The Matrix 1999 2160p UHD Remux HEVC-GRP</title>
      <link>https://tracker.test/t/2</link>
      <guid>https://tracker.test/t/2</guid>
      <pubDate>Fri, 21 Aug 2026 11:00:00 +0000</pubDate>
      <enclosure url="https://tracker.test/dl/2.torrent" length="40000000000" type="application/x-bittorrent"/>
      <torznab:attr name="seeders" value="4"/>
      <torznab:attr name="magneturl" value="magnet:?xt=urn:btih:bbb"/>
      <torznab:attr name="size" value="41000000000"/>
    </item>
    <item>
      <title>The.Matrix.1999.1080p.WEB-DL.x264</title>
      <link>https://tracker.test/t/3</link>
      <guid>https://tracker.test/t/3</guid>
      <torznab:attr name="seeders" value="50"/>
    </item>
  </channel>
</rss>`

func newTestService(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Service {
	t.Helper()
	cfg := config.TorrentsSettings{URL: "https://aggregator.test", APIKey: "torz-key"}
	return NewService(cfg, &http.Client{Transport: roundTripFunc(handler)})
}

func TestSearchNormalizesAndSorts(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api" {
			t.Errorf("expected /api path, got %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("apikey") != "torz-key" || q.Get("t") != "movie" || q.Get("imdbid") != "tt0133093" {
			t.Errorf("unexpected query: %s", req.URL.RawQuery)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(sampleFeed)),
			Header:     make(http.Header),
		}, nil
	})

	results, err := svc.Search(context.Background(), SearchOptions{IMDBID: "tt0133093"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Sorted by resolution, then seeders.
	if results[0].Quality != "2160p" || results[1].Quality != "1080p" || results[2].Quality != "720p" {
		t.Fatalf("unexpected quality order: %q %q %q", results[0].Quality, results[1].Quality, results[2].Quality)
	}

	uhd := results[0]
	if uhd.Magnet != "magnet:?xt=urn:btih:bbb" {
		t.Fatalf("expected magneturl attr to win, got %q", uhd.Magnet)
	}
	if uhd.SizeBytes != 41000000000 {
		t.Fatalf("expected size attr to win over enclosure, got %d", uhd.SizeBytes)
	}
	if uhd.Source != "Remux" {
		t.Fatalf("expected Remux source, got %q", uhd.Source)
	}

	hd := results[2]
	if hd.Magnet != "magnet:?xt=urn:btih:aaa" {
		t.Fatalf("expected magnet link from item link, got %q", hd.Magnet)
	}
	if hd.Tracker != "rutor" || hd.Seeders != 12 || hd.Leechers != 3 {
		t.Fatalf("unexpected swarm info: %+v", hd)
	}
	if hd.Source != "BluRay" {
		t.Fatalf("expected BluRay source, got %q", hd.Source)
	}
	if hd.PublishedAt != "2026-08-21T10:00:00Z" {
		t.Fatalf("unexpected publish date: %q", hd.PublishedAt)
	}
}

func TestSearchMaxResults(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(sampleFeed)),
			Header:     make(http.Header),
		}, nil
	})

	results, err := svc.Search(context.Background(), SearchOptions{Query: "matrix", MaxResults: 1})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Quality != "2160p" {
		t.Fatalf("expected best result only, got %+v", results)
	}
}

func TestSearchNotConfigured(t *testing.T) {
	svc := NewService(config.TorrentsSettings{}, nil)
	if _, err := svc.Search(context.Background(), SearchOptions{Query: "matrix"}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchBadStatus(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(bytes.NewBufferString("invalid api key")),
			Header:     make(http.Header),
		}, nil
	})

	if _, err := svc.Search(context.Background(), SearchOptions{Query: "matrix"}); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestParseSourceWordBoundary(t *testing.T) {
	if got := ParseSource("Tsotsi.2005.1080p.BluRay"); got != "BluRay" {
		t.Fatalf("expected BluRay, got %q", got)
	}
	if got := ParseSource("Movie.2020.TS.x264"); got != "TS" {
		t.Fatalf("expected TS for separated token, got %q", got)
	}
	if got := ParseSource("Plain Title 2020"); got != "" {
		t.Fatalf("expected empty source, got %q", got)
	}
}
