package metadata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"kinolab/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestService(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Service {
	t.Helper()
	cfg := config.MetadataSettings{
		TMDBAPIKey:      "tmdb-key",
		KinopoiskAPIKey: "kp-key",
		KinopoiskAPIURL: "https://kp.test",
		Language:        "ru-RU",
	}
	httpc := &http.Client{Transport: roundTripFunc(handler)}
	return NewService(cfg, httpc)
}

func TestSearchMergesAndDeduplicates(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Host == "kp.test" && strings.Contains(req.URL.Path, "search-by-keyword"):
			if req.Header.Get("X-API-KEY") != "kp-key" {
				t.Errorf("missing kinopoisk api key header")
			}
			return jsonResponse(http.StatusOK, `{"films":[
				{"filmId":301,"nameRu":"Матрица","nameEn":"The Matrix","year":"1999","rating":"8.5","genres":[{"genre":"фантастика"}]}
			]}`), nil
		case req.URL.Host == "api.themoviedb.org" && strings.Contains(req.URL.Path, "/search/multi"):
			return jsonResponse(http.StatusOK, `{"results":[
				{"id":603,"title":"The Matrix","release_date":"1999-03-31","poster_path":"/m.jpg","vote_average":8.2,"media_type":"movie"},
				{"id":624860,"title":"The Matrix Resurrections","release_date":"2021-12-16","media_type":"movie"},
				{"id":1,"name":"Keanu Reeves","media_type":"person"}
			]}`), nil
		}
		t.Errorf("unhandled request: %s %s", req.Method, req.URL)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	results, err := svc.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 merged results, got %d: %+v", len(results), results)
	}
	if results[0].KinopoiskID != 301 || results[0].Title != "Матрица" {
		t.Fatalf("expected kinopoisk entry first, got %+v", results[0])
	}
	if results[1].ID != 624860 {
		t.Fatalf("expected non-duplicate tmdb entry to survive, got %+v", results[1])
	}
}

func TestSearchSurvivesOneUpstreamFailing(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "kp.test" {
			return jsonResponse(http.StatusBadRequest, `{}`), nil
		}
		return jsonResponse(http.StatusOK, `{"results":[
			{"id":603,"title":"The Matrix","release_date":"1999-03-31","media_type":"movie"}
		]}`), nil
	})

	results, err := svc.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != 603 {
		t.Fatalf("expected tmdb-only results, got %+v", results)
	}
}

func TestDetailsPrefersKinopoisk(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "kp.test" && strings.HasSuffix(req.URL.Path, "/films/301") {
			return jsonResponse(http.StatusOK, `{"kinopoiskId":301,"nameRu":"Матрица","nameOriginal":"The Matrix","year":1999,"filmLength":136,"imdbId":"tt0133093","serial":false}`), nil
		}
		t.Errorf("unexpected request: %s", req.URL)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	m, err := svc.Details(context.Background(), "movie", 301)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if m.KinopoiskID != 301 || m.Title != "Матрица" || m.Runtime != 136 {
		t.Fatalf("unexpected details: %+v", m)
	}
	if m.IMDBID != "tt0133093" {
		t.Fatalf("expected imdb id, got %q", m.IMDBID)
	}
}

func TestDetailsFallsBackToTMDB(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Host == "kp.test":
			return jsonResponse(http.StatusNotFound, `{}`), nil
		case req.URL.Host == "api.themoviedb.org" && strings.HasSuffix(req.URL.Path, "/movie/603"):
			return jsonResponse(http.StatusOK, `{"id":603,"title":"The Matrix","release_date":"1999-03-31","runtime":136,"imdb_id":"tt0133093","genres":[{"id":878,"name":"Science Fiction"}]}`), nil
		}
		t.Errorf("unhandled request: %s", req.URL)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	m, err := svc.Details(context.Background(), "movie", 603)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if m.ID != 603 || m.MediaType != "movie" {
		t.Fatalf("unexpected details: %+v", m)
	}
	if len(m.Genres) != 1 || m.Genres[0].ID != 878 || m.Genres[0].Name != "Science Fiction" {
		t.Fatalf("expected tmdb genres to pass through, got %v", m.Genres)
	}
}

func TestExternalIDsFromKinopoisk(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "kp.test" && strings.HasSuffix(req.URL.Path, "/films/301") {
			return jsonResponse(http.StatusOK, `{"kinopoiskId":301,"imdbId":"tt0133093"}`), nil
		}
		t.Errorf("unexpected request: %s", req.URL)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	ids := svc.ExternalIDs(context.Background(), "movie", 301)
	if ids.KinopoiskID != 301 || ids.IMDBID != "tt0133093" {
		t.Fatalf("unexpected ids: %+v", ids)
	}
}

func TestExternalIDsFallsBackToTMDBAndReverseLookup(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.URL.Host == "kp.test" && strings.HasSuffix(req.URL.Path, "/films/603"):
			return jsonResponse(http.StatusNotFound, `{}`), nil
		case req.URL.Host == "api.themoviedb.org" && strings.HasSuffix(req.URL.Path, "/external_ids"):
			return jsonResponse(http.StatusOK, `{"imdb_id":"tt0133093"}`), nil
		case req.URL.Host == "kp.test" && req.URL.Path == "/api/v2.2/films":
			if req.URL.Query().Get("imdbId") != "tt0133093" {
				t.Errorf("unexpected imdbId query: %s", req.URL.RawQuery)
			}
			return jsonResponse(http.StatusOK, `{"items":[{"kinopoiskId":301}]}`), nil
		}
		t.Errorf("unhandled request: %s", req.URL)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	ids := svc.ExternalIDs(context.Background(), "movie", 603)
	if ids.IMDBID != "tt0133093" || ids.KinopoiskID != 301 {
		t.Fatalf("unexpected ids: %+v", ids)
	}
}

func TestExternalIDsDegradeToEmpty(t *testing.T) {
	svc := newTestService(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	ids := svc.ExternalIDs(context.Background(), "movie", 42)
	if ids.IMDBID != "" || ids.KinopoiskID != 0 {
		t.Fatalf("expected empty ids, got %+v", ids)
	}
}
