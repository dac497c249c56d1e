package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kinolab/handlers"
	"kinolab/services/player"
)

func postResolve(t *testing.T, h *handlers.PlayerHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/player/resolve", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)
	return rec
}

func TestPlayerResolveReturnsURL(t *testing.T) {
	h := handlers.NewPlayerHandler(player.Resolver{Base: "https://player.test"})

	rec := postResolve(t, h, `{"player":"alloha","kinopoiskId":301,"season":2,"episode":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL       *string `json:"url"`
		MediaType string  `json:"mediaType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL == nil {
		t.Fatal("expected a url")
	}
	if *resp.URL != "https://player.test/alloha/kp/301?season=2&episode=5" {
		t.Fatalf("unexpected url: %s", *resp.URL)
	}
	if resp.MediaType != "tv" {
		t.Fatalf("expected tv media type, got %q", resp.MediaType)
	}
}

func TestPlayerResolveNoIdentifiersIsNullNotError(t *testing.T) {
	h := handlers.NewPlayerHandler(player.Resolver{Base: "https://player.test"})

	rec := postResolve(t, h, `{"player":"vidsrc","kinopoiskId":301}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL       *string `json:"url"`
		MediaType string  `json:"mediaType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != nil {
		t.Fatalf("expected null url, got %q", *resp.URL)
	}
	if resp.MediaType != "movie" {
		t.Fatalf("expected movie media type, got %q", resp.MediaType)
	}
}

func TestPlayerResolveMisconfigurationIsServerError(t *testing.T) {
	h := handlers.NewPlayerHandler(player.Resolver{})

	rec := postResolve(t, h, `{"player":"alloha","kinopoiskId":301}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPlayerResolveRejectsUnknownFields(t *testing.T) {
	h := handlers.NewPlayerHandler(player.Resolver{Base: "https://player.test"})

	rec := postResolve(t, h, `{"player":"alloha","bogus":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
