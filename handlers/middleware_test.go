package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"kinolab/handlers"
)

type fakeValidator struct {
	userID string
	err    error
}

func (f *fakeValidator) Validate(token string) (string, error) { return f.userID, f.err }

func newProtectedRouter(validator *fakeValidator) *mux.Router {
	r := mux.NewRouter()
	r.Use(handlers.AuthMiddleware(validator))
	r.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(handlers.UserIDFromContext(r.Context())))
	})
	return r
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newProtectedRouter(&fakeValidator{userID: "u1"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := newProtectedRouter(&fakeValidator{err: errors.New("bad token")})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewarePutsUserOnContext(t *testing.T) {
	router := newProtectedRouter(&fakeValidator{userID: "u42"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "u42" {
		t.Fatalf("expected user id on context, got %q", rec.Body.String())
	}
}
