package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kinolab/models"
	"kinolab/services/accounts"
	"kinolab/services/sessions"
)

type accountsService interface {
	Register(ctx context.Context, email, name, password string) (models.User, error)
	Verify(ctx context.Context, email, code string) (models.User, error)
	ResendVerification(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
}

var _ accountsService = (*accounts.Service)(nil)

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

var _ tokenIssuer = (*sessions.Service)(nil)

type AuthHandler struct {
	Accounts accountsService
	Sessions tokenIssuer
}

func NewAuthHandler(accountsSvc accountsService, sessionsSvc tokenIssuer) *AuthHandler {
	return &AuthHandler{Accounts: accountsSvc, Sessions: sessionsSvc}
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.Register(r.Context(), body.Email, body.Name, body.Password)
	if err != nil {
		writeJSONError(w, err.Error(), accountsErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		writeJSONError(w, err.Error(), accountsErrorStatus(err))
		return
	}

	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		writeJSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Verify confirms a registration code and logs the user in.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.Verify(r.Context(), body.Email, body.Code)
	if err != nil {
		writeJSONError(w, err.Error(), accountsErrorStatus(err))
		return
	}

	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		writeJSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Accounts.ResendVerification(r.Context(), body.Email); err != nil {
		writeJSONError(w, err.Error(), accountsErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeJSONError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	user, err := h.Accounts.Get(r.Context(), userID)
	if err != nil {
		writeJSONError(w, err.Error(), accountsErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func accountsErrorStatus(err error) int {
	switch {
	case errors.Is(err, accounts.ErrEmailRequired),
		errors.Is(err, accounts.ErrEmailInvalid),
		errors.Is(err, accounts.ErrPasswordTooShort),
		errors.Is(err, accounts.ErrCodeInvalid),
		errors.Is(err, accounts.ErrCodeExpired),
		errors.Is(err, accounts.ErrAlreadyVerified):
		return http.StatusBadRequest
	case errors.Is(err, accounts.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, accounts.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
