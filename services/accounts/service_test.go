package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kinolab/models"
)

// fakeStore is an in-memory Store used in place of MongoDB.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by id
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]models.User)}
}

func (f *fakeStore) InsertUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
	return nil
}

// recordingMailer captures the last code instead of sending anything.
type recordingMailer struct {
	email string
	code  string
}

func (m *recordingMailer) SendVerification(email, _, code string) error {
	m.email = email
	m.code = code
	return nil
}

func TestRegisterAndVerify(t *testing.T) {
	store := newFakeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, " User@Example.COM ", "Viewer", "supersecret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Verified {
		t.Fatal("fresh accounts must start unverified")
	}
	if mailer.code == "" || len(mailer.code) != 6 {
		t.Fatalf("expected a 6-digit verification code, got %q", mailer.code)
	}

	if _, err := svc.Verify(ctx, "user@example.com", "000000"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for a wrong code, got %v", err)
	}

	verified, err := svc.Verify(ctx, "user@example.com", mailer.code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verified.Verified {
		t.Fatal("expected account to be verified")
	}

	if _, err := svc.Verify(ctx, "user@example.com", mailer.code); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeStore(), &recordingMailer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "x", "supersecret"); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := svc.Register(ctx, "not-an-email", "x", "supersecret"); !errors.Is(err, ErrEmailInvalid) {
		t.Fatalf("expected ErrEmailInvalid, got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.c", "x", "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore(), &recordingMailer{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "", "supersecret"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "DUP@example.com", "", "supersecret"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	store := newFakeStore()
	mailer := &recordingMailer{}
	svc := NewService(store, mailer, time.Nanosecond)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "late@example.com", "", "supersecret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Verify(ctx, "late@example.com", mailer.code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}

	// A resend issues a fresh, valid code.
	if err := svc.ResendVerification(ctx, "late@example.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &recordingMailer{}, time.Hour)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "login@example.com", "Viewer", "supersecret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(ctx, "login@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %q, got %q", registered.ID, user.ID)
	}

	if _, err := svc.Authenticate(ctx, "login@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
