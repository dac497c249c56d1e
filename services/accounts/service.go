package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"

	"kinolab/models"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrCodeInvalid        = errors.New("verification code is invalid")
	ErrCodeExpired        = errors.New("verification code has expired")
)

const minPasswordLength = 8

// Store is the account persistence the service depends on. Implemented
// by the MongoDB layer; tests substitute an in-memory fake.
type Store interface {
	InsertUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

// Mailer delivers verification codes. Actual email transport is outside
// this backend; the default implementation only logs the code.
type Mailer interface {
	SendVerification(email, name, code string) error
}

// Service manages account registration, email verification and
// credential checks.
type Service struct {
	store           Store
	mailer          Mailer
	verificationTTL time.Duration
}

func NewService(store Store, mailer Mailer, verificationTTL time.Duration) *Service {
	if verificationTTL <= 0 {
		verificationTTL = 30 * time.Minute
	}
	return &Service{store: store, mailer: mailer, verificationTTL: verificationTTL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// verification codes are 6-digit, matching what the web client renders
// as a one-time input.
func newVerificationCode() (string, error) {
	return password.Generate(6, 6, 0, true, true)
}

// Register creates an unverified account and sends a verification code.
func (s *Service) Register(ctx context.Context, email, name, plainPassword string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, ErrEmailRequired
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return models.User{}, ErrEmailInvalid
	}
	if len(plainPassword) < minPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password failed: %w", err)
	}

	code, err := newVerificationCode()
	if err != nil {
		return models.User{}, fmt.Errorf("generate verification code failed: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	now := time.Now().UTC()
	user := models.User{
		ID:                 uuid.NewString(),
		Email:              email,
		Name:               name,
		PasswordHash:       string(hash),
		Verified:           false,
		CreatedAt:          now,
		UpdatedAt:          now,
		VerificationCode:   code,
		VerificationSentAt: now,
	}

	if err := s.store.InsertUser(ctx, &user); err != nil {
		return models.User{}, err
	}

	if err := s.mailer.SendVerification(user.Email, user.Name, code); err != nil {
		// The account exists either way; the client can request a resend.
		return user, nil
	}
	return user, nil
}

// Verify confirms the account matching email with the supplied code.
func (s *Service) Verify(ctx context.Context, email, code string) (models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrUserNotFound
	}
	if user.Verified {
		return *user, ErrAlreadyVerified
	}
	if user.VerificationCode == "" || strings.TrimSpace(code) != user.VerificationCode {
		return models.User{}, ErrCodeInvalid
	}
	if time.Since(user.VerificationSentAt) > s.verificationTTL {
		return models.User{}, ErrCodeExpired
	}

	user.Verified = true
	user.VerificationCode = ""
	user.VerificationSentAt = time.Time{}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return *user, nil
}

// ResendVerification issues a fresh code for an unverified account.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	code, err := newVerificationCode()
	if err != nil {
		return fmt.Errorf("generate verification code failed: %w", err)
	}

	user.VerificationCode = code
	user.VerificationSentAt = time.Now().UTC()
	user.UpdatedAt = user.VerificationSentAt

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	return s.mailer.SendVerification(user.Email, user.Name, code)
}

// Authenticate checks credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, email, plainPassword string) (models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return *user, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrUserNotFound
	}
	return *user, nil
}
