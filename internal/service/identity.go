package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/textgate/textgate/internal/auth"
	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/repository"
)

// Identity errors.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses don't leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidEmail means the email address failed to parse.
	ErrInvalidEmail = errors.New("invalid email address")
)

// UserStore is the persistence surface the identity service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// IdentityService handles registration and credential verification.
type IdentityService struct {
	store UserStore
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(store UserStore) *IdentityService {
	return &IdentityService{store: store}
}

// Register creates a new user with an argon2id password hash.
// Returns ErrEmailTaken when the email is already registered.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if missing := missingRegistrationFields(name, email, password); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies email and password and returns the matching user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func missingRegistrationFields(name, email, password string) []string {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	return missing
}
