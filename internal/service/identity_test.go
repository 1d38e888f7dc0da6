package service

import (
	"context"
	"errors"
	"testing"

	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/repository"
)

// fakeUserStore keeps users in a map keyed by email.
type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrEmailExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func TestIdentityService_Register(t *testing.T) {
	store := newFakeUserStore()
	svc := NewIdentityService(store)

	user, err := svc.Register(context.Background(), "Ana", "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.Name != "Ana" || user.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret-pass" {
		t.Error("password must be stored hashed")
	}
}

func TestIdentityService_Register_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewIdentityService(store)

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(context.Background(), "Other", "ana@example.com", "other-pass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestIdentityService_Register_Validation(t *testing.T) {
	svc := NewIdentityService(newFakeUserStore())

	_, err := svc.Register(context.Background(), "", "ana@example.com", "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Missing) != 2 {
		t.Errorf("expected 2 missing fields, got %v", validationErr.Missing)
	}

	_, err = svc.Register(context.Background(), "Ana", "not-an-email", "s3cret-pass")
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestIdentityService_Authenticate(t *testing.T) {
	store := newFakeUserStore()
	svc := NewIdentityService(store)

	registered, err := svc.Register(context.Background(), "Ana", "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}
}

func TestIdentityService_Authenticate_Invalid(t *testing.T) {
	store := newFakeUserStore()
	svc := NewIdentityService(store)

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, wrongPass := svc.Authenticate(context.Background(), "ana@example.com", "wrong")
	_, unknown := svc.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}
