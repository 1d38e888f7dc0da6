package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/textgate/textgate/internal/handler/dto"
)

func TestUserHandler_Register(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})

	body := `{"name":"Ana","email":"ana@example.com","password":"s3cret-pass"}`
	rec := doRequest(t, r, http.MethodPost, "/users/register", strings.NewReader(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp dto.UserResponse
	decodeBody(t, rec, &resp)
	if resp.ID == "" {
		t.Error("expected a user ID")
	}
	if resp.Name != "Ana" || resp.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not contain password material")
	}
}

func TestUserHandler_Register_MissingFields(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})

	rec := doRequest(t, r, http.MethodPost, "/users/register",
		strings.NewReader(`{"email":"ana@example.com"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "missing parameters name, password" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestUserHandler_Register_InvalidEmail(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})

	rec := doRequest(t, r, http.MethodPost, "/users/register",
		strings.NewReader(`{"name":"Ana","email":"not-an-email","password":"s3cret-pass"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Register_DuplicateEmail(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})
	registerUser(t, r, "ana@example.com")

	rec := doRequest(t, r, http.MethodPost, "/users/register",
		strings.NewReader(`{"name":"Other","email":"ana@example.com","password":"other-pass"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "email is already registered" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestUserHandler_Login(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})
	userID := registerUser(t, r, "ana@example.com")

	rec := doRequest(t, r, http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"ana@example.com","password":"s3cret-pass"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp dto.UserResponse
	decodeBody(t, rec, &resp)
	if resp.ID != userID {
		t.Errorf("expected user %s, got %s", userID, resp.ID)
	}
}

func TestUserHandler_Login_WrongPassword(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})
	registerUser(t, r, "ana@example.com")

	rec := doRequest(t, r, http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "invalid credentials" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestUserHandler_Login_UnknownEmail(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{})

	rec := doRequest(t, r, http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
