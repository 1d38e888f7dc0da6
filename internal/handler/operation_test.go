package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/textgate/textgate/internal/downstream"
	"github.com/textgate/textgate/internal/handler/dto"
	"github.com/textgate/textgate/internal/service"
)

// newTestRouter wires real services over the in-memory store, mirroring the
// production route layout without middleware.
func newTestRouter(store *memoryStore, invoker service.Invoker) chi.Router {
	logger := testLogger()

	gateway := service.NewGatewayService(store, invoker, logger, nil)
	identity := service.NewIdentityService(store)
	history := service.NewHistoryService(store, nil)

	base := New()
	operationHandler := NewOperationHandler(gateway, logger)
	userHandler := NewUserHandler(identity, logger)
	historyHandler := NewHistoryHandler(history, logger)

	r := chi.NewRouter()
	r.Get("/", base.Hello)
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/history", historyHandler.Get)
		r.Delete("/history", historyHandler.Clear)
	})
	r.Post("/microservices/{operation}", operationHandler.Process)
	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)
	return r
}

// registerUser creates a user through the API and returns its ID.
func registerUser(t *testing.T, r chi.Router, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test","email":%q,"password":"s3cret-pass"}`, email)
	rec := doRequest(t, r, http.MethodPost, "/users/register", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("register failed with status %d: %s", rec.Code, rec.Body)
	}
	var resp dto.UserResponse
	decodeBody(t, rec, &resp)
	return resp.ID
}

func TestOperationHandler_Translate(t *testing.T) {
	store := newMemoryStore()
	invoker := &stubInvoker{body: []byte(`{"translated":"Hello world"}`)}
	r := newTestRouter(store, invoker)
	userID := registerUser(t, r, "ana@example.com")

	body := fmt.Sprintf(`{"user_id":%q,"text":"Hola mundo","targetLang":"en"}`, userID)
	rec := doRequest(t, r, http.MethodPost, "/microservices/translation", strings.NewReader(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Translated string `json:"translated"`
	}
	decodeBody(t, rec, &resp)
	if resp.Translated != "Hello world" {
		t.Errorf("unexpected translation: %q", resp.Translated)
	}

	if len(store.requests) != 1 {
		t.Fatalf("expected 1 audit request row, got %d", len(store.requests))
	}
	if len(store.responses) != 1 {
		t.Fatalf("expected 1 audit response row, got %d", len(store.responses))
	}
}

func TestOperationHandler_ValidationError(t *testing.T) {
	store := newMemoryStore()
	r := newTestRouter(store, &stubInvoker{body: []byte(`{}`)})
	userID := registerUser(t, r, "ana@example.com")

	body := fmt.Sprintf(`{"user_id":%q,"text":"Hola"}`, userID)
	rec := doRequest(t, r, http.MethodPost, "/microservices/translation", strings.NewReader(body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "missing parameter targetLang" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}

	if len(store.requests) != 0 {
		t.Errorf("audit rows written for invalid request")
	}
}

func TestOperationHandler_UnknownOperation(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{body: []byte(`{}`)})

	rec := doRequest(t, r, http.MethodPost, "/microservices/ocr", strings.NewReader(`{"user_id":"1","text":"x"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown operation, got %d", rec.Code)
	}
}

func TestOperationHandler_UnknownUser(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{body: []byte(`{}`)})

	rec := doRequest(t, r, http.MethodPost, "/microservices/summary",
		strings.NewReader(`{"user_id":"nobody","text":"some text"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "unknown user" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestOperationHandler_DownstreamFailure(t *testing.T) {
	store := newMemoryStore()
	invoker := &stubInvoker{err: fmt.Errorf("summary service: service unreachable: %w", downstream.ErrUnavailable)}
	r := newTestRouter(store, invoker)
	userID := registerUser(t, r, "ana@example.com")

	body := fmt.Sprintf(`{"user_id":%q,"text":"some text"}`, userID)
	rec := doRequest(t, r, http.MethodPost, "/microservices/summary", strings.NewReader(body))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body)
	}

	var resp dto.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "error calling the summary service" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}

	// The failed call still leaves an audit trail.
	if len(store.requests) != 1 {
		t.Errorf("expected 1 audit request row, got %d", len(store.requests))
	}
	if len(store.responses) != 1 {
		t.Errorf("expected error payload response row, got %d", len(store.responses))
	}
}

func TestOperationHandler_InvalidBody(t *testing.T) {
	r := newTestRouter(newMemoryStore(), &stubInvoker{body: []byte(`{}`)})

	rec := doRequest(t, r, http.MethodPost, "/microservices/keywords", bytes.NewReader([]byte("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestOperationHandler_KeywordsRoundTrip(t *testing.T) {
	store := newMemoryStore()
	invoker := &stubInvoker{body: []byte(`{"keywords":["go","audit"]}`)}
	r := newTestRouter(store, invoker)
	userID := registerUser(t, r, "ana@example.com")

	body := fmt.Sprintf(`{"user_id":%q,"text":"Go services with audit trails","count":2}`, userID)
	rec := doRequest(t, r, http.MethodPost, "/microservices/keywords", strings.NewReader(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Keywords []string `json:"keywords"`
		Original string   `json:"original"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Keywords) != 2 {
		t.Errorf("unexpected keywords: %v", resp.Keywords)
	}
	if resp.Original != "Go services with audit trails" {
		t.Errorf("expected echoed original, got %q", resp.Original)
	}
}
