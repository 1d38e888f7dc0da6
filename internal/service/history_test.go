package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/repository"
)

// fakeHistoryStore serves canned requests and responses.
type fakeHistoryStore struct {
	requests  map[string][]model.AuditRequest
	responses map[string]*model.AuditResponse
	deleted   []string
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{
		requests:  make(map[string][]model.AuditRequest),
		responses: make(map[string]*model.AuditResponse),
	}
}

func (f *fakeHistoryStore) ListRequestsForUser(ctx context.Context, userID string) ([]model.AuditRequest, error) {
	return f.requests[userID], nil
}

func (f *fakeHistoryStore) GetResponseForRequest(ctx context.Context, requestID string) (*model.AuditResponse, error) {
	resp, ok := f.responses[requestID]
	if !ok {
		return nil, repository.ErrResponseNotFound
	}
	return resp, nil
}

func (f *fakeHistoryStore) DeleteHistoryForUser(ctx context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	delete(f.requests, userID)
	return nil
}

func TestHistoryService_GetHistory(t *testing.T) {
	store := newFakeHistoryStore()
	now := time.Now().UTC()

	// Newest first, as the audit store returns them.
	store.requests["u1"] = []model.AuditRequest{
		{ID: "r2", UserID: "u1", ServiceType: model.OperationSummary, InputText: "second", CreatedAt: now},
		{ID: "r1", UserID: "u1", ServiceType: model.OperationTranslation, InputText: "first", CreatedAt: now.Add(-time.Minute)},
	}
	store.responses["r1"] = &model.AuditResponse{
		RequestID:  "r1",
		OutputJSON: json.RawMessage(`{"translated":"x"}`),
		CreatedAt:  now.Add(-time.Minute + time.Second),
	}

	svc := NewHistoryService(store, nil)
	history, err := svc.GetHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}

	// Store ordering (newest first) is preserved.
	if history[0].RequestID != "r2" || history[1].RequestID != "r1" {
		t.Errorf("unexpected order: %s, %s", history[0].RequestID, history[1].RequestID)
	}

	// r2 has no response yet: nil response and timestamp.
	if history[0].Response != nil || history[0].ResponseCreatedAt != nil {
		t.Errorf("expected nil response for in-flight request, got %+v", history[0])
	}

	if string(history[1].Response) != `{"translated":"x"}` {
		t.Errorf("unexpected response payload: %s", history[1].Response)
	}
	if history[1].ResponseCreatedAt == nil {
		t.Error("expected response timestamp")
	}
}

func TestHistoryService_GetHistory_Empty(t *testing.T) {
	svc := NewHistoryService(newFakeHistoryStore(), nil)

	history, err := svc.GetHistory(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d entries", len(history))
	}
}

func TestHistoryService_ClearHistory_Idempotent(t *testing.T) {
	store := newFakeHistoryStore()
	store.requests["u1"] = []model.AuditRequest{
		{ID: "r1", UserID: "u1", ServiceType: model.OperationEditing, InputText: "x", CreatedAt: time.Now()},
	}

	svc := NewHistoryService(store, nil)

	if err := svc.ClearHistory(context.Background(), "u1"); err != nil {
		t.Fatalf("ClearHistory returned error: %v", err)
	}

	history, err := svc.GetHistory(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d entries", len(history))
	}

	// Clearing again is not an error.
	if err := svc.ClearHistory(context.Background(), "u1"); err != nil {
		t.Fatalf("second ClearHistory returned error: %v", err)
	}
}
