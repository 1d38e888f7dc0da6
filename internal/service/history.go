package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/textgate/textgate/internal/metrics"
	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/repository"
)

// HistoryStore is the read/delete surface of the audit trail the history
// service depends on.
type HistoryStore interface {
	ListRequestsForUser(ctx context.Context, userID string) ([]model.AuditRequest, error)
	GetResponseForRequest(ctx context.Context, requestID string) (*model.AuditResponse, error)
	DeleteHistoryForUser(ctx context.Context, userID string) error
}

// HistoryService reconstructs and deletes per-user transcripts from the
// audit trail.
type HistoryService struct {
	store   HistoryStore
	metrics metrics.Recorder
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store HistoryStore, recorder metrics.Recorder) *HistoryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &HistoryService{store: store, metrics: recorder}
}

// GetHistory returns the user's transcript, most recent request first.
// Each entry carries the request's response when one was recorded; an
// in-flight or lost response shows as nil response and timestamp.
func (s *HistoryService) GetHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	requests, err := s.store.ListRequestsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	history := make([]model.HistoryEntry, 0, len(requests))
	for _, req := range requests {
		entry := model.HistoryEntry{
			RequestID:        req.ID,
			ServiceType:      req.ServiceType,
			InputText:        req.InputText,
			RequestCreatedAt: req.CreatedAt,
		}

		resp, err := s.store.GetResponseForRequest(ctx, req.ID)
		switch {
		case err == nil:
			entry.Response = resp.OutputJSON
			createdAt := resp.CreatedAt
			entry.ResponseCreatedAt = &createdAt
		case errors.Is(err, repository.ErrResponseNotFound):
			// No response yet: the call is in flight or its outcome was lost.
		default:
			return nil, fmt.Errorf("get response for request %s: %w", req.ID, err)
		}

		history = append(history, entry)
	}

	s.metrics.IncHistoryFetched()
	return history, nil
}

// ClearHistory removes the user's entire transcript. Clearing a user with
// no history succeeds; the operation is idempotent.
func (s *HistoryService) ClearHistory(ctx context.Context, userID string) error {
	if err := s.store.DeleteHistoryForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	s.metrics.IncHistoryCleared()
	return nil
}
