package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/textgate/textgate/internal/model"
)

// Common errors for audit store operations.
var (
	// ErrRequestNotFound means the parent request row is gone, either because
	// it never existed or because a history deletion removed it mid-flight.
	ErrRequestNotFound = errors.New("audit request not found")
	// ErrResponseNotFound means the request has no recorded response yet.
	ErrResponseNotFound = errors.New("audit response not found")
	// ErrResponseExists means a response was already recorded for the request.
	ErrResponseExists = errors.New("audit response already recorded")
)

// RecordRequest appends one row to the request log and returns its id.
// The row is committed before this returns; callers must not dispatch a
// downstream call without the returned id.
func (r *Repository) RecordRequest(ctx context.Context, userID string, kind model.OperationKind, inputText string) (string, error) {
	query := `
		INSERT INTO requests (id, user_id, service_type, input_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// ULIDs sort by creation time, so id order breaks created_at ties in
	// insertion order.
	id := ulid.Make().String()

	_, err := r.pool.Exec(ctx, query, id, userID, string(kind), inputText, time.Now().UTC())
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to record request: %w", err)
	}

	return id, nil
}

// RecordResponse appends one row to the response log, linked to requestID.
// The insert is guarded by the parent's existence so a concurrent history
// deletion can never strand an orphaned response row.
func (r *Repository) RecordResponse(ctx context.Context, requestID string, payload json.RawMessage) error {
	query := `
		INSERT INTO responses (request_id, output_json, created_at)
		SELECT $1, $2, $3
		WHERE EXISTS (SELECT 1 FROM requests WHERE id = $1)
	`

	tag, err := r.pool.Exec(ctx, query, requestID, payload, time.Now().UTC())
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrResponseExists
		}
		return fmt.Errorf("failed to record response: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// ListRequestsForUser returns every request owned by userID, most recent
// first. Creation-time ties are broken by id, which preserves insertion order.
func (r *Repository) ListRequestsForUser(ctx context.Context, userID string) ([]model.AuditRequest, error) {
	query := `
		SELECT id, user_id, service_type, input_text, created_at
		FROM requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := []model.AuditRequest{}
	for rows.Next() {
		var req model.AuditRequest
		var serviceType string
		if err := rows.Scan(&req.ID, &req.UserID, &serviceType, &req.InputText, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		req.ServiceType = model.OperationKind(serviceType)
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}

	return requests, nil
}

// GetResponseForRequest returns the response linked to requestID, or
// ErrResponseNotFound if none was recorded.
func (r *Repository) GetResponseForRequest(ctx context.Context, requestID string) (*model.AuditResponse, error) {
	query := `
		SELECT request_id, output_json, created_at
		FROM responses
		WHERE request_id = $1
	`

	var resp model.AuditResponse
	err := r.pool.QueryRow(ctx, query, requestID).Scan(
		&resp.RequestID,
		&resp.OutputJSON,
		&resp.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	return &resp, nil
}

// DeleteHistoryForUser removes all response rows belonging to the user's
// requests, then the request rows, in one transaction. Running both deletes
// transactionally keeps the logs free of orphans even when a RecordResponse
// for the same user races the deletion. Deleting history for a user with no
// requests is a no-op.
func (r *Repository) DeleteHistoryForUser(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Responses first to preserve referential integrity at every step.
	_, err = tx.Exec(ctx, `
		DELETE FROM responses
		WHERE request_id IN (SELECT id FROM requests WHERE user_id = $1)
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM requests WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete requests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}

	return nil
}
