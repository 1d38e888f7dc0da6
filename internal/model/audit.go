package model

import (
	"encoding/json"
	"time"
)

// AuditRequest is one row of the request log: a single gateway invocation,
// written before the downstream call is dispatched. Rows are immutable and
// only ever removed by a bulk history deletion for their owning user.
type AuditRequest struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	ServiceType OperationKind `json:"service_type"`
	InputText   string        `json:"input_text"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AuditResponse is one row of the response log. A request has at most one
// response; the payload is either the downstream success body or an
// error-shaped object {"error": "..."}.
type AuditResponse struct {
	RequestID  string          `json:"request_id"`
	OutputJSON json.RawMessage `json:"output_json"`
	CreatedAt  time.Time       `json:"created_at"`
}

// HistoryEntry joins one AuditRequest with its AuditResponse, if any.
// Response and ResponseCreatedAt are nil for in-flight or lost responses.
type HistoryEntry struct {
	RequestID         string          `json:"request_id"`
	ServiceType       OperationKind   `json:"service_type"`
	InputText         string          `json:"input_text"`
	RequestCreatedAt  time.Time       `json:"request_created_at"`
	Response          json.RawMessage `json:"response"`
	ResponseCreatedAt *time.Time      `json:"response_created_at"`
}
