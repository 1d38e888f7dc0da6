package dto

import "github.com/textgate/textgate/internal/model"

// HistoryResponse is the body of GET /users/history.
type HistoryResponse struct {
	UserID  string               `json:"user_id"`
	History []model.HistoryEntry `json:"history"`
}

// ClearHistoryRequest is the body of DELETE /users/history.
type ClearHistoryRequest struct {
	UserID string `json:"user_id"`
}

// MessageResponse is a simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
