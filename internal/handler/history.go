package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/textgate/textgate/internal/handler/dto"
	"github.com/textgate/textgate/internal/service"
)

// HistoryHandler serves the per-user transcript endpoints.
type HistoryHandler struct {
	svc    *service.HistoryService
	logger *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *service.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, logger: logger}
}

// Get handles GET /users/history?user_id=<id>.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing parameter user_id")
		return
	}

	history, err := h.svc.GetHistory(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get history", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		UserID:  userID,
		History: history,
	})
}

// Clear handles DELETE /users/history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req dto.ClearHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing parameter user_id")
		return
	}

	if err := h.svc.ClearHistory(r.Context(), req.UserID); err != nil {
		h.logger.Error("failed to clear history", "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	h.logger.Info("history_cleared", "user_id", req.UserID)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "history cleared"})
}
