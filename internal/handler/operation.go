package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/textgate/textgate/internal/downstream"
	"github.com/textgate/textgate/internal/handler/dto"
	"github.com/textgate/textgate/internal/model"
	"github.com/textgate/textgate/internal/service"
)

// OperationHandler serves the five text-processing endpoints. One handler
// covers all operation kinds; the route parameter selects which.
type OperationHandler struct {
	svc    *service.GatewayService
	logger *slog.Logger
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(svc *service.GatewayService, logger *slog.Logger) *OperationHandler {
	return &OperationHandler{svc: svc, logger: logger}
}

// Process handles POST /microservices/{operation}.
func (h *OperationHandler) Process(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseOperationKind(chi.URLParam(r, "operation"))
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	var req dto.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Process(r.Context(), kind, service.ProcessInput{
		UserID:     req.UserID,
		Text:       req.Text,
		TargetLang: req.TargetLang,
		Count:      req.Count,
		Style:      req.Style,
	})
	if err != nil {
		h.handleProcessError(w, kind, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleProcessError maps gateway errors to HTTP responses. The raw
// downstream error text never reaches the caller.
func (h *OperationHandler) handleProcessError(w http.ResponseWriter, kind model.OperationKind, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrUnknownUser):
		writeError(w, http.StatusBadRequest, "unknown user")
	case errors.Is(err, service.ErrAuditUnavailable):
		writeError(w, http.StatusInternalServerError, "failed to record the request")
	case errors.Is(err, downstream.ErrUnavailable), errors.Is(err, downstream.ErrDownstream):
		writeError(w, http.StatusBadGateway, fmt.Sprintf("error calling the %s service", kind))
	default:
		h.logger.Error("internal_error", "operation", kind.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
