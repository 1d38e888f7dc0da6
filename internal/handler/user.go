package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/textgate/textgate/internal/handler/dto"
	"github.com/textgate/textgate/internal/service"
)

// UserHandler handles registration and login.
type UserHandler struct {
	svc    *service.IdentityService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.IdentityService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, service.ErrEmailTaken):
			h.logger.Warn("registration rejected", "email", req.Email, "reason", "email taken")
			writeError(w, http.StatusBadRequest, "email is already registered")
		default:
			h.logger.Error("registration failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("login rejected", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
