// Package dto defines request/response payloads for the HTTP API.
package dto

import "github.com/textgate/textgate/internal/model"

// ErrorResponse is the body of every error reply: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user. The password hash never
// appears here.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserResponse converts a model.User to its public representation.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
