package api

import "github.com/google/uuid"

// Request DTOs

type SignupRequest struct {
	Username     string     `json:"username" validate:"required,max=64"`
	Password     string     `json:"password" validate:"required,min=1,max=72"` // bcrypt limit
	LineUserUUID *uuid.UUID `json:"line_user_uuid,omitempty"`
}

type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

type UpdateDisplayNameRequest struct {
	NewDisplayName string `json:"new_display_name" validate:"required,max=64"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreatedResponse accompanies every 201 that also sets a Location header.
type CreatedResponse struct {
	Location string `json:"location"`
}
