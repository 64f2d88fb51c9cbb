package model

import (
	"github.com/google/uuid"
)

type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse bundles the tokens with the role so clients can route to
// the right dashboard without a second lookup.
type LoginResponse struct {
	TokenResponse
	Role      Role      `json:"role"`
	ProfileID uuid.UUID `json:"profile_id"`
}
