package dto

import (
	"time"

	"github.com/yigit/taskroom/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents an email/password registration request
type RegisterRequest struct {
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,min=8"`
	DisplayName string          `json:"displayName" binding:"required,min=2,max=100"`
	Role        models.RoleType `json:"role" binding:"required,oneof=STUDENT TEACHER"`
}

// GoogleSignInRequest carries the raw Google ID token obtained by the
// client. The server verifies it against Google's signing keys before any
// account resolution happens.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LinkGoogleRequest represents a request to attach a Google identity to the
// authenticated account. The identity claims are taken from the verified
// token, never from the request body.
type LinkGoogleRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes the given refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=100"`
	PhotoURL    string `json:"photoUrl"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	PhotoURL     string     `json:"photoUrl,omitempty"`
	Role         string     `json:"role"`
	GoogleLinked bool       `json:"googleLinked"`
	GoogleEmail  string     `json:"googleEmail,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse maps a user model onto the wire representation
func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		GoogleLinked: user.GoogleLinked,
		CreatedAt:    user.CreatedAt,
		LastLoginAt:  user.LastLoginAt,
	}
	if user.PhotoURL != nil {
		resp.PhotoURL = *user.PhotoURL
	}
	if user.GoogleEmail != nil {
		resp.GoogleEmail = *user.GoogleEmail
	}
	return resp
}
