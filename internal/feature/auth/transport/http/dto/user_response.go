package dto

import (
	"time"

	"drive_backend/internal/feature/auth/domain/entity"
)

// UserResponse is the public view of a user. It never carries the password hash.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	ProfileType *string   `json:"profileType,omitempty"`
	SocialID    *string   `json:"socialId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// NewUserResponse converts an entity.User to its public representation.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		ProfileType: u.ProfileType,
		SocialID:    u.SocialID,
		CreatedAt:   u.CreatedAt,
	}
}
