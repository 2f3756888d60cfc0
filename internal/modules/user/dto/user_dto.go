package dto

import (
	"time"

	"anoa.com/alumninetwork/internal/entity"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

// CreateUserInput is bound from JSON or multipart (the avatar travels as a form file).
type CreateUserInput struct {
	Username     string      `json:"username" form:"username" binding:"required,min=3,max=150"`
	Email        string      `json:"email" form:"email" binding:"required,email,max=254"`
	Password     string      `json:"password" form:"password" binding:"required,min=8"`
	FirstName    string      `json:"first_name" form:"first_name" binding:"max=150"`
	LastName     string      `json:"last_name" form:"last_name" binding:"max=150"`
	Phone        string      `json:"phone" form:"phone" binding:"omitempty,phone"`
	Role         entity.Role `json:"role" form:"role" binding:"required,enum"`
	Interactions []string    `json:"interactions" form:"interactions" binding:"omitempty,dive,uuid"`
}

type UpdateProfileInput struct {
	Email     *string `json:"email" form:"email" binding:"omitempty,email,max=254"`
	Password  *string `json:"password" form:"password" binding:"omitempty,min=8"`
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Phone     *string `json:"phone" form:"phone" binding:"omitempty,phone"`
}

type ReplaceInteractionsInput struct {
	Interactions []string `json:"interactions" binding:"omitempty,dive,uuid"`
}

// LoginInput accepts either the username or the email as identifier.
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Phone        string      `json:"phone"`
	AvatarURL    *string     `json:"avatar_url"`
	Role         entity.Role `json:"role"`
	RoleName     string      `json:"role_name"`
	IsActive     bool        `json:"is_active"`
	Interactions []uuid.UUID `json:"interactions"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewUserResponse(u *entity.User, interactions []uuid.UUID) UserResponse {
	if interactions == nil {
		interactions = []uuid.UUID{}
	}
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		Role:         u.Role,
		RoleName:     u.Role.String(),
		IsActive:     u.IsActive,
		Interactions: interactions,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
	SearchToken string       `json:"search_token,omitempty"`
}

type PaginatedUserResponse struct {
	Data []UserResponse          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
