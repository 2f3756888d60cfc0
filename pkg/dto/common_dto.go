package dto

import (
	"io"

	"anoa.com/alumninetwork/internal/entity"
	"github.com/google/uuid"
)

// UserSummary is the reduced user projection embedded in nested reads.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
}

func NewUserSummary(u *entity.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

type PaginationQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize fills defaults and returns the row offset.
func (q *PaginationQuery) Normalize() int {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	return (q.Page - 1) * q.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(q PaginationQuery, total int64) PaginationMeta {
	totalPages := int(total) / q.Limit
	if int(total)%q.Limit != 0 {
		totalPages++
	}
	return PaginationMeta{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       q.Limit,
	}
}

// ReactionCounts maps reaction type names to their counts.
type ReactionCounts map[string]int64

// AvatarFile is an uploaded image waiting to be pushed to media storage.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}
