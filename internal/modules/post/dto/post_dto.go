package dto

import (
	"time"

	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required,max=20000"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content *string `json:"content" binding:"omitempty,min=1,max=20000"`
}

type CommentLockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

type PostFilter struct {
	commonDto.PaginationQuery
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
}

type PostResponse struct {
	ID             uuid.UUID                `json:"id"`
	Title          string                   `json:"title"`
	Content        string                   `json:"content"`
	CommentsLocked bool                     `json:"comments_locked"`
	User           commonDto.UserSummary    `json:"user"`
	CommentCount   int64                    `json:"comment_count"`
	Reactions      commonDto.ReactionCounts `json:"reactions"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type PaginatedPostResponse struct {
	Data []PostResponse          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
