package dto

import (
	"time"

	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type CommentResponse struct {
	ID        uuid.UUID             `json:"id"`
	PostID    uuid.UUID             `json:"post_id"`
	Content   string                `json:"content"`
	User      commonDto.UserSummary `json:"user"`
	CreatedAt time.Time             `json:"created_at"`
}

type PaginatedCommentResponse struct {
	Data []CommentResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
