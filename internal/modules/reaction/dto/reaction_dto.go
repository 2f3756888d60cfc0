package dto

import (
	"time"

	"anoa.com/alumninetwork/internal/entity"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type ReactionRequest struct {
	Type entity.ReactionType `json:"type" binding:"required,enum"`
}

type ReactionResponse struct {
	ID        uuid.UUID             `json:"id"`
	PostID    uuid.UUID             `json:"post_id"`
	Type      entity.ReactionType   `json:"type"`
	TypeName  string                `json:"type_name"`
	User      commonDto.UserSummary `json:"user"`
	CreatedAt time.Time             `json:"created_at"`
}

func NewReactionResponse(r *entity.Reaction) ReactionResponse {
	return ReactionResponse{
		ID:        r.ID,
		PostID:    r.PostID,
		Type:      r.Type,
		TypeName:  r.Type.String(),
		User:      commonDto.NewUserSummary(&r.User),
		CreatedAt: r.CreatedAt,
	}
}

type PostReactionsResponse struct {
	Data         []ReactionResponse       `json:"data"`
	Counts       commonDto.ReactionCounts `json:"counts"`
	UserReaction *entity.ReactionType     `json:"user_reaction"`
}
