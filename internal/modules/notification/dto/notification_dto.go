package dto

import (
	"time"

	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type SendNotificationRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Content      string   `json:"content" binding:"required"`
	RecipientIDs []string `json:"recipient_ids" binding:"required,min=1,dive,uuid"`
}

type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Sender    *commonDto.UserSummary `json:"sender,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SentNotificationResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RecipientCount int64     `json:"recipient_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type PaginatedNotificationResponse struct {
	Data []NotificationResponse   `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type PaginatedSentNotificationResponse struct {
	Data []SentNotificationResponse `json:"data"`
	Meta commonDto.PaginationMeta   `json:"meta"`
}
