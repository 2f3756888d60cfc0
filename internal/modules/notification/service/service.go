package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"anoa.com/alumninetwork/internal/entity"
	notifDto "anoa.com/alumninetwork/internal/modules/notification/dto"
	notifRepo "anoa.com/alumninetwork/internal/modules/notification/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	Send(ctx context.Context, senderID uuid.UUID, req notifDto.SendNotificationRequest) (*notifDto.SentNotificationResponse, error)
	Notify(ctx context.Context, senderID, recipientID uuid.UUID, title, content string) error
	Received(ctx context.Context, userID uuid.UUID, query dto.PaginationQuery) (*notifDto.PaginatedNotificationResponse, error)
	Sent(ctx context.Context, senderID uuid.UUID, query dto.PaginationQuery) (*notifDto.PaginatedSentNotificationResponse, error)
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// Channel is the redis pub/sub channel a user's websocket listens on.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

func (s *notificationService) Send(ctx context.Context, senderID uuid.UUID, req notifDto.SendNotificationRequest) (*notifDto.SentNotificationResponse, error) {
	recipients, err := parseRecipients(req.RecipientIDs)
	if err != nil {
		return nil, err
	}

	notification := &entity.Notification{
		Title:    req.Title,
		Content:  req.Content,
		SenderID: senderID,
	}
	if err := s.repo.Create(ctx, notification, recipients); err != nil {
		return nil, err
	}

	s.publish(ctx, notification, recipients)

	return &notifDto.SentNotificationResponse{
		ID:             notification.ID,
		Title:          notification.Title,
		Content:        notification.Content,
		RecipientCount: int64(len(recipients)),
		CreatedAt:      notification.CreatedAt,
	}, nil
}

func (s *notificationService) Notify(ctx context.Context, senderID, recipientID uuid.UUID, title, content string) error {
	notification := &entity.Notification{
		Title:    title,
		Content:  content,
		SenderID: senderID,
	}
	recipients := []uuid.UUID{recipientID}
	if err := s.repo.Create(ctx, notification, recipients); err != nil {
		return err
	}
	s.publish(ctx, notification, recipients)
	return nil
}

func (s *notificationService) Received(ctx context.Context, userID uuid.UUID, query dto.PaginationQuery) (*notifDto.PaginatedNotificationResponse, error) {
	offset := query.Normalize()
	rows, total, err := s.repo.Received(ctx, userID, offset, query.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]notifDto.NotificationResponse, 0, len(rows))
	for i := range rows {
		res := toResponse(&rows[i].Notification)
		res.ReadAt = rows[i].ReadAt
		data = append(data, res)
	}

	return &notifDto.PaginatedNotificationResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(query, total),
	}, nil
}

func (s *notificationService) Sent(ctx context.Context, senderID uuid.UUID, query dto.PaginationQuery) (*notifDto.PaginatedSentNotificationResponse, error) {
	offset := query.Normalize()
	rows, total, err := s.repo.Sent(ctx, senderID, offset, query.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]notifDto.SentNotificationResponse, 0, len(rows))
	for _, row := range rows {
		data = append(data, notifDto.SentNotificationResponse{
			ID:             row.ID,
			Title:          row.Title,
			Content:        row.Content,
			RecipientCount: row.RecipientCount,
			CreatedAt:      row.CreatedAt,
		})
	}

	return &notifDto.PaginatedSentNotificationResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(query, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// publish pushes the stored notification to every recipient's channel. Delivery is best
// effort; the rows are already committed.
func (s *notificationService) publish(ctx context.Context, notification *entity.Notification, recipients []uuid.UUID) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(toResponse(notification))
	if err != nil {
		log.Printf("Failed to encode notification %s: %v", notification.ID, err)
		return
	}

	pipe := s.redisClient.Pipeline()
	for _, id := range recipients {
		pipe.Publish(ctx, Channel(id), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Failed to publish notification %s: %v", notification.ID, err)
	}
}

func toResponse(n *entity.Notification) notifDto.NotificationResponse {
	res := notifDto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
	if n.Sender != nil {
		sender := dto.NewUserSummary(n.Sender)
		res.Sender = &sender
	}
	return res
}

func parseRecipients(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperror.Validation("invalid recipient id: " + r)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperror.Validation("at least one recipient is required")
	}
	return ids, nil
}
