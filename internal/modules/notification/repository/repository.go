package repository

import (
	"context"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgRecipientNotFound    = "recipient not found"
	msgNotificationNotFound = "notification not found"
)

// Received is a notification as seen by one recipient.
type Received struct {
	entity.Notification
	ReadAt *time.Time
}

// Sent is a notification with the size of its audience.
type Sent struct {
	entity.Notification
	RecipientCount int64
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification, recipientIDs []uuid.UUID) error
	Received(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Received, int64, error)
	Sent(ctx context.Context, senderID uuid.UUID, offset, limit int) ([]Sent, int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores the notification and its recipient rows together; every recipient must
// exist.
func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification, recipientIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&entity.User{}).Where("id IN ?", recipientIDs).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(recipientIDs)) {
			return apperror.NotFound(msgRecipientNotFound)
		}

		if err := tx.Omit(clause.Associations).Create(notification).Error; err != nil {
			return err
		}

		rows := make([]entity.NotificationRecipient, 0, len(recipientIDs))
		for _, id := range recipientIDs {
			rows = append(rows, entity.NotificationRecipient{NotificationID: notification.ID, UserID: id})
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	return apperror.FromDB(err, msgRecipientNotFound, "")
}

func (r *notificationRepository) Received(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Received, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.NotificationRecipient{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []entity.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Joins("JOIN notification_recipients ON notification_recipients.notification_id = notifications.id").
		Where("notification_recipients.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	var recipients []entity.NotificationRecipient
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).
			Where("user_id = ? AND notification_id IN ?", userID, ids).
			Find(&recipients).Error; err != nil {
			return nil, 0, err
		}
	}
	readAt := make(map[uuid.UUID]*time.Time, len(recipients))
	for _, rec := range recipients {
		readAt[rec.NotificationID] = rec.ReadAt
	}

	out := make([]Received, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, Received{Notification: n, ReadAt: readAt[n.ID]})
	}
	return out, total, nil
}

func (r *notificationRepository) Sent(ctx context.Context, senderID uuid.UUID, offset, limit int) ([]Sent, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("sender_id = ?", senderID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []entity.Notification
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	type countRow struct {
		NotificationID uuid.UUID
		Count          int64
	}
	var rows []countRow
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&entity.NotificationRecipient{}).
			Select("notification_id, count(*) as count").
			Where("notification_id IN ?", ids).
			Group("notification_id").
			Scan(&rows).Error; err != nil {
			return nil, 0, err
		}
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.NotificationID] = row.Count
	}

	out := make([]Sent, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, Sent{Notification: n, RecipientCount: counts[n.ID]})
	}
	return out, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entity.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", time.Now()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgNotificationNotFound)
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.NotificationRecipient{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.NotificationRecipient{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
