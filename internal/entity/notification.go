package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an event announcement from one sender to a set of recipients.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender    *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

// NotificationRecipient links a notification to one receiver and tracks their read state.
type NotificationRecipient struct {
	NotificationID uuid.UUID     `gorm:"type:uuid;primaryKey" json:"notification_id"`
	Notification   *Notification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID         uuid.UUID     `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReadAt         *time.Time    `json:"read_at"`
}
