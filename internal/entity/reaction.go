package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionType uint8

const (
	ReactionLike ReactionType = 1
	ReactionHaha ReactionType = 2
	ReactionLove ReactionType = 3
)

var reactionNames = map[ReactionType]string{
	ReactionLike: "like",
	ReactionHaha: "haha",
	ReactionLove: "love",
}

// ReactionTypes lists every variant in wire order.
func ReactionTypes() []ReactionType {
	return []ReactionType{ReactionLike, ReactionHaha, ReactionLove}
}

func (t ReactionType) IsValid() bool {
	_, ok := reactionNames[t]
	return ok
}

func (t ReactionType) String() string {
	if name, ok := reactionNames[t]; ok {
		return name
	}
	return "unknown"
}

func ParseReactionType(s string) (ReactionType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := ReactionType(n)
		if t.IsValid() {
			return t, nil
		}
		return 0, fmt.Errorf("unknown reaction type %d", n)
	}
	for t, name := range reactionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown reaction type %q", s)
}

func (t ReactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint8(t))
}

func (t *ReactionType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseReactionType(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Reaction is unique per (post, user); the index is the authoritative guard against races.
type Reaction struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user,priority:1" json:"post_id"`
	Post      Post         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user,priority:2;index" json:"user_id"`
	User      User         `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Type      ReactionType `gorm:"not null" json:"type"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
