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

// Role is stored as a small integer; the wire accepts either the integer or its name.
type Role uint8

const (
	RoleAdmin    Role = 1
	RoleLecturer Role = 2
	RoleAlumnus  Role = 3
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleLecturer: "lecturer",
	RoleAlumnus:  "alumnus",
}

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole accepts "1".."3" or a role name (case-insensitive).
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		r := Role(n)
		if r.IsValid() {
			return r, nil
		}
		return 0, fmt.Errorf("unknown role %d", n)
	}
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint8(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRole(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalParam lets gin bind roles from form and query values.
func (r *Role) UnmarshalParam(param string) error {
	parsed, err := ParseRole(param)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	Phone        string    `gorm:"size:10" json:"phone"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Role         Role      `gorm:"not null;index" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate decides activation once: alumni wait for approval, everyone else starts active.
// Updates never run this again, so only an explicit approval can flip IsActive afterwards.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.IsActive = u.Role != RoleAlumnus
	return nil
}

// UserInteraction is a directed edge "UserID interacts with TargetID".
type UserInteraction struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TargetID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"target_id"`
	Target    User      `gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
