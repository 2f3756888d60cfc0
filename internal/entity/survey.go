package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical bodies of the two binary choices.
const (
	ChoiceYes = "Yes"
	ChoiceNo  = "No"
)

type Survey struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (s *Survey) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	Survey    *Survey   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID, err = uuid.NewV7()
	}
	return
}

type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content    string    `gorm:"size:255;not null" json:"content"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
}

func (c *Choice) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// DefaultChoices returns the affirmative/negative pair seeded into a question without choices.
func DefaultChoices(questionID uuid.UUID) []Choice {
	return []Choice{
		{QuestionID: questionID, Content: ChoiceYes},
		{QuestionID: questionID, Content: ChoiceNo},
	}
}

func IsBinaryChoice(content string) bool {
	return content == ChoiceYes || content == ChoiceNo
}

// Answer is unique per (user, question).
type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	Survey     *Survey   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_user_question,priority:1" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_user_question,priority:2" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ChoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"choice_id"`
	Choice     *Choice   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// SurveyStat is an append-only snapshot marker for a survey.
type SurveyStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SurveyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	Survey    *Survey   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
