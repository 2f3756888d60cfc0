package dto

import (
	"time"

	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

type CreateSurveyRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateSurveyRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

type SurveyFilter struct {
	commonDto.PaginationQuery
	Active *bool `form:"active"`
}

type SurveyResponse struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	IsActive    bool                  `json:"is_active"`
	User        commonDto.UserSummary `json:"user"`
	CreatedAt   time.Time             `json:"created_at"`
	Questions   []QuestionSummary     `json:"questions"`
}

type PaginatedSurveyResponse struct {
	Data []SurveyResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type ChoiceInput struct {
	Content   string `json:"content" binding:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionRequest creates a question; without choices it gets the Yes/No pair.
type QuestionRequest struct {
	Content string        `json:"content" binding:"required,max=255"`
	Choices []ChoiceInput `json:"choices" binding:"omitempty,dive"`
}

type UpdateQuestionRequest struct {
	Content string `json:"content" binding:"required,max=255"`
}

type UpdateChoiceRequest struct {
	Content   *string `json:"content" binding:"omitempty,min=1,max=255"`
	IsCorrect *bool   `json:"is_correct"`
}

type QuestionSummary struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestionResponse struct {
	ID        uuid.UUID        `json:"id"`
	SurveyID  uuid.UUID        `json:"survey_id"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
	Choices   []ChoiceResponse `json:"choices"`
}

type ChoiceResponse struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Content    string    `json:"content"`
	IsCorrect  bool      `json:"is_correct"`
}

type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	ChoiceID   string `json:"choice_id" binding:"required,uuid"`
}

type AnswerResponse struct {
	ID         uuid.UUID `json:"id"`
	SurveyID   uuid.UUID `json:"survey_id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type SnapshotResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChoiceStat struct {
	ChoiceID uuid.UUID `json:"choice_id"`
	Content  string    `json:"content"`
	Count    int64     `json:"count"`
}

type QuestionStat struct {
	QuestionID   uuid.UUID    `json:"question_id"`
	Content      string       `json:"content"`
	TotalAnswers int64        `json:"total_answers"`
	Choices      []ChoiceStat `json:"choices"`
}

type SurveyStatsResponse struct {
	SurveyID    uuid.UUID          `json:"survey_id"`
	Respondents int64              `json:"respondents"`
	Snapshots   []SnapshotResponse `json:"snapshots"`
	Questions   []QuestionStat     `json:"questions"`
}
