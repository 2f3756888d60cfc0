package dto

import (
	"time"

	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

// YearQuery narrows a report to one calendar year; zero means all time.
type YearQuery struct {
	Year int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

type YearsQuery struct {
	Source string `form:"source" binding:"omitempty,oneof=posts comments users surveys"`
}

type UserStat struct {
	User         commonDto.UserSummary `json:"user"`
	Role         string                `json:"role"`
	PostCount    int64                 `json:"post_count"`
	CommentCount int64                 `json:"comment_count"`
}

type UserStatsResponse struct {
	Year          *int             `json:"year"`
	Data          []UserStat       `json:"data"`
	TotalsByRole  map[string]int64 `json:"totals_by_role"`
	TotalPosts    int64            `json:"total_posts"`
	TotalComments int64            `json:"total_comments"`
}

type PostStat struct {
	ID           uuid.UUID                `json:"id"`
	Title        string                   `json:"title"`
	User         commonDto.UserSummary    `json:"user"`
	CreatedAt    time.Time                `json:"created_at"`
	CommentCount int64                    `json:"comment_count"`
	Reactions    commonDto.ReactionCounts `json:"reactions"`
}

type PostStatsResponse struct {
	Year *int       `json:"year"`
	Data []PostStat `json:"data"`
}

type YearsResponse struct {
	Source string `json:"source"`
	Years  []int  `json:"years"`
}
