package service

import (
	"context"
	"log"

	"anoa.com/alumninetwork/internal/entity"
	surveyDto "anoa.com/alumninetwork/internal/modules/survey/dto"
	surveyRepo "anoa.com/alumninetwork/internal/modules/survey/repository"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
)

// SurveyIndexer keeps the search index in step with survey writes.
type SurveyIndexer interface {
	IndexSurvey(survey *entity.Survey) error
	DeleteSurvey(id string) error
}

type SurveyService interface {
	Create(ctx context.Context, userID uuid.UUID, req surveyDto.CreateSurveyRequest) (*surveyDto.SurveyResponse, error)
	List(ctx context.Context, filter surveyDto.SurveyFilter) (*surveyDto.PaginatedSurveyResponse, error)
	GetByID(ctx context.Context, surveyID uuid.UUID) (*surveyDto.SurveyResponse, error)
	Update(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.UpdateSurveyRequest) (*surveyDto.SurveyResponse, error)
	Delete(ctx context.Context, userID, surveyID uuid.UUID) error

	CreateQuestion(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.QuestionRequest) (*surveyDto.QuestionResponse, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*surveyDto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, userID, questionID uuid.UUID, req surveyDto.UpdateQuestionRequest) (*surveyDto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error

	CreateChoice(ctx context.Context, userID, questionID uuid.UUID, req surveyDto.ChoiceInput) (*surveyDto.ChoiceResponse, error)
	UpdateChoice(ctx context.Context, userID, choiceID uuid.UUID, req surveyDto.UpdateChoiceRequest) (*surveyDto.ChoiceResponse, error)
	DeleteChoice(ctx context.Context, userID, choiceID uuid.UUID) error

	Answer(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.AnswerRequest) (*surveyDto.AnswerResponse, error)
	MyAnswers(ctx context.Context, userID, surveyID uuid.UUID) ([]surveyDto.AnswerResponse, error)

	TakeSnapshot(ctx context.Context, userID, surveyID uuid.UUID) (*surveyDto.SnapshotResponse, error)
	Stats(ctx context.Context, userID, surveyID uuid.UUID) (*surveyDto.SurveyStatsResponse, error)
}

type surveyService struct {
	repo     surveyRepo.SurveyRepository
	userRepo userRepo.UserRepository
	indexer  SurveyIndexer
}

// NewSurveyService builds the service; indexer may be nil when search is not configured.
func NewSurveyService(repo surveyRepo.SurveyRepository, userRepo userRepo.UserRepository, indexer SurveyIndexer) SurveyService {
	return &surveyService{
		repo:     repo,
		userRepo: userRepo,
		indexer:  indexer,
	}
}

func (s *surveyService) Create(ctx context.Context, userID uuid.UUID, req surveyDto.CreateSurveyRequest) (*surveyDto.SurveyResponse, error) {
	survey := &entity.Survey{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	s.index(stored)

	res := toSurveyResponse(stored, nil)
	return &res, nil
}

func (s *surveyService) List(ctx context.Context, filter surveyDto.SurveyFilter) (*surveyDto.PaginatedSurveyResponse, error) {
	offset := filter.Normalize()
	surveys, total, err := s.repo.FindAll(ctx, filter.Active, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(surveys))
	for _, sv := range surveys {
		ids = append(ids, sv.ID)
	}
	questions, err := s.repo.QuestionsBySurveys(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := make([]surveyDto.SurveyResponse, 0, len(surveys))
	for i := range surveys {
		data = append(data, toSurveyResponse(&surveys[i], questions[surveys[i].ID]))
	}

	return &surveyDto.PaginatedSurveyResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(filter.PaginationQuery, total),
	}, nil
}

// GetByID embeds the survey's questions but not their choices; those come from the
// question endpoint. Every survey read shape carries the questions key.
func (s *surveyService) GetByID(ctx context.Context, surveyID uuid.UUID) (*surveyDto.SurveyResponse, error) {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.Questions(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	res := toSurveyResponse(survey, questions)
	return &res, nil
}

func (s *surveyService) Update(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.UpdateSurveyRequest) (*surveyDto.SurveyResponse, error) {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, survey, "you can only edit your own survey"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, survey); err != nil {
		return nil, err
	}
	s.index(survey)

	questions, err := s.repo.Questions(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	res := toSurveyResponse(survey, questions)
	return &res, nil
}

func (s *surveyService) Delete(ctx context.Context, userID, surveyID uuid.UUID) error {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, survey, "you can only delete your own survey unless you are an admin"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, surveyID); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteSurvey(surveyID.String()); err != nil {
			log.Printf("Failed to remove survey %s from search index: %v", surveyID, err)
		}
	}
	return nil
}

// authorize lets the survey's creator or any admin through.
func (s *surveyService) authorize(ctx context.Context, userID uuid.UUID, survey *entity.Survey, message string) error {
	if survey.UserID == userID {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != entity.RoleAdmin {
		return apperror.Forbidden(message)
	}
	return nil
}

// authorizeQuestion loads the question's survey and applies authorize to it.
func (s *surveyService) authorizeQuestion(ctx context.Context, userID uuid.UUID, question *entity.Question) error {
	survey, err := s.repo.FindByID(ctx, question.SurveyID)
	if err != nil {
		return err
	}
	return s.authorize(ctx, userID, survey, "you can only change questions of your own survey")
}

func (s *surveyService) index(survey *entity.Survey) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexSurvey(survey); err != nil {
		log.Printf("Failed to index survey %s: %v", survey.ID, err)
	}
}

func toSurveyResponse(survey *entity.Survey, questions []entity.Question) surveyDto.SurveyResponse {
	res := surveyDto.SurveyResponse{
		ID:          survey.ID,
		Title:       survey.Title,
		Description: survey.Description,
		IsActive:    survey.IsActive,
		User:        dto.NewUserSummary(survey.User),
		CreatedAt:   survey.CreatedAt,
		Questions:   make([]surveyDto.QuestionSummary, 0, len(questions)),
	}
	for _, q := range questions {
		res.Questions = append(res.Questions, surveyDto.QuestionSummary{
			ID:        q.ID,
			Content:   q.Content,
			CreatedAt: q.CreatedAt,
		})
	}
	return res
}
