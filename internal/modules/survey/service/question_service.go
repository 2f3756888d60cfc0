package service

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	surveyDto "anoa.com/alumninetwork/internal/modules/survey/dto"
	"github.com/google/uuid"
)

func (s *surveyService) CreateQuestion(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.QuestionRequest) (*surveyDto.QuestionResponse, error) {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, survey, "you can only add questions to your own survey"); err != nil {
		return nil, err
	}

	question := &entity.Question{
		SurveyID: surveyID,
		Content:  req.Content,
	}
	choices := make([]entity.Choice, 0, len(req.Choices))
	for _, c := range req.Choices {
		choices = append(choices, entity.Choice{Content: c.Content, IsCorrect: c.IsCorrect})
	}

	if err := s.repo.CreateQuestion(ctx, question, choices); err != nil {
		return nil, err
	}

	return s.questionResponse(ctx, question)
}

func (s *surveyService) GetQuestion(ctx context.Context, questionID uuid.UUID) (*surveyDto.QuestionResponse, error) {
	question, err := s.repo.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.questionResponse(ctx, question)
}

func (s *surveyService) UpdateQuestion(ctx context.Context, userID, questionID uuid.UUID, req surveyDto.UpdateQuestionRequest) (*surveyDto.QuestionResponse, error) {
	question, err := s.repo.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeQuestion(ctx, userID, question); err != nil {
		return nil, err
	}

	question.Content = req.Content
	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}

	return s.questionResponse(ctx, question)
}

func (s *surveyService) DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error {
	question, err := s.repo.FindQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if err := s.authorizeQuestion(ctx, userID, question); err != nil {
		return err
	}
	return s.repo.DeleteQuestion(ctx, questionID)
}

func (s *surveyService) CreateChoice(ctx context.Context, userID, questionID uuid.UUID, req surveyDto.ChoiceInput) (*surveyDto.ChoiceResponse, error) {
	question, err := s.repo.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeQuestion(ctx, userID, question); err != nil {
		return nil, err
	}

	choice := &entity.Choice{
		QuestionID: questionID,
		Content:    req.Content,
		IsCorrect:  req.IsCorrect,
	}
	if err := s.repo.CreateChoice(ctx, choice); err != nil {
		return nil, err
	}

	res := toChoiceResponse(choice)
	return &res, nil
}

func (s *surveyService) UpdateChoice(ctx context.Context, userID, choiceID uuid.UUID, req surveyDto.UpdateChoiceRequest) (*surveyDto.ChoiceResponse, error) {
	choice, question, err := s.loadChoice(ctx, choiceID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeQuestion(ctx, userID, question); err != nil {
		return nil, err
	}

	if req.Content != nil {
		choice.Content = *req.Content
	}
	if req.IsCorrect != nil {
		choice.IsCorrect = *req.IsCorrect
	}
	if err := s.repo.UpdateChoice(ctx, choice); err != nil {
		return nil, err
	}

	res := toChoiceResponse(choice)
	return &res, nil
}

func (s *surveyService) DeleteChoice(ctx context.Context, userID, choiceID uuid.UUID) error {
	_, question, err := s.loadChoice(ctx, choiceID)
	if err != nil {
		return err
	}
	if err := s.authorizeQuestion(ctx, userID, question); err != nil {
		return err
	}
	return s.repo.DeleteChoice(ctx, choiceID)
}

func (s *surveyService) loadChoice(ctx context.Context, choiceID uuid.UUID) (*entity.Choice, *entity.Question, error) {
	choice, err := s.repo.FindChoice(ctx, choiceID)
	if err != nil {
		return nil, nil, err
	}
	question, err := s.repo.FindQuestion(ctx, choice.QuestionID)
	if err != nil {
		return nil, nil, err
	}
	return choice, question, nil
}

func (s *surveyService) questionResponse(ctx context.Context, question *entity.Question) (*surveyDto.QuestionResponse, error) {
	choices, err := s.repo.Choices(ctx, question.ID)
	if err != nil {
		return nil, err
	}

	res := &surveyDto.QuestionResponse{
		ID:        question.ID,
		SurveyID:  question.SurveyID,
		Content:   question.Content,
		CreatedAt: question.CreatedAt,
		Choices:   make([]surveyDto.ChoiceResponse, 0, len(choices)),
	}
	for i := range choices {
		res.Choices = append(res.Choices, toChoiceResponse(&choices[i]))
	}
	return res, nil
}

func toChoiceResponse(c *entity.Choice) surveyDto.ChoiceResponse {
	return surveyDto.ChoiceResponse{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		Content:    c.Content,
		IsCorrect:  c.IsCorrect,
	}
}
