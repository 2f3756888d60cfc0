package service

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	surveyDto "anoa.com/alumninetwork/internal/modules/survey/dto"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
)

// Answer resolves every reference first, then checks the answer against what was loaded:
// the question must sit in this survey, the survey must be open and the choice must be a
// Yes/No choice of that question. The unique index settles duplicates.
func (s *surveyService) Answer(ctx context.Context, userID, surveyID uuid.UUID, req surveyDto.AnswerRequest) (*surveyDto.AnswerResponse, error) {
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return nil, apperror.Validation("invalid question_id")
	}
	choiceID, err := uuid.Parse(req.ChoiceID)
	if err != nil {
		return nil, apperror.Validation("invalid choice_id")
	}

	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	question, err := s.repo.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	choice, err := s.repo.FindChoice(ctx, choiceID)
	if err != nil {
		return nil, err
	}

	if question.SurveyID != survey.ID {
		return nil, apperror.Validation(entity.ErrQuestionNotInSurvey.Error())
	}
	if !survey.IsActive {
		return nil, apperror.Validation(entity.ErrSurveyClosed.Error())
	}
	if err := entity.CheckAnswer(question, choice); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	answer := &entity.Answer{
		SurveyID:   surveyID,
		UserID:     userID,
		QuestionID: questionID,
		ChoiceID:   choiceID,
	}
	if err := s.repo.CreateAnswer(ctx, answer); err != nil {
		return nil, err
	}

	res := toAnswerResponse(answer)
	return &res, nil
}

func (s *surveyService) MyAnswers(ctx context.Context, userID, surveyID uuid.UUID) ([]surveyDto.AnswerResponse, error) {
	if _, err := s.repo.FindByID(ctx, surveyID); err != nil {
		return nil, err
	}

	answers, err := s.repo.AnswersByUser(ctx, surveyID, userID)
	if err != nil {
		return nil, err
	}

	res := make([]surveyDto.AnswerResponse, 0, len(answers))
	for i := range answers {
		res = append(res, toAnswerResponse(&answers[i]))
	}
	return res, nil
}

func (s *surveyService) TakeSnapshot(ctx context.Context, userID, surveyID uuid.UUID) (*surveyDto.SnapshotResponse, error) {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, survey, "you can only record stats for your own survey"); err != nil {
		return nil, err
	}

	stat := &entity.SurveyStat{SurveyID: surveyID}
	if err := s.repo.CreateSnapshot(ctx, stat); err != nil {
		return nil, err
	}

	return &surveyDto.SnapshotResponse{ID: stat.ID, CreatedAt: stat.CreatedAt}, nil
}

// Stats returns the recorded snapshots together with live per-choice answer counts.
func (s *surveyService) Stats(ctx context.Context, userID, surveyID uuid.UUID) (*surveyDto.SurveyStatsResponse, error) {
	survey, err := s.repo.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, survey, "you can only view stats of your own survey"); err != nil {
		return nil, err
	}

	snapshots, err := s.repo.Snapshots(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.Questions(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	choices, err := s.repo.ChoicesBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.ChoiceCounts(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	respondents, err := s.repo.CountRespondents(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uuid.UUID][]entity.Choice, len(questions))
	for _, c := range choices {
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}

	res := &surveyDto.SurveyStatsResponse{
		SurveyID:    surveyID,
		Respondents: respondents,
		Snapshots:   make([]surveyDto.SnapshotResponse, 0, len(snapshots)),
		Questions:   make([]surveyDto.QuestionStat, 0, len(questions)),
	}
	for _, snap := range snapshots {
		res.Snapshots = append(res.Snapshots, surveyDto.SnapshotResponse{ID: snap.ID, CreatedAt: snap.CreatedAt})
	}
	for _, q := range questions {
		stat := surveyDto.QuestionStat{
			QuestionID: q.ID,
			Content:    q.Content,
			Choices:    make([]surveyDto.ChoiceStat, 0, len(byQuestion[q.ID])),
		}
		for _, c := range byQuestion[q.ID] {
			stat.Choices = append(stat.Choices, surveyDto.ChoiceStat{
				ChoiceID: c.ID,
				Content:  c.Content,
				Count:    counts[c.ID],
			})
			stat.TotalAnswers += counts[c.ID]
		}
		res.Questions = append(res.Questions, stat)
	}

	return res, nil
}

func toAnswerResponse(a *entity.Answer) surveyDto.AnswerResponse {
	return surveyDto.AnswerResponse{
		ID:         a.ID,
		SurveyID:   a.SurveyID,
		QuestionID: a.QuestionID,
		ChoiceID:   a.ChoiceID,
		CreatedAt:  a.CreatedAt,
	}
}
