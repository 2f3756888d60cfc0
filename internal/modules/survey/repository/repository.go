package repository

import (
	"context"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgSurveyNotFound   = "survey not found"
	msgQuestionNotFound = "question not found"
	msgChoiceNotFound   = "choice not found"
	msgAnswerRefMissing = "question or choice not found"
	msgAlreadyAnswered  = "you have already answered this question"
)

type SurveyRepository interface {
	Create(ctx context.Context, survey *entity.Survey) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Survey, error)
	FindAll(ctx context.Context, active *bool, offset, limit int) ([]entity.Survey, int64, error)
	Update(ctx context.Context, survey *entity.Survey) error
	Delete(ctx context.Context, id uuid.UUID) error
	Questions(ctx context.Context, surveyID uuid.UUID) ([]entity.Question, error)
	QuestionsBySurveys(ctx context.Context, surveyIDs []uuid.UUID) (map[uuid.UUID][]entity.Question, error)

	CreateQuestion(ctx context.Context, question *entity.Question, choices []entity.Choice) error
	FindQuestion(ctx context.Context, id uuid.UUID) (*entity.Question, error)
	UpdateQuestion(ctx context.Context, question *entity.Question) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	Choices(ctx context.Context, questionID uuid.UUID) ([]entity.Choice, error)
	ChoicesBySurvey(ctx context.Context, surveyID uuid.UUID) ([]entity.Choice, error)
	CreateChoice(ctx context.Context, choice *entity.Choice) error
	FindChoice(ctx context.Context, id uuid.UUID) (*entity.Choice, error)
	UpdateChoice(ctx context.Context, choice *entity.Choice) error
	DeleteChoice(ctx context.Context, id uuid.UUID) error

	CreateAnswer(ctx context.Context, answer *entity.Answer) error
	AnswersByUser(ctx context.Context, surveyID, userID uuid.UUID) ([]entity.Answer, error)
	ChoiceCounts(ctx context.Context, surveyID uuid.UUID) (map[uuid.UUID]int64, error)
	CountRespondents(ctx context.Context, surveyID uuid.UUID) (int64, error)

	CreateSnapshot(ctx context.Context, stat *entity.SurveyStat) error
	Snapshots(ctx context.Context, surveyID uuid.UUID) ([]entity.SurveyStat, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func activeIs(active *bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if active == nil {
			return db
		}
		return db.Where("is_active = ?", *active)
	}
}

func (r *surveyRepository) Create(ctx context.Context, survey *entity.Survey) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(survey).Error
	return apperror.FromDB(err, "user not found", "")
}

func (r *surveyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Survey, error) {
	var survey entity.Survey
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&survey).Error; err != nil {
		return nil, apperror.FromDB(err, msgSurveyNotFound, "")
	}
	return &survey, nil
}

func (r *surveyRepository) FindAll(ctx context.Context, active *bool, offset, limit int) ([]entity.Survey, int64, error) {
	var (
		surveys []entity.Survey
		total   int64
	)

	if err := r.db.WithContext(ctx).
		Model(&entity.Survey{}).
		Scopes(activeIs(active)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(activeIs(active)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&surveys).Error; err != nil {
		return nil, 0, err
	}

	return surveys, total, nil
}

func (r *surveyRepository) Update(ctx context.Context, survey *entity.Survey) error {
	return r.db.WithContext(ctx).
		Model(survey).
		Select("title", "description", "is_active").
		Updates(survey).Error
}

// Delete removes the survey; questions, choices, answers and snapshots go with it through
// the cascading foreign keys.
func (r *surveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Survey{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgSurveyNotFound)
	}
	return nil
}

func (r *surveyRepository) Questions(ctx context.Context, surveyID uuid.UUID) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

// QuestionsBySurveys loads the questions of a page of surveys in one query, grouped by
// survey and in creation order.
func (r *surveyRepository) QuestionsBySurveys(ctx context.Context, surveyIDs []uuid.UUID) (map[uuid.UUID][]entity.Question, error) {
	out := make(map[uuid.UUID][]entity.Question, len(surveyIDs))
	if len(surveyIDs) == 0 {
		return out, nil
	}

	var questions []entity.Question
	if err := r.db.WithContext(ctx).
		Where("survey_id IN ?", surveyIDs).
		Order("created_at ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	for _, q := range questions {
		out[q.SurveyID] = append(out[q.SurveyID], q)
	}
	return out, nil
}

// CreateQuestion stores the question, its explicit choices and, when none were given, the
// default pair, all in one transaction.
func (r *surveyRepository) CreateQuestion(ctx context.Context, question *entity.Question, choices []entity.Choice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(question).Error; err != nil {
			return err
		}

		if len(choices) > 0 {
			for i := range choices {
				choices[i].QuestionID = question.ID
			}
			if err := tx.Omit(clause.Associations).Create(&choices).Error; err != nil {
				return err
			}
		}

		return EnsureDefaultChoices(tx, question.ID)
	})
	return apperror.FromDB(err, msgSurveyNotFound, "")
}

// EnsureDefaultChoices seeds the Yes/No pair on a question that has no choices yet. It does
// nothing when choices already exist, so calling it again is safe.
func EnsureDefaultChoices(tx *gorm.DB, questionID uuid.UUID) error {
	var count int64
	if err := tx.Model(&entity.Choice{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := entity.DefaultChoices(questionID)
	return tx.Omit(clause.Associations).Create(&defaults).Error
}

func (r *surveyRepository) FindQuestion(ctx context.Context, id uuid.UUID) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return nil, apperror.FromDB(err, msgQuestionNotFound, "")
	}
	return &question, nil
}

func (r *surveyRepository) UpdateQuestion(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).
		Model(&entity.Question{}).
		Where("id = ?", question.ID).
		Update("content", question.Content).Error
}

func (r *surveyRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Question{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgQuestionNotFound)
	}
	return nil
}

func (r *surveyRepository) Choices(ctx context.Context, questionID uuid.UUID) ([]entity.Choice, error) {
	var choices []entity.Choice
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&choices).Error
	return choices, err
}

func (r *surveyRepository) ChoicesBySurvey(ctx context.Context, surveyID uuid.UUID) ([]entity.Choice, error) {
	var choices []entity.Choice
	err := r.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = choices.question_id").
		Where("questions.survey_id = ?", surveyID).
		Order("choices.id ASC").
		Find(&choices).Error
	return choices, err
}

func (r *surveyRepository) CreateChoice(ctx context.Context, choice *entity.Choice) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(choice).Error
	return apperror.FromDB(err, msgQuestionNotFound, "")
}

func (r *surveyRepository) FindChoice(ctx context.Context, id uuid.UUID) (*entity.Choice, error) {
	var choice entity.Choice
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&choice).Error; err != nil {
		return nil, apperror.FromDB(err, msgChoiceNotFound, "")
	}
	return &choice, nil
}

func (r *surveyRepository) UpdateChoice(ctx context.Context, choice *entity.Choice) error {
	return r.db.WithContext(ctx).
		Model(choice).
		Select("content", "is_correct").
		Updates(choice).Error
}

func (r *surveyRepository) DeleteChoice(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Choice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgChoiceNotFound)
	}
	return nil
}

// CreateAnswer relies on the (user_id, question_id) unique index; a racing duplicate
// surfaces as a constraint violation.
func (r *surveyRepository) CreateAnswer(ctx context.Context, answer *entity.Answer) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(answer).Error
	return apperror.FromDB(err, msgAnswerRefMissing, msgAlreadyAnswered)
}

func (r *surveyRepository) AnswersByUser(ctx context.Context, surveyID, userID uuid.UUID) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.WithContext(ctx).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}

func (r *surveyRepository) ChoiceCounts(ctx context.Context, surveyID uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		ChoiceID uuid.UUID
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Answer{}).
		Select("choice_id, COUNT(*) AS count").
		Where("survey_id = ?", surveyID).
		Group("choice_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.ChoiceID] = row.Count
	}
	return counts, nil
}

func (r *surveyRepository) CountRespondents(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Answer{}).
		Where("survey_id = ?", surveyID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *surveyRepository) CreateSnapshot(ctx context.Context, stat *entity.SurveyStat) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(stat).Error
	return apperror.FromDB(err, msgSurveyNotFound, "")
}

func (r *surveyRepository) Snapshots(ctx context.Context, surveyID uuid.UUID) ([]entity.SurveyStat, error) {
	var stats []entity.SurveyStat
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at ASC, id ASC").
		Find(&stats).Error
	return stats, err
}
