package repository_test

import (
	"context"
	"testing"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/modules/survey/repository"
	"anoa.com/alumninetwork/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestionSeedsDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSurveyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner", entity.RoleLecturer)
	survey := &entity.Survey{Title: "Career", Description: "<p>Where are you now?</p>", UserID: owner.ID, IsActive: true}
	require.NoError(t, repo.Create(ctx, survey))

	seeded := &entity.Question{SurveyID: survey.ID, Content: "Are you employed?"}
	require.NoError(t, repo.CreateQuestion(ctx, seeded, nil))

	choices, err := repo.Choices(ctx, seeded.ID)
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.ElementsMatch(t, []string{entity.ChoiceYes, entity.ChoiceNo}, []string{choices[0].Content, choices[1].Content})

	require.NoError(t, repository.EnsureDefaultChoices(db, seeded.ID))
	choices, err = repo.Choices(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Len(t, choices, 2, "seeding twice must not add choices")

	explicit := &entity.Question{SurveyID: survey.ID, Content: "Field of work"}
	require.NoError(t, repo.CreateQuestion(ctx, explicit, []entity.Choice{{Content: "Engineering"}}))
	choices, err = repo.Choices(ctx, explicit.ID)
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, "Engineering", choices[0].Content)
}

func TestQuestionsBySurveys(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSurveyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner", entity.RoleLecturer)
	first := &entity.Survey{Title: "Career", Description: "d", UserID: owner.ID, IsActive: true}
	second := &entity.Survey{Title: "Campus", Description: "d", UserID: owner.ID, IsActive: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	for _, content := range []string{"Employed?", "Abroad?"} {
		require.NoError(t, repo.CreateQuestion(ctx, &entity.Question{SurveyID: first.ID, Content: content}, nil))
	}

	grouped, err := repo.QuestionsBySurveys(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, grouped[first.ID], 2)
	assert.Equal(t, "Employed?", grouped[first.ID][0].Content)
	assert.Empty(t, grouped[second.ID])

	none, err := repo.QuestionsBySurveys(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteSurveyCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSurveyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner", entity.RoleLecturer)
	survey := &entity.Survey{Title: "Career", Description: "d", UserID: owner.ID, IsActive: true}
	require.NoError(t, repo.Create(ctx, survey))
	question := &entity.Question{SurveyID: survey.ID, Content: "Employed?"}
	require.NoError(t, repo.CreateQuestion(ctx, question, nil))
	require.NoError(t, repo.CreateSnapshot(ctx, &entity.SurveyStat{SurveyID: survey.ID}))

	require.NoError(t, repo.Delete(ctx, survey.ID))

	var questions, choices, stats int64
	require.NoError(t, db.Model(&entity.Question{}).Count(&questions).Error)
	require.NoError(t, db.Model(&entity.Choice{}).Count(&choices).Error)
	require.NoError(t, db.Model(&entity.SurveyStat{}).Count(&stats).Error)
	assert.Zero(t, questions)
	assert.Zero(t, choices)
	assert.Zero(t, stats)
}

func TestCountsOnEmptySurvey(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewSurveyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner", entity.RoleLecturer)
	survey := &entity.Survey{Title: "Empty", Description: "d", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, survey))

	counts, err := repo.ChoiceCounts(ctx, survey.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)

	respondents, err := repo.CountRespondents(ctx, survey.ID)
	require.NoError(t, err)
	assert.Zero(t, respondents)
}
