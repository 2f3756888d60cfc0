package entity_test

import (
	"encoding/json"
	"testing"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for in, want := range map[string]entity.Role{
		"1":        entity.RoleAdmin,
		"lecturer": entity.RoleLecturer,
		"Alumnus":  entity.RoleAlumnus,
		" 3 ":      entity.RoleAlumnus,
	} {
		got, err := entity.ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := entity.ParseRole("4")
	assert.Error(t, err)
	_, err = entity.ParseRole("student")
	assert.Error(t, err)
}

func TestRoleJSON(t *testing.T) {
	var payload struct {
		Role entity.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"alumnus"}`), &payload))
	assert.Equal(t, entity.RoleAlumnus, payload.Role)

	require.NoError(t, json.Unmarshal([]byte(`{"role":2}`), &payload))
	assert.Equal(t, entity.RoleLecturer, payload.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":9}`), &payload))

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":2}`, string(out))
}

func TestReactionTypeWireMapping(t *testing.T) {
	var payload struct {
		Type entity.ReactionType `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"haha"}`), &payload))
	assert.Equal(t, entity.ReactionHaha, payload.Type)
	require.NoError(t, json.Unmarshal([]byte(`{"type":3}`), &payload))
	assert.Equal(t, entity.ReactionLove, payload.Type)
	assert.Equal(t, "love", payload.Type.String())
	assert.Error(t, json.Unmarshal([]byte(`{"type":"angry"}`), &payload))
	assert.False(t, entity.ReactionType(0).IsValid())
}

func TestActivationIsDecidedAtCreation(t *testing.T) {
	db := testutil.NewDB(t)

	alumnus := testutil.CreateUser(t, db, "alumnus", entity.RoleAlumnus)
	lecturer := testutil.CreateUser(t, db, "lecturer", entity.RoleLecturer)
	admin := testutil.CreateUser(t, db, "admin", entity.RoleAdmin)

	assert.False(t, alumnus.IsActive)
	assert.True(t, lecturer.IsActive)
	assert.True(t, admin.IsActive)

	// Approval sticks: saving again does not re-apply the creation rule.
	alumnus.IsActive = true
	alumnus.FirstName = "Approved"
	require.NoError(t, db.Save(alumnus).Error)

	var reloaded entity.User
	require.NoError(t, db.First(&reloaded, "id = ?", alumnus.ID).Error)
	assert.True(t, reloaded.IsActive)
	assert.Equal(t, "Approved", reloaded.FirstName)
}

func TestCheckAnswer(t *testing.T) {
	question := &entity.Question{ID: uuid.New()}
	other := &entity.Question{ID: uuid.New()}

	yes := &entity.Choice{ID: uuid.New(), QuestionID: question.ID, Content: entity.ChoiceYes}
	maybe := &entity.Choice{ID: uuid.New(), QuestionID: question.ID, Content: "Maybe"}

	assert.NoError(t, entity.CheckAnswer(question, yes))
	assert.ErrorIs(t, entity.CheckAnswer(other, yes), entity.ErrChoiceNotInQuestion)
	assert.ErrorIs(t, entity.CheckAnswer(question, maybe), entity.ErrChoiceNotBinary)
}

func TestDefaultChoices(t *testing.T) {
	id := uuid.New()
	choices := entity.DefaultChoices(id)
	require.Len(t, choices, 2)
	assert.Equal(t, entity.ChoiceYes, choices[0].Content)
	assert.Equal(t, entity.ChoiceNo, choices[1].Content)
	for _, c := range choices {
		assert.Equal(t, id, c.QuestionID)
		assert.True(t, entity.IsBinaryChoice(c.Content))
	}
}

func TestCheckCommentable(t *testing.T) {
	assert.NoError(t, entity.CheckCommentable(&entity.Post{}))
	assert.ErrorIs(t, entity.CheckCommentable(&entity.Post{CommentsLocked: true}), entity.ErrCommentsLocked)
}
