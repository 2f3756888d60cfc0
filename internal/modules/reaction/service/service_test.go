package service_test

import (
	"context"
	"errors"
	"testing"

	"anoa.com/alumninetwork/internal/entity"
	reactionDto "anoa.com/alumninetwork/internal/modules/reaction/dto"
	"anoa.com/alumninetwork/internal/modules/reaction/repository"
	"anoa.com/alumninetwork/internal/modules/reaction/service"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewReactionRepository(db)
	svc := service.NewReactionService(repo, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	fan := testutil.CreateUser(t, db, "fan", entity.RoleAlumnus)
	post := testutil.CreatePost(t, db, author, false)

	res, err := svc.Create(ctx, fan.ID, post.ID, reactionDto.ReactionRequest{Type: entity.ReactionLike})
	require.NoError(t, err)
	assert.Equal(t, "like", res.TypeName)
	assert.Equal(t, "fan", res.User.Username)

	_, err = svc.Create(ctx, fan.ID, post.ID, reactionDto.ReactionRequest{Type: entity.ReactionLove})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConstraintViolation))
	assert.Equal(t, "you have already reacted to this post", err.Error())
	assert.Equal(t, 400, apperror.MapErrorToStatus(err))

	_, err = svc.Create(ctx, author.ID, post.ID, reactionDto.ReactionRequest{Type: entity.ReactionHaha})
	require.NoError(t, err)

	counts, err := svc.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["like"])
	assert.Equal(t, int64(1), counts["haha"])
	assert.Equal(t, int64(0), counts["love"])

	res, err = svc.Update(ctx, fan.ID, post.ID, reactionDto.ReactionRequest{Type: entity.ReactionLove})
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLove, res.Type)

	list, err := svc.List(ctx, &fan.ID, post.ID)
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)
	require.NotNil(t, list.UserReaction)
	assert.Equal(t, entity.ReactionLove, *list.UserReaction)
	assert.Equal(t, int64(0), list.Counts["like"])
	assert.Equal(t, int64(1), list.Counts["love"])

	require.NoError(t, svc.Delete(ctx, fan.ID, post.ID))
	err = svc.Delete(ctx, fan.ID, post.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestReactionUnknownPost(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewReactionService(repository.NewReactionRepository(db), nil)
	user := testutil.CreateUser(t, db, "fan", entity.RoleAlumnus)

	_, err := svc.Create(context.Background(), user.ID, uuid.New(), reactionDto.ReactionRequest{Type: entity.ReactionLike})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = svc.List(context.Background(), nil, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUniqueIndexGuardsRaces(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewReactionRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	post := testutil.CreatePost(t, db, author, false)

	require.NoError(t, repo.Create(ctx, &entity.Reaction{PostID: post.ID, UserID: author.ID, Type: entity.ReactionLike}))
	err := repo.Create(ctx, &entity.Reaction{PostID: post.ID, UserID: author.ID, Type: entity.ReactionHaha})
	assert.True(t, errors.Is(err, apperror.ErrConstraintViolation))
}

func TestCountsForPosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewReactionRepository(db)
	svc := service.NewReactionService(repo, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	first := testutil.CreatePost(t, db, author, false)
	second := testutil.CreatePost(t, db, author, false)
	require.NoError(t, repo.Create(ctx, &entity.Reaction{PostID: first.ID, UserID: author.ID, Type: entity.ReactionLove}))

	counts, err := svc.CountsForPosts(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[first.ID]["love"])
	assert.Equal(t, int64(0), counts[second.ID]["love"])
	assert.Len(t, counts[second.ID], 3)
}
