package service_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	reactionRepo "anoa.com/alumninetwork/internal/modules/reaction/repository"
	reaction "anoa.com/alumninetwork/internal/modules/reaction/service"
	statRepo "anoa.com/alumninetwork/internal/modules/stat/repository"
	"anoa.com/alumninetwork/internal/modules/stat/service"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(db *gorm.DB) service.StatService {
	return service.NewStatService(
		statRepo.NewStatRepository(db),
		postRepo.NewPostRepository(db),
		reaction.NewReactionService(reactionRepo.NewReactionRepository(db), nil),
	)
}

func TestEmptyDatasets(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()

	users, err := svc.UserStats(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, users.Data)
	assert.Nil(t, users.Year)
	assert.Equal(t, map[string]int64{"admin": 0, "lecturer": 0, "alumnus": 0}, users.TotalsByRole)

	posts, err := svc.PostStats(ctx, 2020)
	require.NoError(t, err)
	assert.NotNil(t, posts.Data)
	assert.Empty(t, posts.Data)

	years, err := svc.AvailableYears(ctx, "surveys")
	require.NoError(t, err)
	assert.Equal(t, []int{}, years.Years)
}

func TestStatsCountActivity(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db)
	ctx := context.Background()
	year := time.Now().UTC().Year()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	reader := testutil.CreateUser(t, db, "reader", entity.RoleAlumnus)
	post := testutil.CreatePost(t, db, author, false)

	require.NoError(t, db.Create(&entity.Comment{PostID: post.ID, UserID: reader.ID, Content: "hi"}).Error)
	require.NoError(t, db.Create(&entity.Comment{PostID: post.ID, UserID: author.ID, Content: "hello"}).Error)
	require.NoError(t, db.Create(&entity.Reaction{PostID: post.ID, UserID: reader.ID, Type: entity.ReactionLove}).Error)

	old := &entity.Post{Title: "Old", Content: "c", UserID: author.ID, CreatedAt: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(old).Error)

	users, err := svc.UserStats(ctx, year)
	require.NoError(t, err)
	require.Len(t, users.Data, 2)
	assert.Equal(t, "author", users.Data[0].User.Username)
	assert.Equal(t, int64(1), users.Data[0].PostCount)
	assert.Equal(t, int64(1), users.Data[0].CommentCount)
	assert.Equal(t, int64(1), users.Data[1].CommentCount)
	assert.Equal(t, int64(1), users.TotalPosts)
	assert.Equal(t, int64(2), users.TotalComments)
	assert.Equal(t, int64(1), users.TotalsByRole["alumnus"])

	all, err := svc.UserStats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalPosts)

	posts, err := svc.PostStats(ctx, year)
	require.NoError(t, err)
	require.Len(t, posts.Data, 1)
	assert.Equal(t, int64(2), posts.Data[0].CommentCount)
	assert.Equal(t, int64(1), posts.Data[0].Reactions["love"])
	assert.Equal(t, int64(0), posts.Data[0].Reactions["like"])

	years, err := svc.AvailableYears(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, []int{2019, year}, years.Years)

	_, err = svc.AvailableYears(ctx, "reactions")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
