package post_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	postDto "anoa.com/alumninetwork/internal/modules/post/dto"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	post "anoa.com/alumninetwork/internal/modules/post/service"
	reactionRepo "anoa.com/alumninetwork/internal/modules/reaction/repository"
	reaction "anoa.com/alumninetwork/internal/modules/reaction/service"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/apperror"
	commonDto "anoa.com/alumninetwork/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeIndexer struct {
	indexed []string
	deleted []string
}

func (f *fakeIndexer) IndexPost(p *entity.Post) error {
	f.indexed = append(f.indexed, p.Title)
	return nil
}

func (f *fakeIndexer) DeletePost(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newService(db *gorm.DB, indexer post.PostIndexer) post.PostService {
	reactions := reaction.NewReactionService(reactionRepo.NewReactionRepository(db), nil)
	return post.NewPostService(postRepo.NewPostRepository(db), userRepo.NewUserRepository(db), reactions, indexer, nil, 0)
}

func TestCreateAndRead(t *testing.T) {
	db := testutil.NewDB(t)
	indexer := &fakeIndexer{}
	svc := newService(db, indexer)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)

	created, err := svc.CreatePost(ctx, author.ID, postDto.CreatePostRequest{Title: "Class of 2010", Content: "<p>Reunion</p>"})
	require.NoError(t, err)
	assert.Equal(t, "author", created.User.Username)
	assert.Equal(t, author.Email, created.User.Email)
	assert.False(t, created.CommentsLocked)
	assert.Zero(t, created.CommentCount)
	assert.Equal(t, int64(0), created.Reactions["like"])
	assert.Equal(t, []string{"Class of 2010"}, indexer.indexed)

	require.NoError(t, db.Create(&entity.Comment{PostID: created.ID, UserID: author.ID, Content: "first"}).Error)
	require.NoError(t, db.Create(&entity.Reaction{PostID: created.ID, UserID: author.ID, Type: entity.ReactionLove}).Error)

	got, err := svc.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentCount)
	assert.Equal(t, int64(1), got.Reactions["love"])
}

func TestGetPostsFiltersByAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "anna", entity.RoleLecturer)
	b := testutil.CreateUser(t, db, "ben", entity.RoleLecturer)
	testutil.CreatePost(t, db, a, false)
	testutil.CreatePost(t, db, a, false)
	testutil.CreatePost(t, db, b, false)

	all, err := svc.GetPosts(ctx, postDto.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 3)
	assert.Equal(t, int64(3), all.Meta.TotalItems)

	mine, err := svc.GetPosts(ctx, postDto.PostFilter{AuthorID: a.ID.String()})
	require.NoError(t, err)
	assert.Len(t, mine.Data, 2)
	for _, p := range mine.Data {
		assert.Equal(t, a.ID, p.User.ID)
	}

	page, err := svc.GetPosts(ctx, postDto.PostFilter{PaginationQuery: commonDto.PaginationQuery{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestUpdateAndLockPermissions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleAlumnus)
	require.NoError(t, db.Model(author).Update("is_active", true).Error)
	other := testutil.CreateUser(t, db, "other", entity.RoleLecturer)
	admin := testutil.CreateUser(t, db, "root", entity.RoleAdmin)
	p := testutil.CreatePost(t, db, author, false)

	title := "Edited"
	_, err := svc.UpdatePost(ctx, other.ID, p.ID, postDto.UpdatePostRequest{Title: &title})
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	time.Sleep(10 * time.Millisecond)
	updated, err := svc.UpdatePost(ctx, author.ID, p.ID, postDto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt), "update must refresh updated_at")

	_, err = svc.SetCommentLock(ctx, other.ID, p.ID, true)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	time.Sleep(10 * time.Millisecond)
	locked, err := svc.SetCommentLock(ctx, admin.ID, p.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.CommentsLocked)
	assert.True(t, locked.UpdatedAt.After(updated.UpdatedAt), "lock toggle must refresh updated_at")

	var stored entity.Post
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.True(t, stored.UpdatedAt.Equal(locked.UpdatedAt))

	unlocked, err := svc.SetCommentLock(ctx, author.ID, p.ID, false)
	require.NoError(t, err)
	assert.False(t, unlocked.CommentsLocked)
}

func TestDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	indexer := &fakeIndexer{}
	svc := newService(db, indexer)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	other := testutil.CreateUser(t, db, "other", entity.RoleLecturer)
	admin := testutil.CreateUser(t, db, "root", entity.RoleAdmin)
	p := testutil.CreatePost(t, db, author, false)
	require.NoError(t, db.Create(&entity.Comment{PostID: p.ID, UserID: other.ID, Content: "hi"}).Error)
	require.NoError(t, db.Create(&entity.Reaction{PostID: p.ID, UserID: other.ID, Type: entity.ReactionLike}).Error)

	err := svc.DeletePost(ctx, other.ID, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	require.NoError(t, svc.DeletePost(ctx, admin.ID, p.ID))
	assert.Equal(t, []string{p.ID.String()}, indexer.deleted)

	var comments, reactions int64
	require.NoError(t, db.Model(&entity.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&entity.Reaction{}).Count(&reactions).Error)
	assert.Zero(t, comments)
	assert.Zero(t, reactions)

	_, err = svc.GetPostByID(ctx, p.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
