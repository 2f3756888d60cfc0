package service_test

import (
	"context"
	"errors"
	"testing"

	"anoa.com/alumninetwork/internal/entity"
	commentDto "anoa.com/alumninetwork/internal/modules/comment/dto"
	commentRepo "anoa.com/alumninetwork/internal/modules/comment/repository"
	"anoa.com/alumninetwork/internal/modules/comment/service"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notification struct {
	sender, recipient uuid.UUID
	title, content    string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, senderID, recipientID uuid.UUID, title, content string) error {
	f.sent = append(f.sent, notification{senderID, recipientID, title, content})
	return f.err
}

func newService(db *gorm.DB, notifier service.Notifier) service.CommentService {
	return service.NewCommentService(
		commentRepo.NewCommentRepository(db),
		postRepo.NewPostRepository(db),
		userRepo.NewUserRepository(db),
		notifier,
		nil,
		0,
	)
}

func TestCreateNotifiesAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	notifier := &fakeNotifier{}
	svc := newService(db, notifier)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	reader := testutil.CreateUser(t, db, "reader", entity.RoleLecturer)
	post := testutil.CreatePost(t, db, author, false)

	res, err := svc.Create(ctx, reader.ID, post.ID, commentDto.CommentRequest{Content: "Count me in"})
	require.NoError(t, err)
	assert.Equal(t, "reader", res.User.Username)
	assert.Equal(t, post.ID, res.PostID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, reader.ID, notifier.sent[0].sender)
	assert.Equal(t, author.ID, notifier.sent[0].recipient)
	assert.Contains(t, notifier.sent[0].content, "reader commented on")

	_, err = svc.Create(ctx, author.ID, post.ID, commentDto.CommentRequest{Content: "Thanks"})
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1, "authors are not notified about their own comments")
}

func TestNotifierFailureDoesNotFailComment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, &fakeNotifier{err: errors.New("redis down")})

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	reader := testutil.CreateUser(t, db, "reader", entity.RoleLecturer)
	post := testutil.CreatePost(t, db, author, false)

	_, err := svc.Create(context.Background(), reader.ID, post.ID, commentDto.CommentRequest{Content: "hello"})
	assert.NoError(t, err)
}

func TestLockedPostRejectsComments(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	post := testutil.CreatePost(t, db, author, false)

	c, err := svc.Create(ctx, author.ID, post.ID, commentDto.CommentRequest{Content: "before lock"})
	require.NoError(t, err)

	require.NoError(t, postRepo.NewPostRepository(db).SetCommentsLocked(ctx, post.ID, true))

	_, err = svc.Create(ctx, author.ID, post.ID, commentDto.CommentRequest{Content: "after lock"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "comments disabled for this post", err.Error())

	_, err = svc.Update(ctx, author.ID, c.ID, commentDto.CommentRequest{Content: "edited"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	var count int64
	require.NoError(t, db.Model(&entity.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, postRepo.NewPostRepository(db).SetCommentsLocked(ctx, post.ID, false))

	_, err = svc.Create(ctx, author.ID, post.ID, commentDto.CommentRequest{Content: "after unlock"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&entity.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = svc.Create(ctx, author.ID, uuid.New(),commentDto.CommentRequest{Content: "nowhere"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpdateAndDeletePermissions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	commenter := testutil.CreateUser(t, db, "commenter", entity.RoleLecturer)
	stranger := testutil.CreateUser(t, db, "stranger", entity.RoleLecturer)
	admin := testutil.CreateUser(t, db, "root", entity.RoleAdmin)
	post := testutil.CreatePost(t, db, author, false)

	c1, err := svc.Create(ctx, commenter.ID, post.ID, commentDto.CommentRequest{Content: "one"})
	require.NoError(t, err)
	c2, err := svc.Create(ctx, commenter.ID, post.ID, commentDto.CommentRequest{Content: "two"})
	require.NoError(t, err)
	c3, err := svc.Create(ctx, commenter.ID, post.ID, commentDto.CommentRequest{Content: "three"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, author.ID, c1.ID, commentDto.CommentRequest{Content: "hijack"})
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	edited, err := svc.Update(ctx, commenter.ID, c1.ID, commentDto.CommentRequest{Content: "one, edited"})
	require.NoError(t, err)
	assert.Equal(t, "one, edited", edited.Content)

	assert.True(t, errors.Is(svc.Delete(ctx, stranger.ID, c1.ID), apperror.ErrForbidden))
	assert.NoError(t, svc.Delete(ctx, commenter.ID, c1.ID))
	assert.NoError(t, svc.Delete(ctx, author.ID, c2.ID))
	assert.NoError(t, svc.Delete(ctx, admin.ID, c3.ID))

	list, err := svc.List(ctx, post.ID, dto.PaginationQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
	assert.Equal(t, int64(0), list.Meta.TotalItems)
}
