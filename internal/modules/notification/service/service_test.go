package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	notifDto "anoa.com/alumninetwork/internal/modules/notification/dto"
	"anoa.com/alumninetwork/internal/modules/notification/repository"
	"anoa.com/alumninetwork/internal/modules/notification/service"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/apperror"
	"anoa.com/alumninetwork/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewNotificationService(repository.NewNotificationRepository(db), nil)
	ctx := context.Background()

	lecturer := testutil.CreateUser(t, db, "prof", entity.RoleLecturer)
	a := testutil.CreateUser(t, db, "alum1", entity.RoleAlumnus)
	b := testutil.CreateUser(t, db, "alum2", entity.RoleAlumnus)

	first, err := svc.Send(ctx, lecturer.ID, notifDto.SendNotificationRequest{
		Title:        "Homecoming",
		Content:      "Friday at 6pm",
		RecipientIDs: []string{a.ID.String(), b.ID.String(), a.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.RecipientCount)
	require.NoError(t, db.Model(&entity.Notification{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Send(ctx, lecturer.ID, notifDto.SendNotificationRequest{
		Title:        "Survey open",
		Content:      "Please answer",
		RecipientIDs: []string{a.ID.String()},
	})
	require.NoError(t, err)

	received, err := svc.Received(ctx, a.ID, dto.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, received.Data, 2)
	assert.Equal(t, "Survey open", received.Data[0].Title)
	assert.Equal(t, "Homecoming", received.Data[1].Title)
	require.NotNil(t, received.Data[0].Sender)
	assert.Equal(t, "prof", received.Data[0].Sender.Username)
	assert.Equal(t, int64(2), received.Meta.TotalItems)

	received, err = svc.Received(ctx, b.ID, dto.PaginationQuery{})
	require.NoError(t, err)
	assert.Len(t, received.Data, 1)

	sent, err := svc.Sent(ctx, lecturer.ID, dto.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, sent.Data, 2)
	assert.Equal(t, int64(1), sent.Data[0].RecipientCount)
	assert.Equal(t, int64(2), sent.Data[1].RecipientCount)

	unread, err := svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, svc.MarkAsRead(ctx, first.ID, a.ID))
	require.NoError(t, svc.MarkAsRead(ctx, first.ID, a.ID))
	unread, err = svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	err = svc.MarkAsRead(ctx, first.ID, lecturer.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	require.NoError(t, svc.MarkAllAsRead(ctx, a.ID))
	unread, err = svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSendUnknownRecipientRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewNotificationService(repository.NewNotificationRepository(db), nil)
	ctx := context.Background()

	sender := testutil.CreateUser(t, db, "prof", entity.RoleLecturer)
	known := testutil.CreateUser(t, db, "alum", entity.RoleAlumnus)

	_, err := svc.Send(ctx, sender.ID, notifDto.SendNotificationRequest{
		Title:        "Hello",
		Content:      "World",
		RecipientIDs: []string{known.ID.String(), uuid.NewString()},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	var count int64
	require.NoError(t, db.Model(&entity.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotify(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewNotificationService(repository.NewNotificationRepository(db), nil)
	ctx := context.Background()

	sender := testutil.CreateUser(t, db, "commenter", entity.RoleAlumnus)
	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)

	require.NoError(t, svc.Notify(ctx, sender.ID, author.ID, "New comment", "commenter commented on your post"))

	received, err := svc.Received(ctx, author.ID, dto.PaginationQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, received.Data, 1)
	assert.Nil(t, received.Data[0].ReadAt)
	assert.Equal(t, "New comment", received.Data[0].Title)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("0190f1f0-0000-7000-8000-000000000001")
	assert.Equal(t, "user_notifications:0190f1f0-0000-7000-8000-000000000001", service.Channel(id))
}
