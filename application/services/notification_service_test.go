package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qaforum/domain/core/entities"
	"qaforum/pkg/common"
)

func TestNotificationServiceFeed(t *testing.T) {
	ctx := context.Background()
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo, nil, zap.NewNop())

	question, err := entities.NewQuestion("asker", "Notify me about this?", "A longer description.", []string{"go"})
	require.NoError(t, err)
	answer, err := entities.NewAnswer(question.ID, "answerer", "This is a helpful answer.")
	require.NoError(t, err)

	svc.NotifyAnswerCreated(ctx, question, answer, "answerer")
	svc.NotifyAnswerAccepted(ctx, question, answer)

	page := common.PaginationParams{Page: 1, PageSize: 10}

	t.Run("asker sees the answer notification", func(t *testing.T) {
		feed, err := svc.List(ctx, "asker", false, page)
		require.NoError(t, err)
		require.Len(t, feed.Notifications, 1)
		assert.Equal(t, entities.NotificationTypeAnswer, feed.Notifications[0].Type)
		assert.Equal(t, 1, feed.UnreadCount)
	})

	t.Run("answerer sees the accept notification", func(t *testing.T) {
		feed, err := svc.List(ctx, "answerer", false, page)
		require.NoError(t, err)
		require.Len(t, feed.Notifications, 1)
		assert.Equal(t, entities.NotificationTypeAccept, feed.Notifications[0].Type)
	})

	t.Run("mark read clears the unread count", func(t *testing.T) {
		feed, err := svc.List(ctx, "asker", false, page)
		require.NoError(t, err)
		require.NoError(t, svc.MarkRead(ctx, "asker", feed.Notifications[0].ID))

		feed, err = svc.List(ctx, "asker", false, page)
		require.NoError(t, err)
		assert.Equal(t, 0, feed.UnreadCount)
		assert.True(t, feed.Notifications[0].IsRead)

		unread, err := svc.List(ctx, "asker", true, page)
		require.NoError(t, err)
		assert.Empty(t, unread.Notifications)
	})

	t.Run("delete is recipient scoped", func(t *testing.T) {
		feed, err := svc.List(ctx, "answerer", false, page)
		require.NoError(t, err)
		id := feed.Notifications[0].ID

		err = svc.Delete(ctx, "asker", id)
		assert.Error(t, err)

		require.NoError(t, svc.Delete(ctx, "answerer", id))
		feed, err = svc.List(ctx, "answerer", false, page)
		require.NoError(t, err)
		assert.Empty(t, feed.Notifications)
	})
}

func TestNotificationServiceMarkAllRead(t *testing.T) {
	ctx := context.Background()
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo, nil, zap.NewNop())

	question, err := entities.NewQuestion("asker", "Notify me about this?", "A longer description.", []string{"go"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		answer, err := entities.NewAnswer(question.ID, "answerer", "This is a helpful answer.")
		require.NoError(t, err)
		svc.NotifyAnswerCreated(ctx, question, answer, "answerer")
	}

	require.NoError(t, svc.MarkAllRead(ctx, "asker"))

	feed, err := svc.List(ctx, "asker", false, common.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, feed.UnreadCount)
	for _, n := range feed.Notifications {
		assert.True(t, n.IsRead)
	}
}
