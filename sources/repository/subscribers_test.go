package repository

import (
	"context"
	"testing"

	"domainhub/sources/persistence/entities"
	"domainhub/sources/persistence/testdb"
	"domainhub/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribersRepository_UpsertKeepsSingleRecord(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewSubscribersRepository(testdb.New(t))

	first, err := repo.UpsertSubscriber(ctx, log, &entities.Subscriber{TelegramID: "100", Username: "old"})
	require.NoError(t, err)
	assert.True(t, first.IsSubscribed)

	require.NoError(t, repo.SetMembership(ctx, log, "100", true))

	second, err := repo.UpsertSubscriber(ctx, log, &entities.Subscriber{TelegramID: "100", Username: "new"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new", second.Username)
	assert.True(t, second.IsMember, "upsert must not reset membership")

	count, err := repo.CountSubscribers(ctx, log)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = repo.GetSubscriber(ctx, log, "200")
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestCommentsRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	log := tracing.NewNopLogger()
	repo := NewCommentsRepository(testdb.New(t))

	comment := &entities.Comment{TelegramUsername: "@buyer", Content: "Is example.com still for sale?"}
	require.NoError(t, repo.CreateComment(ctx, log, comment))
	assert.Equal(t, entities.CommentStatusNew, comment.Status)

	count, err := repo.CountNewComments(ctx, log)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.MarkCommentRead(ctx, log, comment.ID))
	count, err = repo.CountNewComments(ctx, log)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	require.NoError(t, repo.DeleteComment(ctx, log, comment.ID))
	assert.ErrorIs(t, repo.MarkCommentRead(ctx, log, comment.ID), ErrCommentNotFound)
}
