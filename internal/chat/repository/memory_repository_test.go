package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochat/internal/chat/models"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	text := "hi"
	m1 := &models.Message{SenderID: 1, ReceiverID: 2, Text: &text, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, repo.Insert(ctx, m1))
	require.NotEmpty(t, m1.ID)

	reply := "reply"
	m2 := &models.Message{SenderID: 2, ReceiverID: 1, Text: &reply, ReplyTo: models.Resolved(m1), CreatedAt: t0.Add(time.Second)}
	require.NoError(t, repo.Insert(ctx, m2))

	other := &models.Message{SenderID: 1, ReceiverID: 3, Text: &text, CreatedAt: t0}
	require.NoError(t, repo.Insert(ctx, other))

	t.Run("reply stored as bare id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, m2.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ReplyTo)
		assert.Equal(t, m1.ID, got.ReplyTo.ID)
		assert.False(t, got.ReplyTo.IsResolved())
	})

	t.Run("dangling reply rejected", func(t *testing.T) {
		bad := &models.Message{SenderID: 1, ReceiverID: 2, ReplyTo: models.RefTo("nope")}
		assert.ErrorIs(t, repo.Insert(ctx, bad), ErrMessageNotFound)
	})

	t.Run("conversation is an unordered pair", func(t *testing.T) {
		ab, err := repo.FindConversation(ctx, 1, 2)
		require.NoError(t, err)
		ba, err := repo.FindConversation(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, ab, 2)
		assert.Equal(t, ab, ba)
		assert.Equal(t, m1.ID, ab[0].ID)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		got, err := repo.FindByID(ctx, m1.ID)
		require.NoError(t, err)
		*got.Text = "mutated"
		again, err := repo.FindByID(ctx, m1.ID)
		require.NoError(t, err)
		assert.Equal(t, "hi", *again.Text)
	})

	t.Run("edit then delete then edit", func(t *testing.T) {
		edited, err := repo.UpdateText(ctx, m1.ID, "hello", t0.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, edited.IsEdited)
		assert.Equal(t, "hello", *edited.Text)

		deleted, changed, err := repo.Redact(ctx, m1.ID, t0.Add(2*time.Minute))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Nil(t, deleted.Text)

		_, changed, err = repo.Redact(ctx, m1.ID, t0.Add(3*time.Minute))
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = repo.UpdateText(ctx, m1.ID, "again", t0.Add(4*time.Minute))
		assert.ErrorIs(t, err, ErrMessageDeleted)

		_, err = repo.UpdateText(ctx, "missing", "x", t0)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []string{m2.ID, "missing", m1.ID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, m1.ID, got[0].ID)
	})
}
