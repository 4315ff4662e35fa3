package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ballotview/internal/core/notify"
)

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t))

		id, err := store.Save(ctx, notify.Notification{
			Level:     notify.LevelError,
			Source:    "comments",
			Message:   "load comments B1: connection refused",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, id, items[0].ID)
		assert.Equal(t, notify.LevelError, items[0].Level)
		assert.Equal(t, "comments", items[0].Source)
		assert.Equal(t, "load comments B1: connection refused", items[0].Message)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t))

		base := time.Now()
		for i, msg := range []string{"first", "second", "third"} {
			_, err := store.Save(ctx, notify.Notification{
				Level:     notify.LevelInfo,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Message)
		assert.Equal(t, "first", items[2].Message)
	})

	t.Run("count and clear", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t))

		for range 3 {
			_, err := store.Save(ctx, notify.Notification{Level: notify.LevelWarning, Message: "warn"})
			require.NoError(t, err)
		}

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		require.NoError(t, store.Clear(ctx))
		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}
