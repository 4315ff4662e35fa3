package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ballotview/internal/core/notify"
	"github.com/colonyops/ballotview/internal/core/table"
)

// memStore is an in-memory notify.Store for testing.
type memStore struct {
	items  []notify.Notification
	nextID int64
	err    error
}

func (m *memStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	n.ID = m.nextID
	m.items = append(m.items, n)
	return n.ID, nil
}

func (m *memStore) List(_ context.Context) ([]notify.Notification, error) {
	out := make([]notify.Notification, len(m.items))
	for i, n := range m.items {
		out[len(m.items)-1-i] = n
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.items = nil
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

var _ table.Reporter = (*Reporter)(nil)

func TestBus_Publish(t *testing.T) {
	store := &memStore{}
	bus := NewBus(store)

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	bus.Errorf("save %d %s record(s): %v", 2, "comments", "timeout")
	bus.Infof("info msg")
	bus.Warnf("warn msg")

	require.Len(t, received, 3)
	assert.Equal(t, notify.LevelError, received[0].Level)
	assert.Equal(t, "save 2 comments record(s): timeout", received[0].Message)
	assert.Equal(t, int64(1), received[0].ID)
	assert.False(t, received[0].CreatedAt.IsZero())
	assert.Equal(t, notify.LevelInfo, received[1].Level)
	assert.Equal(t, notify.LevelWarning, received[2].Level)

	assert.Len(t, store.items, 3)
}

func TestBus_Reporter(t *testing.T) {
	store := &memStore{}
	bus := NewBus(store)

	bus.For("comments").Errorf("load %s: %v", "B1", "refused")
	bus.For("voters").Warnf("stale")

	require.Len(t, store.items, 2)
	assert.Equal(t, "comments", store.items[0].Source)
	assert.Equal(t, "load B1: refused", store.items[0].Message)
	assert.Equal(t, notify.LevelWarning, store.items[1].Level)
	assert.Equal(t, "voters", store.items[1].Source)
}

func TestBus_HistoryAndClear(t *testing.T) {
	bus := NewBus(&memStore{})

	bus.Infof("first")
	bus.Infof("second")

	history, err := bus.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Message)

	require.NoError(t, bus.Clear())
	history, err = bus.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBus_StoreFailureStillDispatches(t *testing.T) {
	bus := NewBus(&memStore{err: errors.New("disk full")})

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = append(received, n) })

	bus.Errorf("x")
	require.Len(t, received, 1)
	assert.Zero(t, received[0].ID)
}

func TestBus_NilStore(t *testing.T) {
	bus := NewBus(nil)

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = append(received, n) })

	bus.Errorf("no store")
	assert.Len(t, received, 1)

	history, err := bus.History()
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.NoError(t, bus.Clear())
}
