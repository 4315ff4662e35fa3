// Package notify dispatches user-visible notifications to subscribers and
// persists them so failures stay visible after the screen that raised them
// is gone.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/ballotview/internal/core/notify"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Bus is a synchronous in-process notification bus. Subscribers run inline
// on the publishing goroutine, which for the terminal browser is the update
// loop.
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	mu          sync.Mutex
}

// NewBus creates a notification bus backed by store. A nil store dispatches
// without persisting.
func NewBus(store notify.Store) *Bus {
	return &Bus{store: store}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish persists n and then hands it to every subscriber.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	// persist first so subscribers see the id
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			log.Error().Err(err).Str("message", n.Message).Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

func (b *Bus) publishf(level notify.Level, source, format string, args ...any) {
	b.Publish(notify.Notification{
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	})
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.publishf(notify.LevelError, "", format, args...)
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.publishf(notify.LevelWarning, "", format, args...)
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.publishf(notify.LevelInfo, "", format, args...)
}

// For returns a reporter whose notifications carry source, typically a
// table name.
func (b *Bus) For(source string) *Reporter {
	return &Reporter{bus: b, source: source}
}

// History returns all persisted notifications, newest first. It returns nil
// without a store.
func (b *Bus) History() ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(context.Background())
}

// Clear deletes all persisted notifications.
func (b *Bus) Clear() error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(context.Background())
}

// Reporter publishes on a bus under a fixed source.
type Reporter struct {
	bus    *Bus
	source string
}

// Errorf publishes an error-level notification for the reporter's source.
func (r *Reporter) Errorf(format string, args ...any) {
	r.bus.publishf(notify.LevelError, r.source, format, args...)
}

// Warnf publishes a warning-level notification for the reporter's source.
func (r *Reporter) Warnf(format string, args ...any) {
	r.bus.publishf(notify.LevelWarning, r.source, format, args...)
}
