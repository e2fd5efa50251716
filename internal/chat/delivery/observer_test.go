package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gochat/internal/chat/models"
)

type recordingObserver struct {
	name string
	err  error
	mu   sync.Mutex
	seen []models.Event
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Update(_ context.Context, ev models.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, ev)
	return o.err
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.seen)
}

func TestObserverHub_NotifyAll(t *testing.T) {
	hub := NewObserverHub(1, 10, zap.NewNop())
	defer hub.Shutdown()

	ok := &recordingObserver{name: "ok"}
	failing := &recordingObserver{name: "failing", err: errors.New("broker down")}
	hub.Subscribe(ok)
	hub.Subscribe(failing)

	hub.Notify(context.Background(), models.MessageCreated(2, textMessage("m1", 1, 2, "hi")))
	assert.Equal(t, 1, ok.count(), "a failing observer does not stop the others")
	assert.Equal(t, 1, failing.count())

	hub.Unsubscribe(failing)
	hub.Notify(context.Background(), models.MessageCreated(2, textMessage("m2", 1, 2, "hi")))
	assert.Equal(t, 2, ok.count())
	assert.Equal(t, 1, failing.count())
}

func TestObserverHub_AsyncDrainsOnShutdown(t *testing.T) {
	hub := NewObserverHub(2, 100, zap.NewNop())
	obs := &recordingObserver{name: "audit"}
	hub.Subscribe(obs)

	for i := 0; i < 20; i++ {
		require.True(t, hub.NotifyAsync(models.MessageCreated(2, textMessage("m", 1, 2, "hi"))))
	}
	hub.Shutdown()

	assert.Equal(t, 20, obs.count())
	assert.False(t, hub.NotifyAsync(models.MessageCreated(2, textMessage("late", 1, 2, "hi"))))
}

func TestDispatcher_FeedsObservers(t *testing.T) {
	hub := NewObserverHub(1, 10, zap.NewNop())
	obs := &recordingObserver{name: "audit"}
	hub.Subscribe(obs)
	d := NewDispatcher(NewRegistry(), zap.NewNop(), WithObservers(hub))

	// observers see the event even though nobody is online
	assert.Equal(t, Dropped, d.MessageCreated(context.Background(), textMessage("m1", 1, 2, "hi")))
	d.BroadcastOnline([]uint64{1})

	assert.Eventually(t, func() bool { return obs.count() == 1 }, time.Second, 10*time.Millisecond)
	hub.Shutdown()
	assert.Equal(t, 1, obs.count())
}
