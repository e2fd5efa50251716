package delivery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gochat/internal/chat/models"
)

// Observer sees every dispatched event after the delivery attempt.
type Observer interface {
	Update(ctx context.Context, ev models.Event) error
	Name() string
}

// ObserverHub fans events out to observers on a small worker pool so a slow
// observer never holds up a send.
type ObserverHub struct {
	observers map[string]Observer
	events    chan models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	wg        sync.WaitGroup
	log       *zap.Logger
}

func NewObserverHub(workers, buffer int, log *zap.Logger) *ObserverHub {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1000
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := &ObserverHub{
		observers: make(map[string]Observer),
		events:    make(chan models.Event, buffer),
		ctx:       ctx,
		cancel:    cancel,
		log:       log,
	}
	for i := 0; i < workers; i++ {
		h.wg.Add(1)
		go h.processEvents()
	}
	return h
}

func (h *ObserverHub) Subscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[o.Name()] = o
	h.log.Info("observer subscribed", zap.String("observer", o.Name()))
}

func (h *ObserverHub) Unsubscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.observers, o.Name())
	h.log.Info("observer unsubscribed", zap.String("observer", o.Name()))
}

// Notify runs every observer in the caller's goroutine.
func (h *ObserverHub) Notify(ctx context.Context, ev models.Event) {
	h.mu.RLock()
	observers := make([]Observer, 0, len(h.observers))
	for _, o := range h.observers {
		observers = append(observers, o)
	}
	h.mu.RUnlock()

	for _, o := range observers {
		if err := o.Update(ctx, ev); err != nil {
			h.log.Warn("observer update failed",
				zap.String("observer", o.Name()),
				zap.String("event", string(ev.Type)),
				zap.Error(err))
		}
	}
}

// NotifyAsync queues ev for the workers. Events are dropped when the queue is full.
func (h *ObserverHub) NotifyAsync(ev models.Event) bool {
	select {
	case <-h.ctx.Done():
		return false
	default:
	}
	select {
	case h.events <- ev:
		return true
	default:
		h.log.Warn("observer queue full, dropping event", zap.String("event", string(ev.Type)))
		return false
	}
}

func (h *ObserverHub) processEvents() {
	defer h.wg.Done()
	for {
		select {
		case ev := <-h.events:
			h.Notify(h.ctx, ev)
		case <-h.ctx.Done():
			// drain what is already queued
			for {
				select {
				case ev := <-h.events:
					h.Notify(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

// Shutdown stops the workers after the queue is drained.
func (h *ObserverHub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}
