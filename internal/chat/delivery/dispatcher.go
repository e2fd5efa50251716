// Package delivery pushes message events to the receiver's live connection.
//
// Delivery is best effort and at-most-once: an event goes to the receiver's
// connection on this instance, or through the relay to the instance holding
// it, or nowhere. There is no queue and no retry. A receiver who is offline
// simply sees the change the next time they load the conversation.
package delivery

import (
	"context"

	"go.uber.org/zap"

	"gochat/internal/chat/models"
	"gochat/internal/metrics"
)

type Outcome string

const (
	Delivered Outcome = "delivered"
	Relayed   Outcome = "relayed"
	// Dropped covers an offline receiver and a connection that could not take the event.
	Dropped Outcome = "dropped"
)

// Relay forwards an event to another instance that holds the recipient's connection.
type Relay interface {
	// Forward reports whether the recipient is connected elsewhere and the event was handed off.
	Forward(ctx context.Context, ev models.Event) (bool, error)
}

type Dispatcher struct {
	registry  *Registry
	relay     Relay
	observers *ObserverHub
	metrics   *metrics.Metrics
	log       *zap.Logger
}

type Option func(*Dispatcher)

func WithRelay(r Relay) Option { return func(d *Dispatcher) { d.relay = r } }

func WithObservers(h *ObserverHub) Option { return func(d *Dispatcher) { d.observers = h } }

func WithMetrics(m *metrics.Metrics) Option { return func(d *Dispatcher) { d.metrics = m } }

func NewDispatcher(registry *Registry, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

func (d *Dispatcher) MessageCreated(ctx context.Context, m *models.Message) Outcome {
	return d.Dispatch(ctx, models.MessageCreated(m.ReceiverID, m))
}

func (d *Dispatcher) MessageDeleted(ctx context.Context, m *models.Message) Outcome {
	return d.Dispatch(ctx, models.MessageDeleted(m.ReceiverID, m))
}

func (d *Dispatcher) MessageEdited(ctx context.Context, m *models.Message) Outcome {
	return d.Dispatch(ctx, models.MessageEdited(m.ReceiverID, m))
}

// Dispatch never fails the caller; the outcome is for metrics and tests.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.Event) Outcome {
	outcome := d.route(ctx, ev)

	d.metrics.Event(string(ev.Type), string(outcome))
	if outcome == Dropped {
		d.log.Debug("event not delivered",
			zap.String("event", string(ev.Type)),
			zap.Uint64("recipient", ev.RecipientID),
			zap.String("message_id", ev.MessageID))
	}
	if d.observers != nil && ev.Type != models.EventOnlineUsers {
		d.observers.NotifyAsync(ev)
	}
	return outcome
}

func (d *Dispatcher) route(ctx context.Context, ev models.Event) Outcome {
	if conn, ok := d.registry.Lookup(ev.RecipientID); ok {
		if conn.Send(ev) {
			return Delivered
		}
		d.log.Warn("connection send buffer full",
			zap.Uint64("recipient", ev.RecipientID),
			zap.String("conn_id", conn.ID()))
		return Dropped
	}
	if d.relay == nil {
		return Dropped
	}
	forwarded, err := d.relay.Forward(ctx, ev)
	if err != nil {
		d.log.Warn("relay forward failed", zap.Uint64("recipient", ev.RecipientID), zap.Error(err))
		return Dropped
	}
	if forwarded {
		return Relayed
	}
	return Dropped
}

// DeliverLocal hands a relayed event to a connection on this instance. It never relays again.
func (d *Dispatcher) DeliverLocal(ev models.Event) bool {
	conn, ok := d.registry.Lookup(ev.RecipientID)
	if !ok {
		return false
	}
	return conn.Send(ev)
}

// BroadcastOnline tells every local connection who is online.
func (d *Dispatcher) BroadcastOnline(online []uint64) {
	for _, id := range d.registry.Online() {
		if conn, ok := d.registry.Lookup(id); ok {
			conn.Send(models.OnlineUsers(id, online))
		}
	}
}
