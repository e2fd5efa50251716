// Package reply resolves a message's replyTo reference into something displayable.
//
// A reference is either already expanded (the parent snapshot travels with the
// message) or a bare id that must be looked up. Lookups go through a Source: on
// the server that is the message store, on a client it is the conversation
// window it already holds. A reference that cannot be resolved renders as a
// placeholder; it never makes the message itself fail.
package reply

import (
	"context"

	"gochat/internal/chat/models"
)

const (
	PlaceholderLabel = "Message"
	TombstoneLabel   = "Message deleted"
	PhotoLabel       = "Photo"
)

type Source interface {
	Lookup(ctx context.Context, id string) (*models.Message, bool)
}

type SourceFunc func(ctx context.Context, id string) (*models.Message, bool)

func (f SourceFunc) Lookup(ctx context.Context, id string) (*models.Message, bool) {
	return f(ctx, id)
}

// Window is a Source over messages already in hand.
type Window map[string]*models.Message

func NewWindow(msgs []*models.Message) Window {
	w := make(Window, len(msgs))
	for _, m := range msgs {
		w[m.ID] = m
	}
	return w
}

func (w Window) Lookup(_ context.Context, id string) (*models.Message, bool) {
	m, ok := w[id]
	return m, ok
}

// Chain tries each source in order.
type Chain []Source

func (c Chain) Lookup(ctx context.Context, id string) (*models.Message, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if m, ok := s.Lookup(ctx, id); ok {
			return m, true
		}
	}
	return nil, false
}

type State int

const (
	Unresolved State = iota
	Live
	Tombstone
)

func (s State) String() string {
	switch s {
	case Live:
		return "live"
	case Tombstone:
		return "tombstone"
	}
	return "unresolved"
}

// Preview is the quoted-parent line shown above a reply.
type Preview struct {
	State    State
	ParentID string
	SenderID uint64
	Label    string
	HasImage bool
}

type Resolver struct {
	src Source
}

func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Parent returns the parent of m, preferring an expanded snapshot over a lookup.
func (r *Resolver) Parent(ctx context.Context, m *models.Message) (*models.Message, bool) {
	if m == nil || m.ReplyTo == nil {
		return nil, false
	}
	if m.ReplyTo.IsResolved() {
		return m.ReplyTo.Parent, true
	}
	if r.src == nil || m.ReplyTo.ID == "" {
		return nil, false
	}
	return r.src.Lookup(ctx, m.ReplyTo.ID)
}

// Preview returns nil when m is not a reply.
func (r *Resolver) Preview(ctx context.Context, m *models.Message) *Preview {
	if m == nil || m.ReplyTo == nil {
		return nil
	}
	parent, ok := r.Parent(ctx, m)
	if !ok {
		return &Preview{State: Unresolved, ParentID: m.ReplyTo.ID, Label: PlaceholderLabel}
	}
	return PreviewOf(parent)
}

func PreviewOf(parent *models.Message) *Preview {
	p := &Preview{ParentID: parent.ID, SenderID: parent.SenderID}
	switch {
	case parent.IsDeleted:
		p.State = Tombstone
		p.Label = TombstoneLabel
	case parent.Text != nil && *parent.Text != "":
		p.State = Live
		p.Label = *parent.Text
		p.HasImage = parent.HasImage()
	case parent.HasImage():
		p.State = Live
		p.Label = PhotoLabel
		p.HasImage = true
	default:
		p.State = Live
		p.Label = PlaceholderLabel
	}
	return p
}

// Expand returns a copy of m whose replyTo carries the parent snapshot when it
// can be found. Unresolvable references stay bare ids.
func (r *Resolver) Expand(ctx context.Context, m *models.Message) *models.Message {
	out := m.Clone()
	if out == nil || out.ReplyTo == nil {
		return out
	}
	if parent, ok := r.Parent(ctx, m); ok {
		out.ReplyTo = models.Resolved(parent.Snapshot())
	}
	return out
}

func (r *Resolver) ExpandAll(ctx context.Context, msgs []*models.Message) []*models.Message {
	out := make([]*models.Message, len(msgs))
	for i, m := range msgs {
		out[i] = r.Expand(ctx, m)
	}
	return out
}
