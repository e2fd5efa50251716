package client

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"gochat/internal/chat/models"
	"gochat/internal/chat/reply"
)

// pendingOp is an edit or delete that arrived before the message it targets.
type pendingOp struct {
	deleted bool
	edit    *models.Message
	at      time.Time
}

// ConversationCache is the client's view of one conversation. Messages keep
// arrival order; mutations address them by id. Edits and deletes for unknown
// ids are held in a bounded buffer and replayed when the message shows up.
// A delete always wins over an edit.
type ConversationCache struct {
	mu      sync.Mutex
	self    uint64
	peer    uint64
	order   []string
	byID    map[string]*models.Message
	pending *lru.Cache
	ttl     time.Duration
	now     func() time.Time
}

func NewConversationCache(self, peer uint64, pendingSize int, pendingTTL time.Duration) (*ConversationCache, error) {
	if pendingSize <= 0 {
		pendingSize = 1
	}
	pending, err := lru.New(pendingSize)
	if err != nil {
		return nil, err
	}
	return &ConversationCache{
		self:    self,
		peer:    peer,
		byID:    make(map[string]*models.Message),
		pending: pending,
		ttl:     pendingTTL,
		now:     time.Now,
	}, nil
}

func (c *ConversationCache) Peer() uint64 { return c.peer }

// Load replaces the cache with msgs, typically a fresh history fetch.
// Messages outside the conversation and repeated ids are skipped.
func (c *ConversationCache) Load(msgs []*models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.order[:0]
	c.byID = make(map[string]*models.Message, len(msgs))
	for _, m := range msgs {
		if m == nil || !m.InConversation(c.self, c.peer) {
			continue
		}
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		c.insertLocked(m)
	}
	c.refreshRepliesLocked()
}

// ApplyCreated appends m unless its id is already cached. It reports whether m was added.
func (c *ConversationCache) ApplyCreated(m *models.Message) bool {
	if m == nil || !m.InConversation(c.self, c.peer) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[m.ID]; ok {
		return false
	}
	c.insertLocked(m)
	c.refreshRepliesLocked()
	return true
}

// ApplyDeleted redacts the message in place. It reports whether anything changed.
func (c *ConversationCache) ApplyDeleted(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.byID[id]
	if !ok {
		c.pending.Add(id, pendingOp{deleted: true, at: c.now()})
		return false
	}
	if m.IsDeleted {
		return false
	}
	m.Redact()
	c.refreshRepliesLocked()
	return true
}

// ApplyEdited replaces the cached copy at the same position. Edits of deleted
// messages are ignored.
func (c *ConversationCache) ApplyEdited(m *models.Message) bool {
	if m == nil || !m.InConversation(c.self, c.peer) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.byID[m.ID]
	if !ok {
		c.bufferEditLocked(m)
		return false
	}
	if cur.IsDeleted {
		return false
	}
	switch {
	case m.IsDeleted:
		cur.Redact()
	case m.UpdatedAt.Before(cur.UpdatedAt):
		// stale edit
		return false
	default:
		c.byID[m.ID] = m.Clone()
	}
	c.refreshRepliesLocked()
	return true
}

// Apply routes a dispatcher event to the matching mutation.
func (c *ConversationCache) Apply(ev models.Event) bool {
	switch ev.Type {
	case models.EventMessageCreated:
		return c.ApplyCreated(ev.Message)
	case models.EventMessageDeleted:
		return c.ApplyDeleted(ev.MessageID)
	case models.EventMessageEdited:
		return c.ApplyEdited(ev.Message)
	}
	return false
}

// Messages returns copies in display order.
func (c *ConversationCache) Messages() []*models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.Message, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

func (c *ConversationCache) Get(id string) (*models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byID[id]
	return m.Clone(), ok
}

func (c *ConversationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Preview resolves the reply line of message id against the cached window.
func (c *ConversationCache) Preview(id string) *reply.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.byID[id]
	if !ok {
		return nil
	}
	return reply.New(reply.Window(c.byID)).Preview(context.Background(), m)
}

func (c *ConversationCache) insertLocked(m *models.Message) {
	m = m.Clone()
	c.replayLocked(m)
	c.byID[m.ID] = m
	c.order = append(c.order, m.ID)
}

func (c *ConversationCache) bufferEditLocked(m *models.Message) {
	if v, ok := c.pending.Peek(m.ID); ok && v.(pendingOp).deleted {
		return
	}
	c.pending.Add(m.ID, pendingOp{edit: m.Clone(), at: c.now()})
}

// replayLocked applies a buffered operation to m as it enters the cache.
func (c *ConversationCache) replayLocked(m *models.Message) {
	v, ok := c.pending.Get(m.ID)
	if !ok {
		return
	}
	c.pending.Remove(m.ID)
	op := v.(pendingOp)
	if c.ttl > 0 && c.now().Sub(op.at) > c.ttl {
		return
	}
	switch {
	case op.deleted:
		m.Redact()
	case m.IsDeleted:
	case op.edit != nil && !op.edit.UpdatedAt.Before(m.UpdatedAt):
		*m = *op.edit
	}
}

// refreshRepliesLocked points every reply at the current cached parent so
// edits and deletes of a parent show up in the quoted line.
func (c *ConversationCache) refreshRepliesLocked() {
	for _, id := range c.order {
		m := c.byID[id]
		if m.ReplyTo == nil {
			continue
		}
		if parent, ok := c.byID[m.ReplyTo.ID]; ok {
			m.ReplyTo = models.Resolved(parent.Snapshot())
		}
	}
}
