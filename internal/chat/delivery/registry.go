package delivery

import (
	"sort"
	"sync"

	"gochat/internal/chat/models"
)

// Conn is one live client connection.
type Conn interface {
	ID() string
	UserID() uint64
	// Send queues ev without blocking. False means the event was not accepted.
	Send(ev models.Event) bool
	Close()
}

// Registry maps a user to at most one live connection on this instance.
type Registry struct {
	mu    sync.RWMutex
	conns map[uint64]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]Conn)}
}

// Register makes c the user's connection and returns the one it replaced, if any.
// The caller owns closing the replaced connection.
func (r *Registry) Register(userID uint64, c Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.conns[userID]
	r.conns[userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// Unregister removes c only if it is still the user's current connection,
// so a late disconnect cannot evict a newer one.
func (r *Registry) Unregister(userID uint64, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[userID]; ok && cur == c {
		delete(r.conns, userID)
		return true
	}
	return false
}

func (r *Registry) Lookup(userID uint64) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conns[userID]
	return c, ok
}

// Online lists connected user ids in ascending order.
func (r *Registry) Online() []uint64 {
	r.mu.RLock()
	ids := make([]uint64, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
