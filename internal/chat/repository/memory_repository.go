package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gochat/internal/chat/models"
)

// memoryRepository keeps messages in process. Used for local runs and tests.
type memoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Message
	// conversation key -> ids in insertion order
	convs map[string][]string
}

func NewMemoryRepository() MessageRepository {
	return &memoryRepository{
		byID:  make(map[string]*models.Message),
		convs: make(map[string][]string),
	}
}

func (r *memoryRepository) Insert(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ReplyTo != nil {
		if _, ok := r.byID[m.ReplyTo.ID]; !ok {
			return ErrMessageNotFound
		}
	}

	m.ID = primitive.NewObjectID().Hex()
	stored := m.Clone()
	stored.ReplyTo = stored.ReplyTo.Bare()
	r.byID[m.ID] = stored
	key := models.ConversationKey(m.SenderID, m.ReceiverID)
	r.convs[key] = append(r.convs[key], m.ID)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return m.Clone(), nil
}

func (r *memoryRepository) FindByIDs(_ context.Context, ids []string) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Message{}
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			out = append(out, m.Clone())
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *memoryRepository) FindConversation(_ context.Context, a, b uint64) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.convs[models.ConversationKey(a, b)]
	out := make([]*models.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id].Clone())
	}
	sortByCreated(out)
	return out, nil
}

func (r *memoryRepository) Redact(_ context.Context, id string, at time.Time) (*models.Message, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, false, ErrMessageNotFound
	}
	if m.IsDeleted {
		return m.Clone(), false, nil
	}
	m.Redact()
	m.UpdatedAt = at
	return m.Clone(), true, nil
}

func (r *memoryRepository) UpdateText(_ context.Context, id, text string, at time.Time) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	if m.IsDeleted {
		return nil, ErrMessageDeleted
	}
	m.Text = &text
	m.IsEdited = true
	m.UpdatedAt = at
	return m.Clone(), nil
}

// insertion order breaks createdAt ties, same as the _id tiebreak in mongo
func sortByCreated(ms []*models.Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}
