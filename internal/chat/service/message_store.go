package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gochat/internal/chat/models"
	"gochat/internal/chat/reply"
	"gochat/internal/chat/repository"
	"gochat/internal/common"
	"gochat/internal/metrics"
)

// NewMessage is the input to Create. ReplyTo is a parent id or empty.
type NewMessage struct {
	SenderID   uint64
	ReceiverID uint64
	Text       *string
	Image      *string
	ReplyTo    string
}

// MessageStore is the authoritative record of messages, tombstones included.
type MessageStore struct {
	repo    repository.MessageRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMessageStore(repo repository.MessageRepository, m *metrics.Metrics) *MessageStore {
	return &MessageStore{repo: repo, metrics: m, now: time.Now}
}

// Create persists a message. A reply parent must exist in the same
// conversation, and the reply is stamped strictly after it.
func (s *MessageStore) Create(ctx context.Context, in NewMessage) (*models.Message, error) {
	createdAt := s.now().UTC().Truncate(time.Millisecond)

	m := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		Image:      in.Image,
	}

	if in.ReplyTo != "" {
		parent, err := s.ReplyTarget(ctx, in.SenderID, in.ReceiverID, in.ReplyTo)
		if err != nil {
			return nil, err
		}
		if !createdAt.After(parent.CreatedAt) {
			createdAt = parent.CreatedAt.Add(time.Millisecond)
		}
		m.ReplyTo = models.RefTo(parent.ID)
	}

	m.CreatedAt = createdAt
	m.UpdatedAt = createdAt

	if err := s.repo.Insert(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, common.NotFound("Reply target not found")
		}
		return nil, err
	}
	s.metrics.Message("create")
	return m, nil
}

// ReplyTarget loads the parent a reply between a and b may point at.
func (s *MessageStore) ReplyTarget(ctx context.Context, a, b uint64, id string) (*models.Message, error) {
	parent, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return nil, common.NotFound("Reply target not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load reply target: %w", err)
	}
	if !parent.InConversation(a, b) {
		return nil, common.NotFound("Reply target not found")
	}
	return parent, nil
}

func (s *MessageStore) Get(ctx context.Context, id string) (*models.Message, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return nil, common.NotFound("Message not found")
	}
	return m, err
}

// Lookup lets the store act as the server-side reply source.
func (s *MessageStore) Lookup(ctx context.Context, id string) (*models.Message, bool) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return m, true
}

// ListConversation returns the pair's messages oldest first, deleted ones
// included, with every resolvable reply expanded to its parent snapshot.
func (s *MessageStore) ListConversation(ctx context.Context, a, b uint64) ([]*models.Message, error) {
	msgs, err := s.repo.FindConversation(ctx, a, b)
	if err != nil {
		return nil, err
	}

	window := reply.NewWindow(msgs)
	var missing []string
	seen := make(map[string]bool)
	for _, m := range msgs {
		if m.ReplyTo == nil || m.ReplyTo.IsResolved() {
			continue
		}
		id := m.ReplyTo.ID
		if _, ok := window[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}

	src := reply.Chain{window}
	if len(missing) > 0 {
		extra, err := s.repo.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		src = append(src, reply.NewWindow(extra))
	}
	return reply.New(src).ExpandAll(ctx, msgs), nil
}

func (s *MessageStore) SoftDelete(ctx context.Context, id string, requesterID uint64) (*models.Message, error) {
	m, _, err := s.softDelete(ctx, id, requesterID)
	return m, err
}

// softDelete reports whether this call did the redaction.
func (s *MessageStore) softDelete(ctx context.Context, id string, requesterID uint64) (*models.Message, bool, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if current.SenderID != requesterID {
		return nil, false, common.Forbidden("You can only delete your own messages")
	}
	if current.IsDeleted {
		return current, false, nil
	}

	m, changed, err := s.repo.Redact(ctx, id, s.now().UTC())
	if errors.Is(err, repository.ErrMessageNotFound) {
		return nil, false, common.NotFound("Message not found")
	}
	if err != nil {
		return nil, false, err
	}
	if changed {
		s.metrics.Message("delete")
	}
	return m, changed, nil
}

func (s *MessageStore) Edit(ctx context.Context, id string, requesterID uint64, newText string) (*models.Message, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.SenderID != requesterID {
		return nil, common.Forbidden("You can only edit your own messages")
	}
	if current.IsDeleted {
		return nil, common.Invalid("Cannot edit a deleted message")
	}
	if !common.HasText(&newText) {
		return nil, common.Invalid("Message text cannot be empty")
	}
	if err := common.ValidateMessageText(newText); err != nil {
		return nil, err
	}

	m, err := s.repo.UpdateText(ctx, id, newText, s.now().UTC())
	switch {
	case errors.Is(err, repository.ErrMessageDeleted):
		// lost a race with a delete
		return nil, common.Invalid("Cannot edit a deleted message")
	case errors.Is(err, repository.ErrMessageNotFound):
		return nil, common.NotFound("Message not found")
	case err != nil:
		return nil, err
	}
	s.metrics.Message("edit")
	return m, nil
}
