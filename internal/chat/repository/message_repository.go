package repository

import (
	"context"
	"errors"
	"time"

	"gochat/internal/chat/models"
)

//go:generate mockgen -source=message_repository.go -destination=../mocks/mock_message_repository.go -package=mocks

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrMessageDeleted  = errors.New("message is deleted")
)

// MessageRepository persists messages. Rows are never removed; deletion is redaction.
type MessageRepository interface {
	// Insert stores m and assigns m.ID.
	Insert(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	// FindByIDs skips ids that do not exist.
	FindByIDs(ctx context.Context, ids []string) ([]*models.Message, error)
	// FindConversation returns the pair's messages oldest first.
	FindConversation(ctx context.Context, a, b uint64) ([]*models.Message, error)
	// Redact marks the message deleted and clears its content. changed is false
	// when it was already deleted.
	Redact(ctx context.Context, id string, at time.Time) (msg *models.Message, changed bool, err error)
	// UpdateText replaces the text of a live message and flags it edited.
	// Returns ErrMessageDeleted when the message was deleted first.
	UpdateText(ctx context.Context, id, text string, at time.Time) (*models.Message, error)
}
