package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gochat/internal/chat/delivery"
	"gochat/internal/chat/models"
	"gochat/internal/chat/reply"
	"gochat/internal/common"
	"gochat/internal/config"
)

//go:generate mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks

// Notifier pushes message events to the receiver. Outcomes are informational;
// a dropped event never fails the operation that produced it.
type Notifier interface {
	MessageCreated(ctx context.Context, m *models.Message) delivery.Outcome
	MessageDeleted(ctx context.Context, m *models.Message) delivery.Outcome
	MessageEdited(ctx context.Context, m *models.Message) delivery.Outcome
}

// ChatService is what the HTTP layer talks to
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID uint64, req models.SendRequest) (*models.Message, error)
	GetConversation(ctx context.Context, callerID, peerID uint64) ([]*models.Message, error)
	DeleteMessage(ctx context.Context, callerID uint64, messageID string) (*models.Message, error)
	EditMessage(ctx context.Context, callerID uint64, messageID, newText string) (*models.Message, error)
}

type chatService struct {
	store    *MessageStore
	users    common.UserDirectory
	images   common.ImageHost
	notifier Notifier
	resolver *reply.Resolver
	maxImage int
	log      *zap.Logger
}

func NewChatService(
	store *MessageStore,
	users common.UserDirectory,
	images common.ImageHost,
	notifier Notifier,
	media config.MediaConfig,
	log *zap.Logger,
) ChatService {
	return &chatService{
		store:    store,
		users:    users,
		images:   images,
		notifier: notifier,
		resolver: reply.New(store),
		maxImage: media.MaxImageBytes,
		log:      log,
	}
}

// SendMessage validates, persists, expands the reply and only then notifies
// the receiver. Empty messages are rejected before anything is stored.
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID uint64, req models.SendRequest) (*models.Message, error) {
	if receiverID == 0 {
		return nil, common.Invalid("Receiver is required")
	}
	if senderID == receiverID {
		return nil, common.Invalid("You cannot send a message to yourself")
	}

	hasText := common.HasText(req.Text)
	hasImage := req.Image != nil && strings.TrimSpace(*req.Image) != ""
	if !hasText && !hasImage {
		return nil, common.Invalid("Message must contain text or an image")
	}

	in := NewMessage{SenderID: senderID, ReceiverID: receiverID, ReplyTo: strings.TrimSpace(req.ReplyTo)}
	if hasText {
		if err := common.ValidateMessageText(*req.Text); err != nil {
			return nil, err
		}
		in.Text = req.Text
	}

	exists, err := s.users.UserExists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NotFound("User not found")
	}

	// the reply target is checked before anything is uploaded
	if hasImage && in.ReplyTo != "" {
		if _, err := s.store.ReplyTarget(ctx, senderID, receiverID, in.ReplyTo); err != nil {
			return nil, err
		}
	}
	if hasImage {
		uri, err := s.uploadImage(ctx, senderID, *req.Image)
		if err != nil {
			return nil, err
		}
		in.Image = &uri
	}

	m, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	m = s.resolver.Expand(ctx, m)

	outcome := s.notifier.MessageCreated(ctx, m)
	s.log.Debug("message sent",
		zap.String("message_id", m.ID),
		zap.Uint64("sender_id", senderID),
		zap.Uint64("receiver_id", receiverID),
		zap.String("delivery", string(outcome)))
	return m, nil
}

func (s *chatService) uploadImage(ctx context.Context, ownerID uint64, dataURI string) (string, error) {
	if s.images == nil {
		return "", common.Invalid("Image uploads are not enabled")
	}
	img, err := common.ParseImageDataURI(dataURI, s.maxImage)
	if err != nil {
		return "", err
	}
	return s.images.Upload(ctx, ownerID, img)
}

func (s *chatService) GetConversation(ctx context.Context, callerID, peerID uint64) ([]*models.Message, error) {
	if peerID == 0 {
		return nil, common.Invalid("User id is required")
	}
	return s.store.ListConversation(ctx, callerID, peerID)
}

// DeleteMessage notifies only when this call turned the message into a tombstone.
func (s *chatService) DeleteMessage(ctx context.Context, callerID uint64, messageID string) (*models.Message, error) {
	m, changed, err := s.store.softDelete(ctx, messageID, callerID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.notifier.MessageDeleted(ctx, m)
	}
	return m, nil
}

func (s *chatService) EditMessage(ctx context.Context, callerID uint64, messageID, newText string) (*models.Message, error) {
	m, err := s.store.Edit(ctx, messageID, callerID, newText)
	if err != nil {
		return nil, err
	}
	m = s.resolver.Expand(ctx, m)
	s.notifier.MessageEdited(ctx, m)
	return m, nil
}
