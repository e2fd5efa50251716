package delivery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"gochat/internal/chat/models"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
}

type eventRecord struct {
	Type         models.EventType `json:"type"`
	MessageID    string           `json:"messageId"`
	SenderID     uint64           `json:"senderId"`
	ReceiverID   uint64           `json:"receiverId"`
	Conversation string           `json:"conversation"`
	At           time.Time        `json:"at"`
	Message      *models.Message  `json:"message,omitempty"`
}

// EventPublisher is an Observer that appends every message event to a kafka
// topic, keyed by conversation so one conversation stays on one partition.
type EventPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewEventPublisher(w MessageWriter) *EventPublisher {
	return &EventPublisher{writer: w, now: time.Now}
}

func (p *EventPublisher) Name() string { return "kafka_publisher" }

func (p *EventPublisher) Update(ctx context.Context, ev models.Event) error {
	msg, ok, err := p.record(ev)
	if err != nil || !ok {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *EventPublisher) record(ev models.Event) (kafka.Message, bool, error) {
	if ev.Message == nil {
		return kafka.Message{}, false, nil
	}
	m := ev.Message
	rec := eventRecord{
		Type:         ev.Type,
		MessageID:    m.ID,
		SenderID:     m.SenderID,
		ReceiverID:   m.ReceiverID,
		Conversation: models.ConversationKey(m.SenderID, m.ReceiverID),
		At:           p.now().UTC(),
	}
	if ev.Type != models.EventMessageDeleted {
		rec.Message = m
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return kafka.Message{}, false, err
	}
	return kafka.Message{
		Key:   []byte(rec.Conversation),
		Value: value,
		Time:  rec.At,
	}, true, nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
