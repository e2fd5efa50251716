package models

import (
	"encoding/json"
	"fmt"
)

type EventType string

const (
	EventMessageCreated EventType = "message-created"
	EventMessageDeleted EventType = "message-deleted"
	EventMessageEdited  EventType = "message-edited"
	EventOnlineUsers    EventType = "online-users"
)

// Event is one push to a live connection. RecipientID is routing only and never serialized.
type Event struct {
	Type        EventType
	RecipientID uint64
	Message     *Message
	MessageID   string
	OnlineUsers []uint64
}

func MessageCreated(recipient uint64, m *Message) Event {
	return Event{Type: EventMessageCreated, RecipientID: recipient, Message: m, MessageID: m.ID}
}

func MessageDeleted(recipient uint64, m *Message) Event {
	return Event{Type: EventMessageDeleted, RecipientID: recipient, Message: m, MessageID: m.ID}
}

func MessageEdited(recipient uint64, m *Message) Event {
	return Event{Type: EventMessageEdited, RecipientID: recipient, Message: m, MessageID: m.ID}
}

func OnlineUsers(recipient uint64, ids []uint64) Event {
	return Event{Type: EventOnlineUsers, RecipientID: recipient, OnlineUsers: ids}
}

type frame struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON writes {"type": ..., "data": ...}. A deletion carries only the message id.
func (e Event) MarshalJSON() ([]byte, error) {
	var data any
	switch e.Type {
	case EventMessageCreated, EventMessageEdited:
		data = e.Message
	case EventMessageDeleted:
		data = e.MessageID
	case EventOnlineUsers:
		ids := e.OnlineUsers
		if ids == nil {
			ids = []uint64{}
		}
		data = ids
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Type: e.Type, Data: raw})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var f frame
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	out := Event{Type: f.Type}
	switch f.Type {
	case EventMessageCreated, EventMessageEdited:
		var m Message
		if err := json.Unmarshal(f.Data, &m); err != nil {
			return fmt.Errorf("decode %s: %w", f.Type, err)
		}
		out.Message = &m
		out.MessageID = m.ID
	case EventMessageDeleted:
		if err := json.Unmarshal(f.Data, &out.MessageID); err != nil {
			return fmt.Errorf("decode %s: %w", f.Type, err)
		}
	case EventOnlineUsers:
		if err := json.Unmarshal(f.Data, &out.OnlineUsers); err != nil {
			return fmt.Errorf("decode %s: %w", f.Type, err)
		}
	default:
		return fmt.Errorf("unknown event type %q", f.Type)
	}
	*e = out
	return nil
}
