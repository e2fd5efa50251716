// Package models holds the chat domain types shared by server and client.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Message is one direct message. Deleted messages are kept as redacted tombstones.
type Message struct {
	ID         string    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Text       *string   `json:"text"`
	Image      *string   `json:"image"`
	ReplyTo    *ReplyRef `json:"replyTo"`
	IsDeleted  bool      `json:"isDeleted"`
	IsEdited   bool      `json:"isEdited"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SendRequest is the body of a send. Image is a base64 data URI, ReplyTo a parent id.
type SendRequest struct {
	Text    *string `json:"text"`
	Image   *string `json:"image"`
	ReplyTo string  `json:"replyTo,omitempty"`
}

type messageJSON Message

// MarshalJSON never lets content of a deleted message leave the process.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.IsDeleted {
		m.Text, m.Image = nil, nil
	}
	return json.Marshal(messageJSON(m))
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Message(raw)
	if m.IsDeleted {
		m.Text, m.Image = nil, nil
	}
	return nil
}

// Redact turns the message into a tombstone.
func (m *Message) Redact() {
	m.IsDeleted = true
	m.Text = nil
	m.Image = nil
}

func (m *Message) HasImage() bool {
	return m.Image != nil && *m.Image != ""
}

// Clone copies the message including its pointer fields.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	if m.Text != nil {
		t := *m.Text
		c.Text = &t
	}
	if m.Image != nil {
		i := *m.Image
		c.Image = &i
	}
	if m.ReplyTo != nil {
		c.ReplyTo = m.ReplyTo.Clone()
	}
	return &c
}

// Snapshot is the copy embedded as a reply parent: its own reply is kept as a bare id.
func (m *Message) Snapshot() *Message {
	c := m.Clone()
	if c.ReplyTo != nil {
		c.ReplyTo = RefTo(c.ReplyTo.ID)
	}
	if c.IsDeleted {
		c.Text, c.Image = nil, nil
	}
	return c
}

func (m *Message) InConversation(a, b uint64) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

// Peer returns the other participant from userID's point of view.
func (m *Message) Peer(userID uint64) uint64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ConversationKey names the unordered pair {a, b}.
func ConversationKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ReplyRef is either a bare parent id or a resolved parent snapshot.
// On the wire it is a JSON string or a JSON object; both decode.
type ReplyRef struct {
	ID     string
	Parent *Message
}

func RefTo(id string) *ReplyRef {
	return &ReplyRef{ID: id}
}

func Resolved(parent *Message) *ReplyRef {
	return &ReplyRef{ID: parent.ID, Parent: parent}
}

func (r *ReplyRef) IsResolved() bool {
	return r != nil && r.Parent != nil
}

// Bare drops the snapshot and keeps only the id.
func (r *ReplyRef) Bare() *ReplyRef {
	if r == nil {
		return nil
	}
	return RefTo(r.ID)
}

func (r *ReplyRef) Clone() *ReplyRef {
	if r == nil {
		return nil
	}
	return &ReplyRef{ID: r.ID, Parent: r.Parent.Clone()}
}

func (r ReplyRef) MarshalJSON() ([]byte, error) {
	if r.Parent != nil {
		return json.Marshal(r.Parent)
	}
	return json.Marshal(r.ID)
}

func (r *ReplyRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty replyTo")
	}
	switch b[0] {
	case '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = ReplyRef{ID: id}
		return nil
	case '{':
		var parent Message
		if err := json.Unmarshal(b, &parent); err != nil {
			return err
		}
		if parent.ID == "" {
			return errors.New("replyTo object has no id")
		}
		*r = ReplyRef{ID: parent.ID, Parent: &parent}
		return nil
	}
	return fmt.Errorf("replyTo must be a string or an object, got %s", b)
}
