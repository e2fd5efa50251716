package client

import (
	"fmt"
	"io"
	"strings"

	"gochat/internal/chat/models"
	"gochat/internal/chat/reply"
)

const DeletedBody = "This message was deleted"

// Body is the text shown for a message in the timeline.
func Body(m *models.Message) string {
	if m.IsDeleted {
		return DeletedBody
	}
	var parts []string
	if m.Text != nil && *m.Text != "" {
		parts = append(parts, *m.Text)
	}
	if m.HasImage() {
		parts = append(parts, "["+reply.PhotoLabel+"] "+*m.Image)
	}
	return strings.Join(parts, " ")
}

// Render writes the conversation as the terminal client shows it.
func Render(w io.Writer, c *ConversationCache, self uint64, names map[uint64]string) {
	for _, m := range c.Messages() {
		who := names[m.SenderID]
		if who == "" {
			who = fmt.Sprintf("user %d", m.SenderID)
		}
		if m.SenderID == self {
			who = "you"
		}
		if p := c.Preview(m.ID); p != nil {
			fmt.Fprintf(w, "    ┌ %s\n", quote(p))
		}
		line := fmt.Sprintf("%s  %-10s %s", m.CreatedAt.Local().Format("15:04"), who, Body(m))
		if m.IsEdited && !m.IsDeleted {
			line += " (edited)"
		}
		fmt.Fprintf(w, "%s  #%s\n", line, m.ID)
	}
}

func quote(p *reply.Preview) string {
	label := p.Label
	if r := []rune(label); len(r) > 60 {
		label = string(r[:57]) + "..."
	}
	if p.State == reply.Unresolved {
		return label
	}
	return fmt.Sprintf("%d: %s", p.SenderID, label)
}
