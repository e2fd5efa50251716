package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"gochat/internal/chat/models"
)

// WebsocketURL derives the ws(s):// stream address from the API root.
func (c *Client) WebsocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", c.Token())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscribe streams events into fn until ctx ends or the server closes the
// connection. A normal close returns nil.
func (c *Client) Subscribe(ctx context.Context, fn func(models.Event)) error {
	addr, err := c.WebsocketURL()
	if err != nil {
		return err
	}
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return &APIError{Status: resp.StatusCode, Message: "websocket upgrade rejected"}
		}
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer ws.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		ws.Close()
	})
	defer stop()

	for {
		var ev models.Event
		if err := ws.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("stream closed: %w", err)
		}
		fn(ev)
	}
}

// Session binds a cache to the live stream for one open conversation.
type Session struct {
	api   *Client
	cache *ConversationCache
}

func NewSession(api *Client, cache *ConversationCache) *Session {
	return &Session{api: api, cache: cache}
}

func (s *Session) Cache() *ConversationCache { return s.cache }

// Refresh reloads history from the server.
func (s *Session) Refresh(ctx context.Context) error {
	msgs, err := s.api.Conversation(ctx, s.cache.Peer())
	if err != nil {
		return err
	}
	s.cache.Load(msgs)
	return nil
}

// Send posts a message and applies it locally; the echo from the stream, if
// any, is deduplicated by id.
func (s *Session) Send(ctx context.Context, req models.SendRequest) (*models.Message, error) {
	m, err := s.api.Send(ctx, s.cache.Peer(), req)
	if err != nil {
		return nil, err
	}
	s.cache.ApplyCreated(m)
	return m, nil
}

func (s *Session) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.ApplyDeleted(id)
	return nil
}

func (s *Session) Edit(ctx context.Context, id, text string) (*models.Message, error) {
	m, err := s.api.Edit(ctx, id, text)
	if err != nil {
		return nil, err
	}
	s.cache.ApplyEdited(m)
	return m, nil
}

// Watch applies stream events to the cache; onChange runs after each change.
func (s *Session) Watch(ctx context.Context, onChange func(models.Event)) error {
	return s.api.Subscribe(ctx, func(ev models.Event) {
		if s.cache.Apply(ev) && onChange != nil {
			onChange(ev)
		}
	})
}
