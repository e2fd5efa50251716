// Package client is the Go client of the chat API: typed HTTP calls, the
// websocket event stream and the per-conversation message cache.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"gochat/internal/chat/models"
	"gochat/internal/common"
	"gochat/internal/dbmysql"
)

// APIError is a non-2xx response. It unwraps to the matching common error kind.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusTooManyRequests:
		return common.ErrRateLimited
	}
	return nil
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *dbmysql.User `json:"user"`
}

type Client struct {
	http    *resty.Client
	baseURL string
}

// New targets baseURL, the API root such as http://localhost:7003/api/v1.
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		baseURL: baseURL,
	}
}

func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) Token() string {
	return c.http.Token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var apiErr common.ErrorResponse
	req := c.http.R().SetContext(ctx).SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, handle, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"handle": handle, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, handle, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"handle": handle, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*dbmysql.User, error) {
	var out dbmysql.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) users(ctx context.Context, path string) ([]*dbmysql.User, error) {
	var out []*dbmysql.User
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SidebarUsers(ctx context.Context) ([]*dbmysql.User, error) {
	return c.users(ctx, "/messages/users")
}

func (c *Client) Friends(ctx context.Context) ([]*dbmysql.User, error) {
	return c.users(ctx, "/friends")
}

func (c *Client) IncomingRequests(ctx context.Context) ([]*dbmysql.User, error) {
	return c.users(ctx, "/friends/requests")
}

func (c *Client) OutgoingRequests(ctx context.Context) ([]*dbmysql.User, error) {
	return c.users(ctx, "/friends/requests/sent")
}

func (c *Client) SendFriendRequest(ctx context.Context, toUserID uint64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/friends/send/%d", toUserID), nil, nil)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, fromUserID uint64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/friends/accept/%d", fromUserID), nil, nil)
}

func (c *Client) Conversation(ctx context.Context, peerID uint64) ([]*models.Message, error) {
	var out []*models.Message
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", peerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Send(ctx context.Context, peerID uint64, req models.SendRequest) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/send/%d", peerID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, messageID string) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, http.MethodDelete, "/messages/"+messageID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Edit(ctx context.Context, messageID, newText string) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, http.MethodPut, "/messages/edit/"+messageID, map[string]string{"newText": newText}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Online(ctx context.Context) ([]uint64, error) {
	var out []uint64
	if err := c.do(ctx, http.MethodGet, "/online", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
