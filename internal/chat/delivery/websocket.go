package delivery

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gochat/internal/chat/models"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/metrics"
)

const maxInboundFrame = 512

// Presence records which users hold a connection on any instance.
type Presence interface {
	SetOnline(ctx context.Context, userID uint64) error
	SetOffline(ctx context.Context, userID uint64) error
	Online(ctx context.Context) ([]uint64, error)
}

type wsConn struct {
	id     string
	userID uint64
	ws     *websocket.Conn
	send   chan models.Event
	done   chan struct{}
	once   sync.Once
}

func newWSConn(userID uint64, ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		id:     uuid.NewString(),
		userID: userID,
		ws:     ws,
		send:   make(chan models.Event, buffer),
		done:   make(chan struct{}),
	}
}

func (c *wsConn) ID() string     { return c.id }
func (c *wsConn) UserID() uint64 { return c.userID }

func (c *wsConn) Send(ev models.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

func (c *wsConn) Close() {
	c.once.Do(func() { close(c.done) })
}

// Handler upgrades authenticated requests and keeps the registry in sync with live sockets.
type Handler struct {
	dispatcher *Dispatcher
	presence   Presence
	metrics    *metrics.Metrics
	upgrader   websocket.Upgrader
	cfg        config.DeliveryConfig
	log        *zap.Logger
}

func NewHandler(d *Dispatcher, presence Presence, m *metrics.Metrics, cfg config.DeliveryConfig, log *zap.Logger) *Handler {
	h := &Handler{
		dispatcher: d,
		presence:   presence,
		metrics:    m,
		cfg:        cfg,
		log:        log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteError(w, common.Unauthenticated("user not authenticated"))
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Debug("websocket upgrade failed", zap.Uint64("user_id", userID), zap.Error(err))
		return
	}

	buffer := h.cfg.SendBuffer
	if buffer <= 0 {
		buffer = 64
	}
	conn := newWSConn(userID, ws, buffer)
	log := h.log.With(zap.Uint64("user_id", userID), zap.String("conn_id", conn.id))

	registry := h.dispatcher.Registry()
	if prev := registry.Register(userID, conn); prev != nil {
		log.Info("replacing previous connection", zap.String("prev_conn_id", prev.ID()))
		prev.Close()
	}
	h.metrics.ConnectionOpened()
	// background context: the request context ends with the upgrade handler
	ctx := context.Background()
	h.setPresence(ctx, userID, true)
	h.broadcastOnline(ctx)
	log.Info("connection registered")

	go h.writePump(conn, log)
	h.readPump(conn)

	conn.Close()
	h.metrics.ConnectionClosed()
	if registry.Unregister(userID, conn) {
		h.setPresence(ctx, userID, false)
		h.broadcastOnline(ctx)
	}
	log.Info("connection closed")
}

// readPump only services control frames; clients send messages over HTTP.
func (h *Handler) readPump(c *wsConn) {
	pongWait := h.pongWait()
	c.ws.SetReadLimit(maxInboundFrame)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		select {
		case <-c.done:
			return
		default:
		}
	}
}

func (h *Handler) writePump(c *wsConn, log *zap.Logger) {
	ping := h.cfg.PingEvery()
	if ping <= 0 {
		ping = 30 * time.Second
	}
	writeWait := h.cfg.WriteWait()
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}
	ticker := time.NewTicker(ping)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(ev); err != nil {
				log.Debug("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
			h.setPresence(context.Background(), c.userID, true)
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (h *Handler) pongWait() time.Duration {
	ping := h.cfg.PingEvery()
	if ping <= 0 {
		ping = 30 * time.Second
	}
	return ping * 2
}

func (h *Handler) setPresence(ctx context.Context, userID uint64, online bool) {
	if h.presence == nil {
		return
	}
	var err error
	if online {
		err = h.presence.SetOnline(ctx, userID)
	} else {
		err = h.presence.SetOffline(ctx, userID)
	}
	if err != nil {
		h.log.Warn("presence update failed", zap.Uint64("user_id", userID), zap.Bool("online", online), zap.Error(err))
	}
}

// OnlineUsers merges local connections with presence from other instances.
func (h *Handler) OnlineUsers(ctx context.Context) []uint64 {
	local := h.dispatcher.Registry().Online()
	if h.presence == nil {
		return local
	}
	remote, err := h.presence.Online(ctx)
	if err != nil {
		h.log.Warn("presence lookup failed", zap.Error(err))
		return local
	}
	seen := make(map[uint64]struct{}, len(local)+len(remote))
	out := make([]uint64, 0, len(local)+len(remote))
	for _, id := range append(local, remote...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (h *Handler) broadcastOnline(ctx context.Context) {
	h.dispatcher.BroadcastOnline(h.OnlineUsers(ctx))
}
