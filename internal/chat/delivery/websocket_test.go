package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gochat/internal/chat/models"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/metrics"
)

// identityFromQuery stands in for the auth middleware: ?uid= becomes the caller.
func identityFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, err := strconv.ParseUint(r.URL.Query().Get("uid"), 10, 64); err == nil {
			r = r.WithContext(common.WithIdentity(r.Context(), uid, "u"))
		}
		next.ServeHTTP(w, r)
	})
}

type wsFixture struct {
	server     *httptest.Server
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(NewRegistry(), zap.NewNop(), WithMetrics(m))
	h := NewHandler(d, nil, m, config.DeliveryConfig{SendBuffer: 8, PingInterval: 30, WriteTimeout: 5}, zap.NewNop())
	srv := httptest.NewServer(identityFromQuery(h))
	t.Cleanup(srv.Close)
	return &wsFixture{server: srv, dispatcher: d, metrics: m}
}

func (f *wsFixture) dial(t *testing.T, uid uint64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?uid=" + strconv.FormatUint(uid, 10)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) models.Event {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.Event
	require.NoError(t, ws.ReadJSON(&ev))
	return ev
}

// readUntil skips presence frames until an event of the wanted type shows up.
func readUntil(t *testing.T, ws *websocket.Conn, want models.EventType) models.Event {
	t.Helper()
	for {
		ev := readEvent(t, ws)
		if ev.Type == want {
			return ev
		}
	}
}

func TestHandler_LiveDelivery(t *testing.T) {
	f := newWSFixture(t)
	b := f.dial(t, 2)

	online := readEvent(t, b)
	assert.Equal(t, models.EventOnlineUsers, online.Type)
	assert.Equal(t, []uint64{2}, online.OnlineUsers)

	require.Eventually(t, func() bool {
		_, ok := f.dispatcher.Registry().Lookup(2)
		return ok
	}, time.Second, 10*time.Millisecond)

	msg := textMessage("m1", 1, 2, "hi")
	assert.Equal(t, Delivered, f.dispatcher.MessageCreated(context.Background(), msg))
	ev := readUntil(t, b, models.EventMessageCreated)
	assert.Equal(t, "m1", ev.Message.ID)
	assert.Equal(t, "hi", *ev.Message.Text)

	msg.Redact()
	f.dispatcher.MessageDeleted(context.Background(), msg)
	ev = readUntil(t, b, models.EventMessageDeleted)
	assert.Equal(t, "m1", ev.MessageID)
	assert.Nil(t, ev.Message)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Connections))
}

func TestHandler_NewConnectionReplacesOld(t *testing.T) {
	f := newWSFixture(t)
	first := f.dial(t, 7)
	readEvent(t, first)

	second := f.dial(t, 7)
	readEvent(t, second)

	// the first socket gets closed by the server
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	f.dispatcher.MessageCreated(context.Background(), textMessage("m1", 1, 7, "hi"))
	ev := readUntil(t, second, models.EventMessageCreated)
	assert.Equal(t, "m1", ev.MessageID)

	_, ok := f.dispatcher.Registry().Lookup(7)
	assert.True(t, ok, "closing the old socket must not evict the new one")
}

func TestHandler_DisconnectUnregisters(t *testing.T) {
	f := newWSFixture(t)
	a := f.dial(t, 1)
	readEvent(t, a)
	b := f.dial(t, 2)
	readEvent(t, b)

	require.NoError(t, b.Close())

	require.Eventually(t, func() bool {
		_, ok := f.dispatcher.Registry().Lookup(2)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, Dropped, f.dispatcher.MessageCreated(context.Background(), textMessage("m1", 1, 2, "hi")))

	// remaining user hears that 2 went away
	ev := readUntil(t, a, models.EventOnlineUsers)
	for ev.OnlineUsers == nil || len(ev.OnlineUsers) != 1 {
		ev = readUntil(t, a, models.EventOnlineUsers)
	}
	assert.Equal(t, []uint64{1}, ev.OnlineUsers)
}

func TestHandler_RequiresIdentity(t *testing.T) {
	f := newWSFixture(t)
	resp, err := http.Get(f.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_CheckOrigin(t *testing.T) {
	h := NewHandler(nil, nil, nil, config.DeliveryConfig{AllowedOrigins: []string{"http://app.local"}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://app.local")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.local")
	assert.False(t, h.checkOrigin(req))
}
