package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moment-festival/momentd/internal/toast"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleConn(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(map[string]string{"hello": "world"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(data))
}

func TestAttachForwardsSurfaceEvents(t *testing.T) {
	hub := NewHub()
	surface := toast.NewSurface(toast.Config{DefaultExpiry: time.Minute})
	detach := hub.Attach(surface)
	defer detach()

	srv := newHubServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	surface.Show(toast.KindSuccess, "reservation created")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var ev toast.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, toast.EventShown, ev.Type)
	assert.Equal(t, toast.KindSuccess, ev.Toast.Kind)
	assert.Equal(t, "reservation created", ev.Toast.Text)
}

func TestClientRemovedOnDisconnect(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCloseRejectsNewClients(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)

	hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		// The upgrade may succeed before the hub drops the connection;
		// either way no client is retained.
		defer conn.Close()
	}
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
