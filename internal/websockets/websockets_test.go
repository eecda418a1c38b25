package websockets

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"portal/internal/events"
	"portal/internal/metrics"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(adminID string, buffer int) *Client {
	return &Client{AdminID: adminID, send: make(chan []byte, buffer)}
}

func TestManager_BroadcastsBusEvents(t *testing.T) {
	bus := events.New(nil)
	manager, err := New(bus, metrics.New())
	require.NoError(t, err)

	client := newClient("admin-1", sendBuffer)
	manager.register(client)
	assert.Equal(t, 1, manager.ClientCount())

	require.NoError(t, bus.Publish(context.Background(), events.Event{
		Type:     events.TypeStatusChanged,
		Kind:     "pension",
		RecordID: "abc",
		Status:   "approved",
	}))

	require.Len(t, client.send, 1)
	var received events.Event
	require.NoError(t, json.Unmarshal(<-client.send, &received))
	assert.Equal(t, "abc", received.RecordID)
	assert.Equal(t, "approved", received.Status)
}

func TestManager_DropsSlowClients(t *testing.T) {
	manager, err := New(events.New(nil), nil)
	require.NoError(t, err)

	fast := newClient("fast", 4)
	slow := newClient("slow", 1)
	manager.register(fast)
	manager.register(slow)

	manager.Broadcast(events.Event{Type: events.TypeSubmissionCreated})
	manager.Broadcast(events.Event{Type: events.TypeSubmissionCreated})

	assert.Equal(t, 1, manager.ClientCount())
	assert.Len(t, fast.send, 2)

	_, open := <-slow.send
	assert.True(t, open)
	_, open = <-slow.send
	assert.False(t, open)
}

func TestManager_Close(t *testing.T) {
	manager, err := New(events.New(nil), nil)
	require.NoError(t, err)

	client := newClient("a", 1)
	manager.register(client)
	manager.Close()
	manager.unregister(client)

	assert.Zero(t, manager.ClientCount())
	_, open := <-client.send
	assert.False(t, open)
}

func startServer(t *testing.T, manager *Manager) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws", websocket.New(manager.HandleWebSocket))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/ws"
}

func TestManager_ConnectReceiveDisconnect(t *testing.T) {
	bus := events.New(nil)
	manager, err := New(bus, metrics.New())
	require.NoError(t, err)
	url := startServer(t, manager)

	for i := 0; i < 10; i++ {
		conn, _, err := fastws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return manager.ClientCount() == 1 },
			2*time.Second, 10*time.Millisecond)

		require.NoError(t, bus.Publish(context.Background(), events.Event{
			Type:     events.TypeSubmissionCreated,
			Kind:     "contact",
			RecordID: "rec-1",
		}))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		var received events.Event
		require.NoError(t, json.Unmarshal(payload, &received))
		assert.Equal(t, "rec-1", received.RecordID)

		_ = conn.WriteMessage(fastws.CloseMessage,
			fastws.FormatCloseMessage(fastws.CloseNormalClosure, ""))
		_ = conn.Close()

		require.Eventually(t, func() bool { return manager.ClientCount() == 0 },
			2*time.Second, 10*time.Millisecond)
	}
}

func TestManager_CloseDisconnectsLiveClients(t *testing.T) {
	manager, err := New(events.New(nil), nil)
	require.NoError(t, err)
	url := startServer(t, manager)

	conn, _, err := fastws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	manager.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, fastws.IsCloseError(err, fastws.CloseNoStatusReceived, fastws.CloseNormalClosure),
		"unexpected error: %v", err)
	assert.Zero(t, manager.ClientCount())
}
