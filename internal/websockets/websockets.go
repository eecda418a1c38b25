// Package websockets pushes submission and workflow events to connected
// administrators.
package websockets

import (
	"encoding/json"
	"sync"
	"time"

	"portal/internal/events"
	"portal/internal/logger"
	"portal/internal/metrics"

	"github.com/gofiber/websocket/v2"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Client struct {
	AdminID string
	conn    *websocket.Conn
	send    chan []byte
	once    sync.Once
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

type Manager struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(eventBus *events.EventBus, m *metrics.Metrics) (*Manager, error) {
	manager := &Manager{
		clients: make(map[*Client]struct{}),
		metrics: m,
		log:     logger.New("websockets"),
	}

	eventBus.Subscribe(events.TypeAll, manager.Broadcast)

	return manager, nil
}

// HandleWebSocket serves one connection until the peer goes away. The route
// has already authenticated the admin and stored the id in Locals.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	adminID, _ := conn.Locals("adminID").(string)
	client := &Client{
		AdminID: adminID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}

	m.register(client)

	// The connection returns to fiber's pool once this handler exits, so the
	// writer must be finished by then.
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.writePump(client)
	}()
	defer func() {
		m.unregister(client)
		<-done
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket closed unexpectedly", "adminID", adminID, "error", err)
			}
			return
		}
	}
}

func (m *Manager) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	m.clients[client] = struct{}{}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.WebsocketConnections.Inc()
	}
	m.log.Function("register").Debug("admin connected", "adminID", client.AdminID)
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	_, ok := m.clients[client]
	delete(m.clients, client)
	m.mu.Unlock()

	if !ok {
		return
	}
	client.closeSend()
	if m.metrics != nil {
		m.metrics.WebsocketConnections.Dec()
	}
}

// Broadcast queues event for every client. A client whose buffer is full is
// dropped rather than allowed to stall the others.
func (m *Manager) Broadcast(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.log.Function("Broadcast").Er("failed to marshal event", err, "type", event.Type)
		return
	}

	var slow []*Client

	m.mu.RLock()
	for client := range m.clients {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range slow {
		m.log.Function("Broadcast").Warn("dropping slow websocket client", "adminID", client.AdminID)
		m.unregister(client)
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) Close() {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.Unlock()

	for _, client := range clients {
		m.unregister(client)
	}
}
