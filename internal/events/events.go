// Package events fans submission and workflow changes out to in-process
// subscribers. With a cache configured, events travel over a valkey pub/sub
// channel so every server instance sees them; otherwise they are dispatched
// locally.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"portal/internal/database"
	"portal/internal/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	Channel = "portal:events"

	ChannelAdmin = "admin"

	TypeSubmissionCreated = "submission.created"
	TypeStatusChanged     = "status.changed"

	// TypeAll subscribes a handler to every event type.
	TypeAll = "*"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Kind      string         `json:"kind"`
	RecordID  string         `json:"recordId"`
	Status    string         `json:"status,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

type Handler func(Event)

type EventBus struct {
	client   database.CacheClient
	handlers map[string][]Handler
	mu       sync.RWMutex
	cancel   context.CancelFunc
	done     chan struct{}
	log      logger.Logger
}

func New(client database.CacheClient) *EventBus {
	return &EventBus{
		client:   client,
		handlers: make(map[string][]Handler),
		log:      logger.New("events"),
	}
}

func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Start begins listening on the shared channel. It is a no-op without a
// cache client.
func (b *EventBus) Start(ctx context.Context) {
	if b.client == nil {
		return
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan struct{})

	go func() {
		defer close(b.done)
		log := b.log.Function("Start")

		err := b.client.Receive(ctx, b.client.B().Subscribe().Channel(Channel).Build(),
			func(msg valkey.PubSubMessage) {
				var event Event
				if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
					log.Warn("dropping malformed event", "error", err)
					return
				}
				b.dispatch(event)
			})
		if err != nil && ctx.Err() == nil {
			log.Er("event subscription ended", err)
		}
	}()
}

func (b *EventBus) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if b.client == nil {
		b.dispatch(event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return b.log.Function("Publish").Err("failed to marshal event", err, "type", event.Type)
	}

	cmd := b.client.B().Publish().Channel(Channel).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return b.log.Function("Publish").Err("failed to publish event", err, "type", event.Type)
	}
	return nil
}

func (b *EventBus) dispatch(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type])+len(b.handlers[TypeAll]))
	handlers = append(handlers, b.handlers[event.Type]...)
	handlers = append(handlers, b.handlers[TypeAll]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

func (b *EventBus) Close() error {
	if b.cancel == nil {
		return nil
	}
	b.cancel()
	<-b.done
	return nil
}
