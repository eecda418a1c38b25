package services

import (
	"context"
	"fmt"

	"portal/internal/database"
	"portal/internal/events"
	"portal/internal/logger"
	. "portal/internal/models"
)

func RecordCacheKey(kind Kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

// CacheInvalidationService drops cached records once their status changes.
// The writing instance invalidates synchronously; other instances follow the
// status.changed events on the bus.
type CacheInvalidationService struct {
	eventBus *events.EventBus
	cache    database.CacheClient
	log      logger.Logger
}

func NewCacheInvalidationService(
	eventBus *events.EventBus,
	cache database.CacheClient,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		eventBus: eventBus,
		cache:    cache,
		log:      logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) Register() {
	s.eventBus.Subscribe(events.TypeStatusChanged, func(event events.Event) {
		kind, ok := ParseKind(event.Kind)
		if !ok {
			return
		}
		if err := s.InvalidateRecord(context.Background(), kind, event.RecordID); err != nil {
			s.log.Function("Register").Warn("failed to invalidate record",
				"kind", event.Kind, "id", event.RecordID, "error", err)
		}
	})
}

func (s *CacheInvalidationService) InvalidateRecord(ctx context.Context, kind Kind, id string) error {
	return database.NewCacheBuilder(s.cache, RecordCacheKey(kind, id)).
		WithContext(ctx).
		Delete()
}
