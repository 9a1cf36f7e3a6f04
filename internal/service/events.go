package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/haomeng346/Second-hand-Marketplace/internal/logging"
)

const (
	EventUserRegistered   = "user_registered"
	EventListingPosted    = "listing_posted"
	EventListingDeleted   = "listing_deleted"
	EventListingPurchased = "listing_purchased"

	DefaultEventsTopic = "marketplace_events"

	publishTimeout = 5 * time.Second
)

// Publisher delivers domain events. mykafka.Producer implements it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is best effort: the state change is already persisted, so a
// delivery failure is only logged.
func (m *Marketplace) publish(ctx context.Context, eventType, key string, fields map[string]any) {
	if m.Events == nil {
		return
	}
	event := map[string]any{
		"event_id":    uuid.NewString(),
		"type":        eventType,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		event[k] = v
	}

	topic := m.Topic
	if topic == "" {
		topic = DefaultEventsTopic
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := m.Events.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", eventType, "key", key, "error", err)
	}
}
