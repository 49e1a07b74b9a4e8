package events

import (
	"context"
	"errors"
	"time"

	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

const (
	CartCreated        = "cart.created"
	CartReopened       = "cart.reopened"
	CartItemsUpserted  = "cart.items_upserted"
	CartItemUpdated    = "cart.item_updated"
	CartItemRemoved    = "cart.item_removed"
	CartCleared        = "cart.cleared"
	TableStatusChanged = "table.status_changed"
)

// Event is a cart or table state transition. The JSON shape is what the
// dashboard websocket clients and kafka consumers receive.
type Event struct {
	Type         string    `json:"type"`
	RestaurantID int64     `json:"restauranteId,omitempty"`
	CartID       int64     `json:"carritoId,omitempty"`
	Target       string    `json:"target,omitempty"`
	Status       string    `json:"estado,omitempty"`
	Payload      any       `json:"payload,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

func New(eventType, target string) Event {
	return Event{Type: eventType, Target: target, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("type", e.Type),
			zap.String("target", e.Target),
			zap.Error(err),
		)
	}
}
