package notify

import (
	"context"
	"sync"

	"vendor-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.NotificationEmitter = (*NoopEmitter)(nil)

// NoopEmitter records emitted events in memory for dev and tests.
type NoopEmitter struct {
	mu     sync.Mutex
	Events []adapter.BookingConfirmedEvent
}

func NewNoopEmitter() *NoopEmitter { return &NoopEmitter{} }

func (e *NoopEmitter) BookingConfirmed(ctx context.Context, ev adapter.BookingConfirmedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, ev)
	return nil
}
