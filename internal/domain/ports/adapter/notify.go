package adapter

import (
	"context"
	"time"
)

// BookingConfirmedEvent is the fire-and-forget notification fanned out after
// a booking materializes. Downstream consumers (email, calendar sync) live
// outside this system.
type BookingConfirmedEvent struct {
	BookingID     string    `json:"booking_id"`
	Reference     string    `json:"reference"`
	TenantID      string    `json:"tenant_id"`
	PackageTitle  string    `json:"package_title"`
	AddOnTitles   []string  `json:"add_on_titles"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	EventDate     time.Time `json:"event_date"`
	TotalAmount   int64     `json:"total_amount"`
	Currency      string    `json:"currency"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// NotificationEmitter publishes domain events. Emission failure must never
// roll back or fail the booking that triggered it.
type NotificationEmitter interface {
	BookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error
}
