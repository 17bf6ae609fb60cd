package model

import (
	"time"

	"vendor-booking-platform/internal/domain"
)

type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusProcessed WebhookStatus = "processed"
	WebhookStatusDuplicate WebhookStatus = "duplicate"
	WebhookStatusFailed    WebhookStatus = "failed"
)

func (s WebhookStatus) Valid() bool {
	switch s {
	case WebhookStatusPending, WebhookStatusProcessed, WebhookStatusDuplicate, WebhookStatusFailed:
		return true
	}
	return false
}

// CanTransition validates webhook state changes. Processed is terminal: a
// redelivered event may bump the attempts counter but must never move the
// row back to pending, failed or duplicate.
func (s WebhookStatus) CanTransition(to WebhookStatus) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	switch s {
	case WebhookStatusProcessed:
		return to == WebhookStatusProcessed
	case WebhookStatusPending:
		return to == WebhookStatusProcessed || to == WebhookStatusFailed || to == WebhookStatusDuplicate
	case WebhookStatusFailed, WebhookStatusDuplicate:
		return to == WebhookStatusProcessed || to == WebhookStatusFailed || to == WebhookStatusDuplicate
	}
	return false
}

// WebhookEvent is the ledger row for one externally delivered provider
// notification. (TenantID, EventID) is unique; the raw payload is kept for
// audit and replay.
type WebhookEvent struct {
	TenantID    string
	EventID     string // opaque provider event id
	EventType   string
	RawPayload  []byte
	Status      WebhookStatus
	Attempts    int
	LastError   string
	BookingID   *string // set when the event materialized a booking
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// NewWebhookEvent builds a pending ledger row for a first sighting.
func NewWebhookEvent(tenantID, eventID, eventType string, rawPayload []byte) (*WebhookEvent, error) {
	if tenantID == "" || eventID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &WebhookEvent{
		TenantID:   tenantID,
		EventID:    eventID,
		EventType:  eventType,
		RawPayload: rawPayload,
		Status:     WebhookStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}
