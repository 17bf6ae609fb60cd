package adapter

import (
	"context"
	"time"

	"vendor-booking-platform/internal/domain/model"
)

// CheckoutRequest is what the provider needs to open a hosted payment page.
type CheckoutRequest struct {
	Amount         int64
	Currency       string
	CustomerEmail  string
	Description    string
	IdempotencyKey string // forwarded to the provider for double-charge defense
	Metadata       map[string]string
}

// VerifiedEvent is a provider notification whose signature already checked
// out. Verification itself is a black box to the core.
type VerifiedEvent struct {
	EventID    string
	EventType  string
	TenantID   string
	RawPayload []byte
	Intent     BookingIntent
}

// BookingIntent is the booking material echoed back through provider
// metadata on payment completion.
type BookingIntent struct {
	PackageID     string    `json:"package_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	EventDate     time.Time `json:"event_date"`
	AddOnIDs      []string  `json:"add_on_ids"`
	AmountPaid    int64     `json:"amount_paid"`
	ProviderRef   string    `json:"provider_ref"`
}

// PaymentProvider is the external payment collaborator.
type PaymentProvider interface {
	Name() string
	// CreateCheckoutSession opens a hosted checkout session. The provider
	// deduplicates on req.IdempotencyKey even if the application-level
	// check races.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*model.CheckoutSession, error)
	// VerifyWebhook validates the raw delivery against its signature and
	// decodes it. Any failure must short-circuit before ledger writes;
	// callers translate it to domain.ErrWebhookValidation.
	VerifyWebhook(rawBody []byte, signature string) (*VerifiedEvent, error)
}
