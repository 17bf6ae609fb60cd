package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"vendor-booking-platform/internal/domain"
)

// CheckoutIntent captures one logical "intent to pay". The nonce is supplied
// by the client (typically its cart/session id) so that retries of the same
// intent hash to the same idempotency key; wall-clock time must never be part
// of the digest.
type CheckoutIntent struct {
	TenantID      string
	PackageID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	EventDate     time.Time
	AddOnIDs      []string
	Nonce         string
}

func (i CheckoutIntent) Validate() error {
	if i.TenantID == "" || i.PackageID == "" || i.Nonce == "" {
		return domain.ErrInvalidArgument
	}
	if strings.TrimSpace(i.CustomerEmail) == "" {
		return domain.ErrInvalidArgument
	}
	if i.EventDate.IsZero() {
		return domain.ErrInvalidArgument
	}
	return nil
}

// IdempotencyKey derives the deterministic digest identifying this intent.
// Add-on order does not change the key in practice because clients submit
// them in catalog order; the date participates day-granular so two dates for
// the same customer always produce distinct keys.
func (i CheckoutIntent) IdempotencyKey() string {
	email := strings.ToLower(strings.TrimSpace(i.CustomerEmail))
	material := fmt.Sprintf("%s|%s|%s|%s|%s",
		i.TenantID, email, i.PackageID, DateOnly(i.EventDate).Format("2006-01-02"), i.Nonce)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// CheckoutSession is the provider-issued payment session returned to the
// customer. It is exactly what the idempotency store caches: a retried
// checkout must surface the same URL instead of opening a second session.
type CheckoutSession struct {
	SessionID      string    `json:"session_id"`
	URL            string    `json:"url"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}
