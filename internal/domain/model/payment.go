package model

import "time"

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentRecord is the money side of a booking, written in the same
// transaction as the booking row itself.
type PaymentRecord struct {
	ID          string
	BookingID   string
	TenantID    string
	Provider    string // gateway name, e.g. "hostedpay"
	ProviderRef string // provider session/charge id
	Amount      int64  // minor currency units
	Currency    string
	Status      PaymentStatus
	CreatedAt   time.Time
}
