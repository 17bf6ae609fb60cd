package model

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"vendor-booking-platform/internal/domain"
)

type BookingStatus string

const (
	BookingStatusPaid      BookingStatus = "paid"      // payment confirmed by provider webhook
	BookingStatusConfirmed BookingStatus = "confirmed" // vendor acknowledged the booking
	BookingStatusRefunded  BookingStatus = "refunded"
	BookingStatusCanceled  BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPaid, BookingStatusConfirmed, BookingStatusRefunded, BookingStatusCanceled:
		return true
	}
	return false
}

// Active reports whether the booking still occupies its date. Canceled
// bookings release the date; every other status keeps it taken.
func (s BookingStatus) Active() bool { return s != BookingStatusCanceled }

// Booking is a confirmed reservation of a package for a single event date.
// Rows are created only inside the locked payment-completion transaction and
// are never deleted afterwards, only status-transitioned.
type Booking struct {
	ID                string
	TenantID          string
	PackageID         string
	Reference         string // ULID, shared with the customer
	CustomerID        string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	EventDate         time.Time // date-mode bookings; midnight UTC
	AddOnIDs          []string
	TotalAmount       int64 // minor currency units charged to the customer
	CommissionAmount  int64 // platform cut, deducted from vendor proceeds
	CommissionPercent float64
	Currency          string
	Status            BookingStatus
	CreatedAt         time.Time
}

// NewBooking builds an unsaved booking in the paid state. The event date is
// truncated to midnight UTC so two times on the same calendar day collide.
func NewBooking(tenantID, packageID, customerName, customerEmail, customerPhone string, eventDate time.Time, addOnIDs []string, total, commission int64, percent float64, currency string) (*Booking, error) {
	if tenantID == "" || packageID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if eventDate.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if total < 0 || commission < 0 || commission > total {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Booking{
		ID:                uuid.NewString(),
		TenantID:          tenantID,
		PackageID:         packageID,
		Reference:         NewBookingReference(now),
		CustomerName:      strings.TrimSpace(customerName),
		CustomerEmail:     strings.ToLower(strings.TrimSpace(customerEmail)),
		CustomerPhone:     strings.TrimSpace(customerPhone),
		EventDate:         DateOnly(eventDate),
		AddOnIDs:          addOnIDs,
		TotalAmount:       total,
		CommissionAmount:  commission,
		CommissionPercent: percent,
		Currency:          currency,
		Status:            BookingStatusPaid,
		CreatedAt:         now,
	}, nil
}

// NewBookingReference returns a sortable, customer-facing reference code.
func NewBookingReference(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
