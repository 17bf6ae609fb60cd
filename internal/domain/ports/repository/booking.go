package repository

import (
	"context"
	"time"

	"vendor-booking-platform/internal/domain/model"
)

// BookingRepository is the booking ledger. Create-path methods demand a live
// transaction handle: the advisory lock is transaction-scoped and released by
// commit or rollback, never explicitly.
type BookingRepository interface {
	// AcquireDateLock takes the exclusive per-(tenant, date) lock without
	// waiting. Returns domain.ErrBookingLockTimeout when the lock is held
	// elsewhere and domain.ErrInvalidExecContext when tx is not a real
	// transaction.
	AcquireDateLock(ctx context.Context, tx Tx, tenantID string, date time.Time) error

	// FindActiveByDate returns the non-canceled booking occupying the date,
	// or domain.ErrNotFound.
	FindActiveByDate(ctx context.Context, tx Tx, tenantID string, date time.Time) (*model.Booking, error)

	// Insert writes the booking, its add-on links and the payment record in
	// one shot. A unique-constraint violation on the date index surfaces as
	// domain.ErrBookingConflict.
	Insert(ctx context.Context, tx Tx, b *model.Booking, pay *model.PaymentRecord) error

	FindByID(ctx context.Context, tx Tx, id string) (*model.Booking, error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Booking, error)
	ListByTenant(ctx context.Context, tx Tx, tenantID string, offset, limit int) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.BookingStatus) error
}
