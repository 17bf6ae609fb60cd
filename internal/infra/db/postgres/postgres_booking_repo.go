package postgres

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

var _ repository.BookingRepository = (*bookingRepo)(nil)

type bookingRepo struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *bookingRepo {
	return &bookingRepo{pool: pool}
}

const bookingColumns = `id, tenant_id, package_id, reference, customer_id, customer_name, customer_email, customer_phone, event_date, total_amount, commission_amount, commission_percent, currency, status, created_at`

// dateLockKey hashes (tenant, date) into the advisory-lock keyspace. The
// database arbitrates the lock, so it holds across service instances.
func dateLockKey(tenantID string, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(tenantID))
	h.Write([]byte{'|'})
	h.Write([]byte(model.DateOnly(date).Format("2006-01-02")))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

// AcquireDateLock takes the per-(tenant, date) advisory lock with try
// semantics: a held lock fails immediately instead of queueing, keeping
// webhook latency bounded under provider redelivery.
func (r *bookingRepo) AcquireDateLock(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) error {
	txh, ok := tx.(pgx.Tx)
	if !ok {
		return domain.ErrInvalidExecContext
	}
	var locked bool
	if err := txh.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1);`, dateLockKey(tenantID, date)).Scan(&locked); err != nil {
		return domain.ErrOperationFailed
	}
	if !locked {
		return domain.ErrBookingLockTimeout
	}
	return nil
}

func (r *bookingRepo) FindActiveByDate(ctx context.Context, tx repository.Tx, tenantID string, date time.Time) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id=$1 AND event_date=$2 AND status <> 'canceled' LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, tenantID, model.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return scanBooking(row)
}

// Insert writes the booking, its add-on links and the payment record. The
// caller holds the date lock; the partial unique index on
// (tenant_id, event_date) is the last line of defense and maps to
// ErrBookingConflict.
func (r *bookingRepo) Insert(ctx context.Context, tx repository.Tx, b *model.Booking, pay *model.PaymentRecord) error {
	txh, ok := tx.(pgx.Tx)
	if !ok {
		return domain.ErrInvalidExecContext
	}

	const insBooking = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15);`
	_, err := txh.Exec(ctx, insBooking,
		b.ID, b.TenantID, b.PackageID, b.Reference, b.CustomerID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.EventDate, b.TotalAmount, b.CommissionAmount, b.CommissionPercent, b.Currency, b.Status, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBookingConflict
		}
		return domain.ErrOperationFailed
	}

	const insAddOn = `INSERT INTO booking_add_ons (booking_id, add_on_id) VALUES ($1,$2);`
	for _, addOnID := range b.AddOnIDs {
		if _, err := txh.Exec(ctx, insAddOn, b.ID, addOnID); err != nil {
			return domain.ErrOperationFailed
		}
	}

	if pay != nil {
		const insPayment = `
INSERT INTO payments (id, booking_id, tenant_id, provider, provider_ref, amount, currency, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
		if _, err := txh.Exec(ctx, insPayment,
			pay.ID, pay.BookingID, pay.TenantID, pay.Provider, pay.ProviderRef, pay.Amount, pay.Currency, pay.Status, pay.CreatedAt); err != nil {
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanBooking(row)
}

func (r *bookingRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Booking, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1;`, reference)
	if err != nil {
		return nil, err
	}
	return scanBooking(row)
}

func (r *bookingRepo) ListByTenant(ctx context.Context, tx repository.Tx, tenantID string, offset, limit int) ([]*model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+bookingColumns+` FROM bookings WHERE tenant_id=$1 ORDER BY event_date DESC OFFSET $2 LIMIT $3;`,
		tenantID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.BookingStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidArgument
	}
	cmd, err := execSQL(ctx, r.pool, tx, `UPDATE bookings SET status=$2 WHERE id=$1;`, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanBooking(row pgx.Row) (*model.Booking, error) {
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBookingRow(row rowScanner) (*model.Booking, error) {
	b := &model.Booking{}
	if err := row.Scan(&b.ID, &b.TenantID, &b.PackageID, &b.Reference, &b.CustomerID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.EventDate, &b.TotalAmount, &b.CommissionAmount, &b.CommissionPercent, &b.Currency, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return b, nil
}
