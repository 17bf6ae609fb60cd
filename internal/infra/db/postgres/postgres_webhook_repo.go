package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

var _ repository.WebhookRepository = (*webhookRepo)(nil)

type webhookRepo struct{ pool *pgxpool.Pool }

func NewWebhookRepo(pool *pgxpool.Pool) *webhookRepo {
	return &webhookRepo{pool: pool}
}

func (r *webhookRepo) Record(ctx context.Context, tx repository.Tx, ev *model.WebhookEvent) (bool, error) {
	const q = `
INSERT INTO webhook_events (tenant_id, event_id, event_type, raw_payload, status, attempts, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (tenant_id, event_id) DO NOTHING;`
	cmd, err := execSQL(ctx, r.pool, tx, q, ev.TenantID, ev.EventID, ev.EventType, ev.RawPayload, ev.Status, ev.Attempts, ev.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

// Observe bumps attempts and flips any non-processed row to duplicate, in a
// single statement so concurrent observers of the same event id all see
// consistent state. The pre-observation status comes back through the CTE.
func (r *webhookRepo) Observe(ctx context.Context, tx repository.Tx, tenantID, eventID string) (bool, model.WebhookStatus, error) {
	const q = `
WITH prev AS (
  SELECT status FROM webhook_events WHERE tenant_id=$1 AND event_id=$2 FOR UPDATE
)
UPDATE webhook_events w
   SET status   = CASE WHEN w.status = 'processed' THEN w.status ELSE 'duplicate' END,
       attempts = w.attempts + 1
 WHERE w.tenant_id=$1 AND w.event_id=$2
RETURNING (SELECT status FROM prev);`
	row, err := pickRow(ctx, r.pool, tx, q, tenantID, eventID)
	if err != nil {
		return false, "", err
	}
	var prev model.WebhookStatus
	if err := row.Scan(&prev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", nil // first sighting
		}
		return false, "", domain.ErrReadDatabaseRow
	}
	return true, prev, nil
}

func (r *webhookRepo) MarkProcessed(ctx context.Context, tx repository.Tx, tenantID, eventID, bookingID string) error {
	const q = `
UPDATE webhook_events
   SET status='processed', booking_id=$3, last_error='', processed_at=NOW()
 WHERE tenant_id=$1 AND event_id=$2;`
	cmd, err := execSQL(ctx, r.pool, tx, q, tenantID, eventID, bookingID)
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

// MarkFailed records the error and bumps attempts. The status guard keeps a
// concurrent loser from downgrading a row the winner already processed.
func (r *webhookRepo) MarkFailed(ctx context.Context, tx repository.Tx, tenantID, eventID, lastError string) error {
	const q = `
UPDATE webhook_events
   SET status='failed', last_error=$3, attempts=attempts+1
 WHERE tenant_id=$1 AND event_id=$2 AND status <> 'processed';`
	if _, err := execSQL(ctx, r.pool, tx, q, tenantID, eventID, lastError); err != nil {
		if errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *webhookRepo) FindByEventID(ctx context.Context, tx repository.Tx, tenantID, eventID string) (*model.WebhookEvent, error) {
	const q = `
SELECT tenant_id, event_id, event_type, raw_payload, status, attempts, last_error, booking_id, processed_at, created_at
  FROM webhook_events WHERE tenant_id=$1 AND event_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	ev := &model.WebhookEvent{}
	var lastError *string
	if err := row.Scan(&ev.TenantID, &ev.EventID, &ev.EventType, &ev.RawPayload, &ev.Status, &ev.Attempts, &lastError, &ev.BookingID, &ev.ProcessedAt, &ev.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if lastError != nil {
		ev.LastError = *lastError
	}
	return ev, nil
}
