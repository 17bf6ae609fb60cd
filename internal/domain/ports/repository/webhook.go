package repository

import (
	"context"

	"vendor-booking-platform/internal/domain/model"
)

// WebhookRepository is the deduplication ledger for provider deliveries.
type WebhookRepository interface {
	// Record inserts a pending row for a first sighting. A concurrent insert
	// for the same (tenant, event) pair is a benign race: the first writer
	// wins, later writers no-op and get inserted=false.
	Record(ctx context.Context, tx Tx, ev *model.WebhookEvent) (inserted bool, err error)

	// Observe is the advisory duplicate check. When a row exists it bumps the
	// attempts counter and, unless the row is already processed, flips the
	// status to duplicate; the status the row held BEFORE this observation is
	// returned so callers can decide whether to reprocess. When no row
	// exists it returns duplicate=false.
	Observe(ctx context.Context, tx Tx, tenantID, eventID string) (duplicate bool, prev model.WebhookStatus, err error)

	// MarkProcessed finalizes the row. Processed is terminal and carries the
	// id of the booking the event materialized.
	MarkProcessed(ctx context.Context, tx Tx, tenantID, eventID, bookingID string) error

	// MarkFailed records a processing error and bumps attempts. It never
	// downgrades a processed row.
	MarkFailed(ctx context.Context, tx Tx, tenantID, eventID, lastError string) error

	FindByEventID(ctx context.Context, tx Tx, tenantID, eventID string) (*model.WebhookEvent, error)
}
