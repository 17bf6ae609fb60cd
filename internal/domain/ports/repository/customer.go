package repository

import (
	"context"

	"vendor-booking-platform/internal/domain/model"
)

type CustomerRepository interface {
	// UpsertByEmail creates or refreshes the customer keyed by
	// (tenant, email) and returns its id. Runs inside the booking
	// transaction so a rollback leaves no stray row.
	UpsertByEmail(ctx context.Context, tx Tx, c *model.Customer) (string, error)
	FindByEmail(ctx context.Context, tx Tx, tenantID, email string) (*model.Customer, error)
}
