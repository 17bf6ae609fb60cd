package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct{ pool *pgxpool.Pool }

func NewCustomerRepo(pool *pgxpool.Pool) *customerRepo {
	return &customerRepo{pool: pool}
}

func (r *customerRepo) UpsertByEmail(ctx context.Context, tx repository.Tx, c *model.Customer) (string, error) {
	const q = `
INSERT INTO customers (id, tenant_id, name, email, phone, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (tenant_id, email) DO UPDATE SET name=EXCLUDED.name, phone=EXCLUDED.phone
RETURNING id;`
	row, err := pickRow(ctx, r.pool, tx, q, c.ID, c.TenantID, c.Name, strings.ToLower(c.Email), c.Phone, c.CreatedAt)
	if err != nil {
		return "", err
	}
	var id string
	if err := row.Scan(&id); err != nil {
		return "", domain.ErrOperationFailed
	}
	return id, nil
}

func (r *customerRepo) FindByEmail(ctx context.Context, tx repository.Tx, tenantID, email string) (*model.Customer, error) {
	const q = `SELECT id, tenant_id, name, email, phone, created_at FROM customers WHERE tenant_id=$1 AND email=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, tenantID, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	c := &model.Customer{}
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}
