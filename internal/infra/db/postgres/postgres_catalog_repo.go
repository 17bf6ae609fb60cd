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

var _ repository.CatalogRepository = (*catalogRepo)(nil)

type catalogRepo struct{ pool *pgxpool.Pool }

func NewCatalogRepo(pool *pgxpool.Pool) *catalogRepo {
	return &catalogRepo{pool: pool}
}

func (r *catalogRepo) FindTenantByID(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error) {
	const q = `SELECT id, name, slug, commission_percent, currency, active, created_at FROM tenants WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	t := &model.Tenant{}
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CommissionPercent, &t.Currency, &t.Active, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}

const packageColumns = `id, tenant_id, title, slug, base_price, currency, active, created_at`

func (r *catalogRepo) FindPackageByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+packageColumns+` FROM packages WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanPackage(row)
}

func (r *catalogRepo) FindPackageBySlug(ctx context.Context, tx repository.Tx, tenantID, slug string) (*model.Package, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+packageColumns+` FROM packages WHERE tenant_id=$1 AND slug=$2;`, tenantID, slug)
	if err != nil {
		return nil, err
	}
	return scanPackage(row)
}

func (r *catalogRepo) ListAddOns(ctx context.Context, tx repository.Tx, packageID string) ([]*model.AddOn, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT id, package_id, title, price FROM add_ons WHERE package_id=$1 ORDER BY title;`, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAddOns(rows)
}

func (r *catalogRepo) FindAddOns(ctx context.Context, tx repository.Tx, packageID string, ids []string) ([]*model.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT id, package_id, title, price FROM add_ons WHERE package_id=$1 AND id = ANY($2);`, packageID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := collectAddOns(rows)
	if err != nil {
		return nil, err
	}
	if len(out) != len(ids) {
		// at least one id is unknown or belongs to another package
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func scanPackage(row pgx.Row) (*model.Package, error) {
	p := &model.Package{}
	if err := row.Scan(&p.ID, &p.TenantID, &p.Title, &p.Slug, &p.BasePrice, &p.Currency, &p.Active, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func collectAddOns(rows pgx.Rows) ([]*model.AddOn, error) {
	var out []*model.AddOn
	for rows.Next() {
		a := &model.AddOn{}
		if err := rows.Scan(&a.ID, &a.PackageID, &a.Title, &a.Price); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
