package repository

import (
	"context"

	"vendor-booking-platform/internal/domain/model"
)

// CatalogRepository serves read-only offering lookups used to validate
// existence and snapshot price/title at confirmation time.
type CatalogRepository interface {
	FindTenantByID(ctx context.Context, tx Tx, id string) (*model.Tenant, error)
	FindPackageByID(ctx context.Context, tx Tx, id string) (*model.Package, error)
	FindPackageBySlug(ctx context.Context, tx Tx, tenantID, slug string) (*model.Package, error)
	ListAddOns(ctx context.Context, tx Tx, packageID string) ([]*model.AddOn, error)
	// FindAddOns resolves selected add-on ids, rejecting ids that do not
	// belong to the package with domain.ErrNotFound.
	FindAddOns(ctx context.Context, tx Tx, packageID string, ids []string) ([]*model.AddOn, error)
}
