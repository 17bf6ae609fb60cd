// File: internal/usecase/catalog_uc.go
package usecase

import (
	"context"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase serves the public read side of the catalog.
type CatalogUseCase interface {
	PackageBySlug(ctx context.Context, tenantID, slug string) (*model.Package, []*model.AddOn, error)
	TenantByID(ctx context.Context, id string) (*model.Tenant, error)
}

type catalogUC struct {
	catalog repository.CatalogRepository
}

func NewCatalogUseCase(catalog repository.CatalogRepository) *catalogUC {
	return &catalogUC{catalog: catalog}
}

func (uc *catalogUC) PackageBySlug(ctx context.Context, tenantID, slug string) (*model.Package, []*model.AddOn, error) {
	pkg, err := uc.catalog.FindPackageBySlug(ctx, nil, tenantID, slug)
	if err != nil {
		return nil, nil, err
	}
	addOns, err := uc.catalog.ListAddOns(ctx, nil, pkg.ID)
	if err != nil {
		return nil, nil, err
	}
	return pkg, addOns, nil
}

func (uc *catalogUC) TenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	return uc.catalog.FindTenantByID(ctx, nil, id)
}
