package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
	"vendor-booking-platform/internal/infra/metrics"
	red "vendor-booking-platform/internal/infra/redis"
)

var _ repository.CatalogRepository = (*catalogRepoCacheDecorator)(nil)

// catalogRepoCacheDecorator is a read-through Redis cache over the catalog.
// Tenant rows are deliberately NOT cached: the commission percent must be
// read fresh at calculation time.
type catalogRepoCacheDecorator struct {
	inner repository.CatalogRepository
	cache red.Client
	ttl   time.Duration
}

func NewCatalogRepoCacheDecorator(inner repository.CatalogRepository, cache red.Client, ttl time.Duration) repository.CatalogRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &catalogRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *catalogRepoCacheDecorator) FindTenantByID(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error) {
	return d.inner.FindTenantByID(ctx, tx, id)
}

func (d *catalogRepoCacheDecorator) FindPackageByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	key := fmt.Sprintf("pkg:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var p model.Package
		if json.Unmarshal([]byte(val), &p) == nil {
			metrics.IncCacheRequest("package", "hit")
			return &p, nil
		}
	}
	metrics.IncCacheRequest("package", "miss")
	p, err := d.inner.FindPackageByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return p, nil
}

func (d *catalogRepoCacheDecorator) FindPackageBySlug(ctx context.Context, tx repository.Tx, tenantID, slug string) (*model.Package, error) {
	key := fmt.Sprintf("pkg:%s:%s", tenantID, slug)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var p model.Package
		if json.Unmarshal([]byte(val), &p) == nil {
			metrics.IncCacheRequest("package", "hit")
			return &p, nil
		}
	}
	metrics.IncCacheRequest("package", "miss")
	p, err := d.inner.FindPackageBySlug(ctx, tx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(p); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return p, nil
}

func (d *catalogRepoCacheDecorator) ListAddOns(ctx context.Context, tx repository.Tx, packageID string) ([]*model.AddOn, error) {
	key := fmt.Sprintf("pkg:%s:addons", packageID)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var addOns []*model.AddOn
		if json.Unmarshal([]byte(val), &addOns) == nil {
			metrics.IncCacheRequest("add_ons", "hit")
			return addOns, nil
		}
	}
	metrics.IncCacheRequest("add_ons", "miss")
	addOns, err := d.inner.ListAddOns(ctx, tx, packageID)
	if err != nil {
		return nil, err
	}
	if len(addOns) > 0 {
		if bytes, err := json.Marshal(addOns); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return addOns, nil
}

// FindAddOns validates membership, so it always goes to the database.
func (d *catalogRepoCacheDecorator) FindAddOns(ctx context.Context, tx repository.Tx, packageID string, ids []string) ([]*model.AddOn, error) {
	return d.inner.FindAddOns(ctx, tx, packageID, ids)
}
