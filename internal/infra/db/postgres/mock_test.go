//go:build !integration

package postgres

import (
	"context"
	"time"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCatalogRepo mocks the database repository the catalog decorator
// wraps.
type mockInnerCatalogRepo struct {
	FindTenantByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error)
	FindPackageByIDFunc   func(ctx context.Context, tx repository.Tx, id string) (*model.Package, error)
	FindPackageBySlugFunc func(ctx context.Context, tx repository.Tx, tenantID, slug string) (*model.Package, error)
	ListAddOnsFunc        func(ctx context.Context, tx repository.Tx, packageID string) ([]*model.AddOn, error)
	FindAddOnsFunc        func(ctx context.Context, tx repository.Tx, packageID string, ids []string) ([]*model.AddOn, error)
}

func (m *mockInnerCatalogRepo) FindTenantByID(ctx context.Context, tx repository.Tx, id string) (*model.Tenant, error) {
	return m.FindTenantByIDFunc(ctx, tx, id)
}
func (m *mockInnerCatalogRepo) FindPackageByID(ctx context.Context, tx repository.Tx, id string) (*model.Package, error) {
	return m.FindPackageByIDFunc(ctx, tx, id)
}
func (m *mockInnerCatalogRepo) FindPackageBySlug(ctx context.Context, tx repository.Tx, tenantID, slug string) (*model.Package, error) {
	return m.FindPackageBySlugFunc(ctx, tx, tenantID, slug)
}
func (m *mockInnerCatalogRepo) ListAddOns(ctx context.Context, tx repository.Tx, packageID string) ([]*model.AddOn, error) {
	return m.ListAddOnsFunc(ctx, tx, packageID)
}
func (m *mockInnerCatalogRepo) FindAddOns(ctx context.Context, tx repository.Tx, packageID string, ids []string) ([]*model.AddOn, error) {
	return m.FindAddOnsFunc(ctx, tx, packageID, ids)
}

// mockRedisClient implements the redis client slice the decorator uses.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNXFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", redisNil{}
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, expiration)
	}
	return true, nil
}

func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key)
	}
	return 1, nil
}

func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, key, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

type redisNil struct{}

func (redisNil) Error() string { return "redis: nil" }
