//go:build !integration

package web_test

import (
	"context"
	"fmt"
	"time"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
)

type mockCheckoutUC struct {
	StartFunc func(ctx context.Context, intent model.CheckoutIntent) (*model.CheckoutSession, error)
}

func (m *mockCheckoutUC) Start(ctx context.Context, intent model.CheckoutIntent) (*model.CheckoutSession, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, intent)
	}
	return &model.CheckoutSession{
		SessionID:      "sess-1",
		URL:            "https://pay.example.test/sess-1",
		Amount:         160000,
		Currency:       "THB",
		IdempotencyKey: intent.IdempotencyKey(),
		CreatedAt:      time.Now(),
	}, nil
}

type mockBookingUC struct {
	OnPaymentCompletedFunc func(ctx context.Context, ev adapter.VerifiedEvent) (*model.Booking, error)
	GetByReferenceFunc     func(ctx context.Context, reference string) (*model.Booking, error)
	ListByTenantFunc       func(ctx context.Context, tenantID string, offset, limit int) ([]*model.Booking, error)
}

func (m *mockBookingUC) OnPaymentCompleted(ctx context.Context, ev adapter.VerifiedEvent) (*model.Booking, error) {
	if m.OnPaymentCompletedFunc != nil {
		return m.OnPaymentCompletedFunc(ctx, ev)
	}
	return nil, fmt.Errorf("not wired")
}

func (m *mockBookingUC) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	return nil, fmt.Errorf("not wired")
}

func (m *mockBookingUC) ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*model.Booking, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID, offset, limit)
	}
	return nil, fmt.Errorf("not wired")
}

type mockCatalogUC struct {
	PackageBySlugFunc func(ctx context.Context, tenantID, slug string) (*model.Package, []*model.AddOn, error)
}

func (m *mockCatalogUC) PackageBySlug(ctx context.Context, tenantID, slug string) (*model.Package, []*model.AddOn, error) {
	if m.PackageBySlugFunc != nil {
		return m.PackageBySlugFunc(ctx, tenantID, slug)
	}
	return nil, nil, fmt.Errorf("not wired")
}

func (m *mockCatalogUC) TenantByID(ctx context.Context, id string) (*model.Tenant, error) {
	return nil, fmt.Errorf("not wired")
}

type mockProvider struct {
	VerifyWebhookFunc func(rawBody []byte, signature string) (*adapter.VerifiedEvent, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (*model.CheckoutSession, error) {
	return nil, fmt.Errorf("not wired")
}

func (m *mockProvider) VerifyWebhook(rawBody []byte, signature string) (*adapter.VerifiedEvent, error) {
	if m.VerifyWebhookFunc != nil {
		return m.VerifyWebhookFunc(rawBody, signature)
	}
	return nil, fmt.Errorf("bad signature")
}

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}
