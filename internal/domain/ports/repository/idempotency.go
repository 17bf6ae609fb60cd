package repository

import (
	"context"
	"time"

	"vendor-booking-platform/internal/domain/model"
)

// IdempotencyStore caches checkout responses per idempotency key. It is an
// optimization layer: failures here must never block a legitimate checkout,
// only weaken duplicate suppression. TTLs bound storage growth and must
// exceed the longest plausible client retry window.
type IdempotencyStore interface {
	// GetResponse returns the stored session for key, or domain.ErrNotFound.
	GetResponse(ctx context.Context, key string) (*model.CheckoutSession, error)

	// Reserve atomically claims key for the calling request. reserved=false
	// means another request holds the claim and its response should appear
	// shortly.
	Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, err error)

	// StoreResponse persists the session under key.
	StoreResponse(ctx context.Context, key string, s *model.CheckoutSession, ttl time.Duration) error

	// Release drops a reservation whose provider call failed, so the next
	// retry is not blocked until the reservation TTL expires.
	Release(ctx context.Context, key string) error
}
