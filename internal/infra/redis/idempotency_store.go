package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/repository"
)

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout responses in Redis. The reservation is a
// separate SETNX key so a crashed winner blocks retries only until its TTL
// runs out, never forever.
type IdempotencyStore struct {
	cli Client
}

func NewIdempotencyStore(cli Client) *IdempotencyStore {
	return &IdempotencyStore{cli: cli}
}

func responseKey(key string) string    { return "checkout:idem:" + key }
func reservationKey(key string) string { return "checkout:idem:" + key + ":reserved" }

func (s *IdempotencyStore) GetResponse(ctx context.Context, key string) (*model.CheckoutSession, error) {
	val, err := s.cli.Get(ctx, responseKey(key))
	if err != nil {
		if errors.Is(err, Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var sess model.CheckoutSession
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.cli.SetNX(ctx, reservationKey(key), "1", ttl)
}

func (s *IdempotencyStore) StoreResponse(ctx context.Context, key string, sess *model.CheckoutSession, ttl time.Duration) error {
	bytes, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.cli.Set(ctx, responseKey(key), bytes, ttl)
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.cli.Del(ctx, reservationKey(key))
}
