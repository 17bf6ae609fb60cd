// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
	"vendor-booking-platform/internal/domain/ports/repository"
	"vendor-booking-platform/internal/infra/logging"
	"vendor-booking-platform/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Start prices the intent and returns a provider checkout session. A
	// retried intent with the same idempotency key returns the session
	// issued first instead of opening a second one.
	Start(ctx context.Context, intent model.CheckoutIntent) (*model.CheckoutSession, error)
}

type checkoutUC struct {
	catalog  repository.CatalogRepository
	store    repository.IdempotencyStore
	provider adapter.PaymentProvider

	responseTTL time.Duration
	reserveTTL  time.Duration
	winnerWait  time.Duration

	log *zerolog.Logger
}

func NewCheckoutUseCase(catalog repository.CatalogRepository, store repository.IdempotencyStore, provider adapter.PaymentProvider, responseTTL, reserveTTL, winnerWait time.Duration, logger *zerolog.Logger) *checkoutUC {
	compLog := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{
		catalog:     catalog,
		store:       store,
		provider:    provider,
		responseTTL: responseTTL,
		reserveTTL:  reserveTTL,
		winnerWait:  winnerWait,
		log:         &compLog,
	}
}

func (uc *checkoutUC) Start(ctx context.Context, intent model.CheckoutIntent) (*model.CheckoutSession, error) {
	defer logging.TraceDuration(uc.log, "CheckoutUC.Start")()

	if err := intent.Validate(); err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}

	tenant, err := uc.catalog.FindTenantByID(ctx, nil, intent.TenantID)
	if err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}
	if !tenant.Active {
		metrics.IncCheckout("rejected")
		return nil, domain.ErrTenantInactive
	}

	pkg, err := uc.catalog.FindPackageByID(ctx, nil, intent.PackageID)
	if err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}
	if pkg.TenantID != intent.TenantID || !pkg.Active {
		metrics.IncCheckout("rejected")
		return nil, domain.ErrNotFound
	}

	addOns, err := uc.catalog.FindAddOns(ctx, nil, pkg.ID, intent.AddOnIDs)
	if err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}

	breakdown, err := model.CalculateCommission(pkg.BasePrice, derefAddOns(addOns), tenant.CommissionPercent)
	if err != nil {
		metrics.IncCheckout("rejected")
		return nil, err
	}

	key := intent.IdempotencyKey()

	// Store failures only weaken duplicate suppression; they never block a
	// checkout, so every store error below is logged and swallowed.
	if sess, err := uc.store.GetResponse(ctx, key); err == nil {
		metrics.IncCheckout("cache_hit")
		return sess, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		uc.log.Warn().Err(err).Msg("idempotency lookup failed; continuing without cache")
	}

	reserved, err := uc.store.Reserve(ctx, key, uc.reserveTTL)
	if err != nil {
		uc.log.Warn().Err(err).Msg("idempotency reserve failed; continuing without reservation")
		reserved = true
	}
	if !reserved {
		if sess := uc.awaitWinner(ctx, key); sess != nil {
			metrics.IncCheckout("cache_hit")
			return sess, nil
		}
		// The winner never published a response within the wait window.
		// Proceed with an independent provider call rather than deadlock;
		// the provider-level idempotency key still collapses the charge.
		uc.log.Warn().Str("key", key).Msg("reservation winner did not publish; proceeding")
	}

	sess, err := uc.provider.CreateCheckoutSession(ctx, adapter.CheckoutRequest{
		Amount:         breakdown.Total,
		Currency:       pkg.Currency,
		CustomerEmail:  intent.CustomerEmail,
		Description:    pkg.Title,
		IdempotencyKey: key,
		Metadata: map[string]string{
			"tenant_id":  intent.TenantID,
			"package_id": intent.PackageID,
			"event_date": model.DateOnly(intent.EventDate).Format("2006-01-02"),
			"nonce":      intent.Nonce,
		},
	})
	if err != nil {
		// Free the reservation so the next retry is not stuck behind a key
		// that never got a response.
		if relErr := uc.store.Release(ctx, key); relErr != nil {
			uc.log.Warn().Err(relErr).Msg("idempotency release failed")
		}
		metrics.IncCheckout("provider_error")
		return nil, err
	}

	if err := uc.store.StoreResponse(ctx, key, sess, uc.responseTTL); err != nil {
		uc.log.Warn().Err(err).Msg("idempotency store failed; retries may open extra sessions")
	}

	metrics.IncCheckout("created")
	uc.log.Info().Str("session_id", sess.SessionID).Str("tenant_id", intent.TenantID).Int64("amount", sess.Amount).Msg("checkout session created")
	return sess, nil
}

// awaitWinner polls briefly for the concurrent reservation holder's response.
func (uc *checkoutUC) awaitWinner(ctx context.Context, key string) *model.CheckoutSession {
	deadline := time.Now().Add(uc.winnerWait)
	step := uc.winnerWait / 5
	if step <= 0 {
		step = 20 * time.Millisecond
	}
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(step):
		}
		if sess, err := uc.store.GetResponse(ctx, key); err == nil {
			return sess
		}
	}
	return nil
}
