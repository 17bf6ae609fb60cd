// File: internal/usecase/booking_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
	"vendor-booking-platform/internal/domain/ports/repository"
	"vendor-booking-platform/internal/infra/logging"
	"vendor-booking-platform/internal/infra/metrics"
)

// Compile-time check
var _ BookingUseCase = (*bookingUC)(nil)

type BookingUseCase interface {
	// OnPaymentCompleted materializes a booking from a verified provider
	// event. Replays of an already-processed event return the original
	// booking without side effects; a delivery racing an in-flight sibling
	// is absorbed and returns (nil, nil).
	OnPaymentCompleted(ctx context.Context, ev adapter.VerifiedEvent) (*model.Booking, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*model.Booking, error)
}

type bookingUC struct {
	bookings  repository.BookingRepository
	webhooks  repository.WebhookRepository
	customers repository.CustomerRepository
	catalog   repository.CatalogRepository
	tm        repository.TransactionManager
	emitter   adapter.NotificationEmitter
	log       *zerolog.Logger
}

func NewBookingUseCase(bookings repository.BookingRepository, webhooks repository.WebhookRepository, customers repository.CustomerRepository, catalog repository.CatalogRepository, tm repository.TransactionManager, emitter adapter.NotificationEmitter, logger *zerolog.Logger) *bookingUC {
	compLog := logger.With().Str("component", "BookingUC").Logger()
	return &bookingUC{
		bookings:  bookings,
		webhooks:  webhooks,
		customers: customers,
		catalog:   catalog,
		tm:        tm,
		emitter:   emitter,
		log:       &compLog,
	}
}

func (uc *bookingUC) OnPaymentCompleted(ctx context.Context, ev adapter.VerifiedEvent) (*model.Booking, error) {
	defer logging.TraceDuration(uc.log, "BookingUC.OnPaymentCompleted")()
	log := uc.log.With().Str("tenant_id", ev.TenantID).Str("event_id", ev.EventID).Logger()

	duplicate, prev, err := uc.webhooks.Observe(ctx, nil, ev.TenantID, ev.EventID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		metrics.IncWebhookDuplicate()
		switch prev {
		case model.WebhookStatusProcessed:
			// Terminal success: idempotent no-op returning the original.
			log.Info().Msg("redelivery of processed event")
			metrics.IncWebhookEvent("absorbed")
			return uc.processedBooking(ctx, ev.TenantID, ev.EventID)
		case model.WebhookStatusPending, model.WebhookStatusDuplicate:
			// A sibling delivery is in flight. Absorb; if the sibling dies
			// the provider redelivers and finds the row failed.
			log.Info().Str("prev_status", string(prev)).Msg("event already in flight; absorbed")
			metrics.IncWebhookEvent("absorbed")
			return nil, nil
		case model.WebhookStatusFailed:
			log.Info().Msg("redelivery of failed event; reprocessing")
		}
	} else {
		record, err := model.NewWebhookEvent(ev.TenantID, ev.EventID, ev.EventType, ev.RawPayload)
		if err != nil {
			return nil, err
		}
		inserted, err := uc.webhooks.Record(ctx, nil, record)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// Benign race: a concurrent first sighting won the insert.
			// Keep going; the booking ledger arbitrates the real conflict.
			log.Debug().Msg("webhook row inserted concurrently")
		}
	}

	booking, err := uc.materialize(ctx, ev)
	if err != nil {
		uc.recordFailure(ctx, ev, err)
		return nil, err
	}

	metrics.IncBooking("created")
	metrics.AddBookingRevenue(booking.Currency, booking.TotalAmount)
	metrics.IncWebhookEvent("processed")
	log.Info().Str("booking_id", booking.ID).Str("reference", booking.Reference).Msg("booking materialized")

	uc.emitConfirmed(ctx, booking)
	return booking, nil
}

// materialize runs the locked booking-creation transaction: advisory date
// lock (fail fast), conflict re-check, customer upsert, booking + add-on +
// payment inserts and the processed mark, all atomic. Any error rolls the
// whole thing back.
func (uc *bookingUC) materialize(ctx context.Context, ev adapter.VerifiedEvent) (*model.Booking, error) {
	intent := ev.Intent

	pkg, err := uc.catalog.FindPackageByID(ctx, nil, intent.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg.TenantID != ev.TenantID {
		return nil, domain.ErrNotFound
	}
	tenant, err := uc.catalog.FindTenantByID(ctx, nil, ev.TenantID)
	if err != nil {
		return nil, err
	}
	addOns, err := uc.catalog.FindAddOns(ctx, nil, pkg.ID, intent.AddOnIDs)
	if err != nil {
		return nil, err
	}

	breakdown, err := model.CalculateCommission(pkg.BasePrice, derefAddOns(addOns), tenant.CommissionPercent)
	if err != nil {
		return nil, err
	}

	booking, err := model.NewBooking(ev.TenantID, pkg.ID, intent.CustomerName, intent.CustomerEmail, intent.CustomerPhone,
		intent.EventDate, intent.AddOnIDs, breakdown.Total, breakdown.Commission, breakdown.Percent, pkg.Currency)
	if err != nil {
		return nil, err
	}

	amount := breakdown.Total
	if intent.AmountPaid > 0 {
		amount = intent.AmountPaid
	}
	pay := &model.PaymentRecord{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		TenantID:    ev.TenantID,
		Provider:    "hostedpay",
		ProviderRef: intent.ProviderRef,
		Amount:      amount,
		Currency:    pkg.Currency,
		Status:      model.PaymentStatusSucceeded,
		CreatedAt:   time.Now(),
	}

	start := time.Now()
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.bookings.AcquireDateLock(ctx, tx, booking.TenantID, booking.EventDate); err != nil {
			return err
		}
		if _, err := uc.bookings.FindActiveByDate(ctx, tx, booking.TenantID, booking.EventDate); err == nil {
			return domain.ErrBookingConflict
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		customerID, err := uc.customers.UpsertByEmail(ctx, tx, &model.Customer{
			ID:        uuid.NewString(),
			TenantID:  booking.TenantID,
			Name:      booking.CustomerName,
			Email:     booking.CustomerEmail,
			Phone:     booking.CustomerPhone,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return err
		}
		booking.CustomerID = customerID
		if err := uc.bookings.Insert(ctx, tx, booking, pay); err != nil {
			return err
		}
		return uc.webhooks.MarkProcessed(ctx, tx, ev.TenantID, ev.EventID, booking.ID)
	})
	metrics.ObserveBookingCreate(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (uc *bookingUC) recordFailure(ctx context.Context, ev adapter.VerifiedEvent, cause error) {
	switch {
	case errors.Is(cause, domain.ErrBookingConflict):
		metrics.IncBooking("conflict")
	case errors.Is(cause, domain.ErrBookingLockTimeout):
		metrics.IncBooking("lock_timeout")
	default:
		metrics.IncBooking("error")
	}
	metrics.IncWebhookEvent("failed")
	if err := uc.webhooks.MarkFailed(ctx, nil, ev.TenantID, ev.EventID, cause.Error()); err != nil {
		uc.log.Error().Err(err).Str("event_id", ev.EventID).Msg("mark failed did not stick")
	}
}

// emitConfirmed publishes the downstream notification. Failures are logged
// and dropped: the booking is already committed and must not unwind.
func (uc *bookingUC) emitConfirmed(ctx context.Context, b *model.Booking) {
	titles := make([]string, 0, len(b.AddOnIDs))
	if addOns, err := uc.catalog.FindAddOns(ctx, nil, b.PackageID, b.AddOnIDs); err == nil {
		for _, a := range addOns {
			titles = append(titles, a.Title)
		}
	}
	packageTitle := ""
	if pkg, err := uc.catalog.FindPackageByID(ctx, nil, b.PackageID); err == nil {
		packageTitle = pkg.Title
	}
	err := uc.emitter.BookingConfirmed(ctx, adapter.BookingConfirmedEvent{
		BookingID:     b.ID,
		Reference:     b.Reference,
		TenantID:      b.TenantID,
		PackageTitle:  packageTitle,
		AddOnTitles:   titles,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		EventDate:     b.EventDate,
		TotalAmount:   b.TotalAmount,
		Currency:      b.Currency,
		ConfirmedAt:   time.Now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("booking_id", b.ID).Msg("booking.confirmed emission failed")
	}
}

// processedBooking loads the booking a processed event materialized.
func (uc *bookingUC) processedBooking(ctx context.Context, tenantID, eventID string) (*model.Booking, error) {
	row, err := uc.webhooks.FindByEventID(ctx, nil, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	if row.BookingID == nil {
		return nil, nil
	}
	return uc.bookings.FindByID(ctx, nil, *row.BookingID)
}

func (uc *bookingUC) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	return uc.bookings.FindByReference(ctx, nil, reference)
}

func (uc *bookingUC) ListByTenant(ctx context.Context, tenantID string, offset, limit int) ([]*model.Booking, error) {
	return uc.bookings.ListByTenant(ctx, nil, tenantID, offset, limit)
}

func derefAddOns(addOns []*model.AddOn) []model.AddOn {
	out := make([]model.AddOn, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, *a)
	}
	return out
}
