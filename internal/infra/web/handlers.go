// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vendor-booking-platform/internal/domain"
	"vendor-booking-platform/internal/domain/model"
)

// webhook payload cap; provider events are small.
const maxWebhookBody = 1 << 20

type checkoutRequest struct {
	TenantID      string   `json:"tenant_id"`
	PackageID     string   `json:"package_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	EventDate     string   `json:"event_date"` // YYYY-MM-DD
	AddOnIDs      []string `json:"add_on_ids"`
	Nonce         string   `json:"nonce"`
}

// handleCheckout prices the intent and opens (or replays) a hosted payment
// session.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		http.Error(w, "Invalid event_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	sess, err := s.checkoutUC.Start(ctx, model.CheckoutIntent{
		TenantID:      req.TenantID,
		PackageID:     req.PackageID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		EventDate:     eventDate,
		AddOnIDs:      req.AddOnIDs,
		Nonce:         req.Nonce,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Invalid checkout request", http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrTenantInactive):
			http.Error(w, "Vendor is not accepting bookings", http.StatusUnprocessableEntity)
		default:
			s.log.Error().Err(err).Msg("checkout failed")
			http.Error(w, "Failed to start checkout", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess)
}

// handlePaymentWebhook ingests a provider delivery. The response code is the
// provider's retry contract: 2xx stops redelivery, anything else re-queues
// it, so transient failures must NOT return 2xx.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	ev, err := s.provider.VerifyWebhook(body, r.Header.Get("X-Webhook-Signature"))
	if err != nil {
		s.log.Warn().Err(err).Msg("webhook signature rejected")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	booking, err := s.bookingUC.OnPaymentCompleted(ctx, *ev)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingConflict):
			// Permanent: the date is taken. Acknowledge so the provider
			// stops redelivering; the event row keeps the failure.
			s.log.Warn().Str("event_id", ev.EventID).Msg("webhook event conflicted on date")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(struct {
				Status string `json:"status"`
			}{Status: "conflict"})
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Unresolvable event", http.StatusBadRequest)
		default:
			// Transient (lock contention, db outage): ask for redelivery.
			s.log.Error().Err(err).Str("event_id", ev.EventID).Msg("webhook processing failed")
			http.Error(w, "Processing failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if booking == nil {
		// Absorbed duplicate of an in-flight delivery.
		json.NewEncoder(w).Encode(struct {
			Status string `json:"status"`
		}{Status: "accepted"})
		return
	}
	json.NewEncoder(w).Encode(struct {
		Status    string `json:"status"`
		BookingID string `json:"booking_id"`
		Reference string `json:"reference"`
	}{Status: "processed", BookingID: booking.ID, Reference: booking.Reference})
}

func (s *Server) handlePackageBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")
	slug := chi.URLParam(r, "slug")

	pkg, addOns, err := s.catalogUC.PackageBySlug(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error().Err(err).Msg("package lookup failed")
		http.Error(w, "Failed to get package", http.StatusInternalServerError)
		return
	}

	response := struct {
		Package *model.Package `json:"package"`
		AddOns  []*model.AddOn `json:"add_ons"`
	}{Package: pkg, AddOns: addOns}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleBookingByReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reference := chi.URLParam(r, "reference")

	booking, err := s.bookingUC.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error().Err(err).Msg("booking lookup failed")
		http.Error(w, "Failed to get booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(booking)
}

// handleBookingsList returns the authenticated tenant's bookings.
func (s *Server) handleBookingsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := TenantFromContext(ctx)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	bookings, err := s.bookingUC.ListByTenant(ctx, tenantID, offset, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("booking list failed")
		http.Error(w, "Failed to list bookings", http.StatusInternalServerError)
		return
	}

	response := struct {
		Data   []*model.Booking `json:"data"`
		Limit  int              `json:"limit"`
		Offset int              `json:"offset"`
	}{Data: bookings, Limit: limit, Offset: offset}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
