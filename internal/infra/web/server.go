// File: internal/infra/web/server.go
package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"vendor-booking-platform/internal/domain/ports/adapter"
	"vendor-booking-platform/internal/infra/redis"
	"vendor-booking-platform/internal/usecase"
)

// Limiter is the slice of the redis rate limiter the server needs.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	checkoutUC usecase.CheckoutUseCase
	bookingUC  usecase.BookingUseCase
	catalogUC  usecase.CatalogUseCase
	provider   adapter.PaymentProvider
	auth       *AuthManager
	limiter    Limiter
	perMinute  int
	log        *zerolog.Logger

	server *http.Server
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	bookingUC usecase.BookingUseCase,
	catalogUC usecase.CatalogUseCase,
	provider adapter.PaymentProvider,
	auth *AuthManager,
	limiter Limiter,
	checkoutPerMinute int,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		checkoutUC: checkoutUC,
		bookingUC:  bookingUC,
		catalogUC:  catalogUC,
		provider:   provider,
		auth:       auth,
		limiter:    limiter,
		perMinute:  checkoutPerMinute,
		log:        &compLog,
	}
}

// RegisterRoutes sets up the public checkout surface, the provider webhook
// endpoint and the vendor API.
func (s *Server) RegisterRoutes(r *chi.Mux) {
	r.Get("/health", s.handleHealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhooks/payment", s.handlePaymentWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.rateLimitCheckout).Post("/checkout", s.handleCheckout)
		r.Get("/tenants/{tenantID}/packages/{slug}", s.handlePackageBySlug)
		r.Get("/bookings/{reference}", s.handleBookingByReference)

		r.Group(func(r chi.Router) {
			r.Use(s.requireTenant)
			r.Get("/bookings", s.handleBookingsList)
		})
	})
}

func (s *Server) Start(port int) error {
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// rateLimitCheckout throttles checkout starts per tenant and client address.
// A limiter outage fails open: checkout availability beats throttling.
func (s *Server) rateLimitCheckout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.perMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		tenantID := r.Header.Get("X-Tenant-ID")
		key := redis.CheckoutKey(tenantID, clientAddr(r))
		allowed, err := s.limiter.Allow(r.Context(), key, s.perMinute, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable; failing open")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}
