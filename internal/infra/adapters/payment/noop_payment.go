package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentProvider = (*NoopPaymentProvider)(nil)

// NoopPaymentProvider is a simple in-memory provider to use in tests and dev.
// It honors idempotency keys the way a real provider would: the same key
// always returns the session created first.
type NoopPaymentProvider struct {
	mu       sync.Mutex
	seq      int64
	sessions map[string]*model.CheckoutSession // idempotency key -> session
}

func NewNoopPaymentProvider() *NoopPaymentProvider {
	return &NoopPaymentProvider{sessions: make(map[string]*model.CheckoutSession)}
}

func (p *NoopPaymentProvider) Name() string { return "noop" }

func (p *NoopPaymentProvider) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (*model.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if req.IdempotencyKey != "" {
		if existing, ok := p.sessions[req.IdempotencyKey]; ok {
			return existing, nil
		}
	}
	p.seq++
	sess := &model.CheckoutSession{
		SessionID:      fmt.Sprintf("noop-%d", p.seq),
		URL:            fmt.Sprintf("https://pay.example.test/session/noop-%d", p.seq),
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}
	if req.IdempotencyKey != "" {
		p.sessions[req.IdempotencyKey] = sess
	}
	return sess, nil
}

// VerifyWebhook accepts any payload that decodes; the signature is ignored.
func (p *NoopPaymentProvider) VerifyWebhook(rawBody []byte, signature string) (*adapter.VerifiedEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, err
	}
	return &adapter.VerifiedEvent{
		EventID:    env.ID,
		EventType:  env.Type,
		TenantID:   env.TenantID,
		RawPayload: rawBody,
		Intent:     env.Data.Intent,
	}, nil
}
