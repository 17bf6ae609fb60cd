package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vendor-booking-platform/internal/domain/model"
	"vendor-booking-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentProvider = (*HostedPayGateway)(nil)

// HostedPayGateway talks to the hosted-checkout payment aggregator over REST.
// The application idempotency key rides along as the provider Idempotency-Key
// header, so even a racing duplicate request resolves to one charge.
type HostedPayGateway struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	client        *http.Client
}

func NewHostedPayGateway(baseURL, apiKey, webhookSecret string, sandbox bool) (*HostedPayGateway, error) {
	if apiKey == "" {
		return nil, errors.New("api key empty")
	}
	if webhookSecret == "" {
		return nil, errors.New("webhook secret empty")
	}
	if baseURL == "" {
		baseURL = "https://api.hostedpay.example.com"
		if sandbox {
			baseURL = "https://sandbox.hostedpay.example.com"
		}
	}
	return &HostedPayGateway{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *HostedPayGateway) Name() string { return "hostedpay" }

// CreateCheckoutSession calls POST /v1/checkout/sessions and returns the
// hosted payment page the customer is redirected to.
func (g *HostedPayGateway) CreateCheckoutSession(ctx context.Context, req adapter.CheckoutRequest) (*model.CheckoutSession, error) {
	payload := map[string]any{
		"amount":         req.Amount,
		"currency":       req.Currency,
		"customer_email": req.CustomerEmail,
		"description":    req.Description,
		"metadata":       req.Metadata,
	}
	b, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout/sessions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 || out.ID == "" || out.URL == "" {
		return nil, fmt.Errorf("hostedpay session create failed: status=%d", resp.StatusCode)
	}
	return &model.CheckoutSession{
		SessionID:      out.ID,
		URL:            out.URL,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}, nil
}

// webhookEnvelope is the provider delivery format.
type webhookEnvelope struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
	Data      struct {
		Intent adapter.BookingIntent `json:"intent"`
	} `json:"data"`
}

// VerifyWebhook checks the HMAC-SHA256 hex signature over the raw body and
// decodes the envelope. Everything past the boolean outcome of the signature
// check is opaque to the caller.
func (g *HostedPayGateway) VerifyWebhook(rawBody []byte, signature string) (*adapter.VerifiedEvent, error) {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(rawBody)
	sig, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, errors.New("signature mismatch")
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if env.ID == "" || env.TenantID == "" {
		return nil, errors.New("webhook missing event or tenant id")
	}
	intent := env.Data.Intent
	if intent.ProviderRef == "" {
		intent.ProviderRef = env.SessionID
	}
	return &adapter.VerifiedEvent{
		EventID:    env.ID,
		EventType:  env.Type,
		TenantID:   env.TenantID,
		RawPayload: rawBody,
		Intent:     intent,
	}, nil
}

// SignWebhook produces the signature the provider would attach to body.
// Exposed for tests and local replay tooling.
func (g *HostedPayGateway) SignWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
