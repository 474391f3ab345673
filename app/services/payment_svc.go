package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

type PaymentProvider string

const (
	ProviderYooKassa PaymentProvider = "yookassa"
	ProviderTinkoff  PaymentProvider = "tinkoff"
)

// PaymentStatus is the normalized result of a provider status check.
type PaymentStatus struct {
	Provider  PaymentProvider `json:"provider"`
	PaymentID string          `json:"payment_id"`
	Status    string          `json:"status"`
	Paid      bool            `json:"paid"`
}

type PaymentAPI interface {
	CheckStatus(ctx context.Context, provider PaymentProvider, paymentID string) (*PaymentStatus, error)
}

type PaymentService struct {
	client  *http.Client
	baseURL string
}

func NewPaymentService(baseURL string) *PaymentService {
	return &PaymentService{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: baseURL,
	}
}

// CheckStatus queries the backend's status-check endpoint for the given
// provider. YooKassa reports a status string plus a paid flag; Tinkoff
// reports a status string that maps to paid when the payment is confirmed.
func (s *PaymentService) CheckStatus(ctx context.Context, provider PaymentProvider, paymentID string) (*PaymentStatus, error) {
	if provider != ProviderYooKassa && provider != ProviderTinkoff {
		return nil, fmt.Errorf("unknown payment provider: %s", provider)
	}
	endpoint := fmt.Sprintf("%s/api/payments/%s/%s/status/", s.baseURL, provider, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment status request: %w", err)
	}
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("PaymentService: status request for %s payment %s failed: %v", provider, paymentID, err)
		return nil, fmt.Errorf("failed to check %s payment status: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("PaymentService: %s payment %s returned status %d, body: %s", provider, paymentID, resp.StatusCode, string(body))
		return nil, fmt.Errorf("payment API error: status %d", resp.StatusCode)
	}

	var raw struct {
		Status string `json:"status"`
		Paid   *bool  `json:"paid"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse payment status response: %w", err)
	}

	status := &PaymentStatus{Provider: provider, PaymentID: paymentID, Status: raw.Status}
	switch {
	case raw.Paid != nil:
		status.Paid = *raw.Paid
	case provider == ProviderTinkoff:
		status.Paid = strings.EqualFold(raw.Status, "CONFIRMED")
	default:
		status.Paid = strings.EqualFold(raw.Status, "succeeded")
	}
	return status, nil
}

// StatusPoller issues repeated payment status checks and keeps only the
// result of the newest check. Each Check bumps a generation counter; a
// response that resolves after a newer check has been issued is discarded
// instead of overwriting fresher state.
type StatusPoller struct {
	api PaymentAPI

	mu     sync.Mutex
	gen    uint64
	latest *PaymentStatus
}

func NewStatusPoller(api PaymentAPI) *StatusPoller {
	return &StatusPoller{api: api}
}

// Check performs one status check. The returned status is also recorded as
// the poller's latest result unless a newer Check started in the meantime.
func (p *StatusPoller) Check(ctx context.Context, provider PaymentProvider, paymentID string) (*PaymentStatus, error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	status, err := p.api.CheckStatus(ctx, provider, paymentID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		log.Printf("StatusPoller: discarding stale result for %s payment %s", provider, paymentID)
		return status, nil
	}
	p.latest = status
	return status, nil
}

// Latest returns the newest recorded status, or nil before the first
// completed check.
func (p *StatusPoller) Latest() *PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}
