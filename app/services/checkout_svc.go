package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/amberique/storefront/app/models"
)

// OrderRequest is the payload the storefront submits when the customer
// confirms checkout. Line items carry product identity and quantity only;
// the backend re-resolves prices before charging.
type OrderRequest struct {
	Items     []OrderLine         `json:"items"`
	Delivery  models.CheckoutForm `json:"delivery"`
	UsePoints bool                `json:"use_points"`
	Provider  PaymentProvider     `json:"provider"`
}

type OrderLine struct {
	ProductID   int64              `json:"product_id"`
	ProductType models.ProductKind `json:"product_type"`
	Quantity    int                `json:"quantity"`
}

// OrderResult is what the backend returns for a created order: the order
// code plus the payment page the customer is redirected to.
type OrderResult struct {
	OrderID    string `json:"order_id"`
	PaymentID  string `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
}

type OrdersAPI interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

type CheckoutService struct {
	client  *http.Client
	baseURL string
}

func NewCheckoutService(baseURL string) *CheckoutService {
	return &CheckoutService{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

func (s *CheckoutService) CreateOrder(ctx context.Context, orderReq OrderRequest) (*OrderResult, error) {
	if len(orderReq.Items) == 0 {
		return nil, fmt.Errorf("cannot submit an empty order")
	}

	payload, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/orders/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("CheckoutService: order request failed: %v", err)
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("CheckoutService: order returned status %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("order API error: status %d", resp.StatusCode)
	}

	var result OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}
	return &result, nil
}
