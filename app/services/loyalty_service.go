package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/amberique/storefront/app/models"
)

type LoyaltyAPI interface {
	GetAccount(ctx context.Context) (*models.LoyaltyAccount, error)
	GetHistory(ctx context.Context, page int) ([]models.LoyaltyTransaction, error)
}

type LoyaltyService struct {
	client  *http.Client
	baseURL string
}

func NewLoyaltyService(baseURL string) *LoyaltyService {
	return &LoyaltyService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

func (s *LoyaltyService) GetAccount(ctx context.Context) (*models.LoyaltyAccount, error) {
	body, err := s.get(ctx, "/api/loyalty/account/")
	if err != nil {
		return nil, err
	}

	var account models.LoyaltyAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to parse loyalty account: %w", err)
	}
	return &account, nil
}

func (s *LoyaltyService) GetHistory(ctx context.Context, page int) ([]models.LoyaltyTransaction, error) {
	if page <= 0 {
		page = 1
	}
	body, err := s.get(ctx, fmt.Sprintf("/api/loyalty/transactions/?page=%d", page))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []models.LoyaltyTransaction `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse loyalty history: %w", err)
	}
	return envelope.Results, nil
}

func (s *LoyaltyService) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create loyalty request: %w", err)
	}
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("LoyaltyService: request to %s failed: %v", path, err)
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read loyalty response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("LoyaltyService: %s returned status %d, body: %s", path, resp.StatusCode, string(body))
		return nil, fmt.Errorf("loyalty API error: status %d", resp.StatusCode)
	}
	return body, nil
}
