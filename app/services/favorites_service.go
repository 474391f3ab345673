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

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
)

// ServerFavorite is one entry of the backend favorites list.
type ServerFavorite struct {
	ID           string `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductType  string `json:"product_type"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Price        string `json:"price"`
}

type FavoritesAPI interface {
	List(ctx context.Context) ([]ServerFavorite, error)
	Add(ctx context.Context, productID int64, kind models.ProductKind) (string, error)
	Remove(ctx context.Context, productID int64, kind models.ProductKind) error
}

type FavoritesService struct {
	client  *http.Client
	baseURL string
}

func NewFavoritesService(baseURL string) *FavoritesService {
	return &FavoritesService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

func (s *FavoritesService) List(ctx context.Context) ([]ServerFavorite, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/favorites/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create favorites request: %w", err)
	}
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("FavoritesService: list request failed: %v", err)
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("FavoritesService: list returned status %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("favorites API error: status %d", resp.StatusCode)
	}

	var envelope struct {
		Results []ServerFavorite `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse favorites response: %w", err)
	}
	return envelope.Results, nil
}

func (s *FavoritesService) Add(ctx context.Context, productID int64, kind models.ProductKind) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"product_id":   productID,
		"product_type": string(kind),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode favorite payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/favorites/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create favorite request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("FavoritesService: add request for %s %d failed: %v", kind, productID, err)
		return "", fmt.Errorf("failed to add favorite: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read favorite response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("FavoritesService: add returned status %d, body: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("favorites API error: status %d", resp.StatusCode)
	}

	var created ServerFavorite
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse favorite response: %w", err)
	}
	return created.ID, nil
}

func (s *FavoritesService) Remove(ctx context.Context, productID int64, kind models.ProductKind) error {
	endpoint := fmt.Sprintf("%s/api/favorites/?product_id=%d&product_type=%s", s.baseURL, productID, kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create favorite delete request: %w", err)
	}
	authorize(ctx, req)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("FavoritesService: remove request for %s %d failed: %v", kind, productID, err)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("favorites API error: status %d", resp.StatusCode)
	}
	return nil
}

// authorize attaches the visitor's bearer token when one is present in the
// request context.
func authorize(ctx context.Context, req *http.Request) {
	if token := helpers.AuthTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
