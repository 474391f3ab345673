package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amberique/storefront/app/models"
)

// ProductPage is the backend's paginated list envelope.
type ProductPage struct {
	Count    int                 `json:"count"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
	Results  []models.RawProduct `json:"results"`
}

// ProductFilters narrows a catalog listing. The zero value means "no
// filtering"; Ordering is passed through to the backend untouched.
type ProductFilters struct {
	BrandID    int64
	CategoryID int64
	Gender     string
	InStock    bool
	MinPrice   string
	MaxPrice   string
	Search     string
	Ordering   string
}

// Query encodes the filters plus paging into backend query parameters.
// url.Values.Encode sorts by key, so the encoding is deterministic.
func (f ProductFilters) Query(page, pageSize int) url.Values {
	q := url.Values{}
	if f.BrandID > 0 {
		q.Set("brand", strconv.FormatInt(f.BrandID, 10))
	}
	if f.CategoryID > 0 {
		q.Set("category", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Gender != "" {
		q.Set("gender", f.Gender)
	}
	if f.InStock {
		q.Set("in_stock", "true")
	}
	if f.MinPrice != "" {
		q.Set("min_price", f.MinPrice)
	}
	if f.MaxPrice != "" {
		q.Set("max_price", f.MaxPrice)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

// CacheKey identifies one page of one filtered listing. Identical filters
// and paging always produce the same key, so concurrent callers share one
// request and one cached result.
func (f ProductFilters) CacheKey(kind models.ProductKind, page, pageSize int) string {
	return string(kind) + "?" + f.Query(page, pageSize).Encode()
}

type CatalogClient interface {
	FetchPage(ctx context.Context, kind models.ProductKind, filters ProductFilters, page, pageSize int) (*ProductPage, error)
	FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error)
}

type CatalogService struct {
	client  *http.Client
	baseURL string
	apiKey  string

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*ProductPage
}

func NewCatalogService(baseURL, apiKey string) *CatalogService {
	return &CatalogService{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   make(map[string]*ProductPage),
	}
}

func kindPath(kind models.ProductKind) string {
	if kind == models.ProductKindPigment {
		return "/api/pigments/"
	}
	return "/api/perfumes/"
}

// FetchPage loads one catalog page. Identical concurrent calls are collapsed
// into a single backend request; completed pages are served from cache.
func (s *CatalogService) FetchPage(ctx context.Context, kind models.ProductKind, filters ProductFilters, page, pageSize int) (*ProductPage, error) {
	key := filters.CacheKey(kind, page, pageSize)

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		result, err := s.fetchPage(ctx, kind, filters, page, pageSize)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = result
		s.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ProductPage), nil
}

func (s *CatalogService) fetchPage(ctx context.Context, kind models.ProductKind, filters ProductFilters, page, pageSize int) (*ProductPage, error) {
	endpoint := s.baseURL + kindPath(kind) + "?" + filters.Query(page, pageSize).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Add("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("CatalogService: request to %s failed: %v", endpoint, err)
		return nil, fmt.Errorf("failed to fetch %s page %d: %w", kind, page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("CatalogService: %s page %d returned status %d, body: %s", kind, page, resp.StatusCode, string(body))
		return nil, fmt.Errorf("catalog API error: status %d", resp.StatusCode)
	}

	var pageResp ProductPage
	if err := json.Unmarshal(body, &pageResp); err != nil {
		log.Printf("CatalogService: failed to parse %s page %d: %v", kind, page, err)
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	return &pageResp, nil
}

// FetchProduct loads one product detail payload.
func (s *CatalogService) FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error) {
	endpoint := fmt.Sprintf("%s%s%d/", s.baseURL, kindPath(kind), id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create product request: %w", err)
	}
	req.Header.Add("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("CatalogService: product request to %s failed: %v", endpoint, err)
		return nil, fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read product response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %d not found", kind, id)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("CatalogService: product %s/%d returned status %d, body: %s", kind, id, resp.StatusCode, string(body))
		return nil, fmt.Errorf("catalog API error: status %d", resp.StatusCode)
	}

	var raw models.RawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}

	return &raw, nil
}
