package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberique/storefront/app/helpers"
	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/storage"
	"github.com/amberique/storefront/app/stores"
	"github.com/amberique/storefront/app/utils/renderer"
)

func catalogRouter(h *CatalogHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/catalog/{kind:perfumes|pigments}/brand-counts", h.BrandCounts).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{kind:perfumes|pigments}/feed", h.Feed).Methods(http.MethodGet)
	return r
}

// gatedKindCatalog blocks perfume fetches until released, signalling each
// entry, and answers pigment fetches immediately.
type gatedKindCatalog struct {
	entered chan struct{}
	release chan struct{}
}

func (c *gatedKindCatalog) FetchPage(ctx context.Context, kind models.ProductKind, filters services.ProductFilters, page, pageSize int) (*services.ProductPage, error) {
	if kind == models.ProductKindPerfume {
		c.entered <- struct{}{}
		<-c.release
		return &services.ProductPage{Count: 12}, nil
	}
	return &services.ProductPage{Count: 5}, nil
}

func (c *gatedKindCatalog) FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error) {
	return nil, errors.New("not implemented")
}

func decodeCounts(t *testing.T, w *httptest.ResponseRecorder) map[string]int {
	t.Helper()
	var body struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Counts
}

func TestBrandCountsConcurrentQueriesServeTheirOwnBrands(t *testing.T) {
	catalog := &gatedKindCatalog{entered: make(chan struct{}, 1), release: make(chan struct{})}
	h := NewCatalogHandler(catalog, services.NewBrandCounter(catalog), nil, renderer.New())
	router := catalogRouter(h)

	perfumes := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/perfumes/brand-counts?brand=1", nil))
		perfumes <- w
	}()
	<-catalog.entered

	// A pigment query for a different brand completes while the perfume
	// query is still waiting on the backend.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/pigments/brand-counts?brand=9", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"9": 5}, decodeCounts(t, w))

	// The perfume response must still carry the brand it asked for.
	close(catalog.release)
	got := <-perfumes
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, map[string]int{"1": 12}, decodeCounts(t, got))
}

// pagingCatalog serves two fixed pages: ids 1 and 2, then id 3.
type pagingCatalog struct{}

func (c *pagingCatalog) FetchPage(ctx context.Context, kind models.ProductKind, filters services.ProductFilters, page, pageSize int) (*services.ProductPage, error) {
	next := "https://api.example.com/api/perfumes/?page=2"
	switch page {
	case 1:
		return &services.ProductPage{
			Count:   3,
			Next:    &next,
			Results: []models.RawProduct{{ID: 1, Name: "A", Price: "100"}, {ID: 2, Name: "B", Price: "200"}},
		}, nil
	case 2:
		return &services.ProductPage{
			Count:   3,
			Results: []models.RawProduct{{ID: 3, Name: "C", Price: "300"}},
		}, nil
	default:
		return nil, fmt.Errorf("unexpected page %d", page)
	}
}

func (c *pagingCatalog) FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error) {
	return nil, errors.New("not implemented")
}

func feedRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(helpers.WithSessionID(req.Context(), "visitor-1"))
}

func decodeFeed(t *testing.T, w *httptest.ResponseRecorder) (ids []int64, hasMore bool) {
	t.Helper()
	var body struct {
		HasMore bool `json:"has_more"`
		Items   []struct {
			Product struct {
				ID int64 `json:"id"`
			} `json:"product"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, item := range body.Items {
		ids = append(ids, item.Product.ID)
	}
	return ids, body.HasMore
}

func TestFeedAccumulatesPagesInServerOrder(t *testing.T) {
	catalog := &pagingCatalog{}
	manager := stores.NewManager(storage.NewMemory(), catalog, nil, nil)
	h := NewCatalogHandler(catalog, services.NewBrandCounter(catalog), manager, renderer.New())
	router := catalogRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, feedRequest("/catalog/perfumes/feed"))
	require.Equal(t, http.StatusOK, w.Code)
	ids, hasMore := decodeFeed(t, w)
	assert.Equal(t, []int64{1, 2}, ids)
	assert.True(t, hasMore)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, feedRequest("/catalog/perfumes/feed"))
	require.Equal(t, http.StatusOK, w.Code)
	ids, hasMore = decodeFeed(t, w)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.False(t, hasMore)

	// Exhausted: another call must not fetch a third page or grow the list.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, feedRequest("/catalog/perfumes/feed"))
	require.Equal(t, http.StatusOK, w.Code)
	ids, _ = decodeFeed(t, w)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}
