package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberique/storefront/app/models"
)

func TestCacheKeyIsDeterministic(t *testing.T) {
	a := ProductFilters{BrandID: 3, Gender: "F", InStock: true, MinPrice: "100", MaxPrice: "5000", Search: "oud", Ordering: "-price"}
	b := ProductFilters{Search: "oud", Ordering: "-price", MaxPrice: "5000", MinPrice: "100", InStock: true, Gender: "F", BrandID: 3}

	assert.Equal(t,
		a.CacheKey(models.ProductKindPerfume, 1, 20),
		b.CacheKey(models.ProductKindPerfume, 1, 20),
		"identical filters must produce string-equal keys")
}

func TestCacheKeyVariesWithFiltersAndPage(t *testing.T) {
	base := ProductFilters{BrandID: 3}

	assert.NotEqual(t, base.CacheKey(models.ProductKindPerfume, 1, 20), base.CacheKey(models.ProductKindPerfume, 2, 20))
	assert.NotEqual(t, base.CacheKey(models.ProductKindPerfume, 1, 20), base.CacheKey(models.ProductKindPigment, 1, 20))
	other := ProductFilters{BrandID: 4}
	assert.NotEqual(t, base.CacheKey(models.ProductKindPerfume, 1, 20), other.CacheKey(models.ProductKindPerfume, 1, 20))
}

func pageHandler(requests *int64, pages map[string]ProductPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requests, 1)
		page := r.URL.Query().Get("page")
		resp, ok := pages[page]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestFetchPageSharesOneRequest(t *testing.T) {
	var requests int64
	next := "next"
	srv := httptest.NewServer(pageHandler(&requests, map[string]ProductPage{
		"1": {Count: 2, Next: &next, Results: []models.RawProduct{{ID: 1, Name: "Oud", Price: "1000", VolumeML: 50}}},
	}))
	defer srv.Close()

	svc := NewCatalogService(srv.URL, "test-key")
	filters := ProductFilters{Gender: "U"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := svc.FetchPage(context.Background(), models.ProductKindPerfume, filters, 1, 20)
			assert.NoError(t, err)
			assert.NotNil(t, page)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&requests), "identical concurrent fetches share one request")

	_, err := svc.FetchPage(context.Background(), models.ProductKindPerfume, filters, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&requests), "repeat fetch served from cache")
}

func TestFetchPagePropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewCatalogService(srv.URL, "test-key")
	_, err := svc.FetchPage(context.Background(), models.ProductKindPerfume, ProductFilters{}, 1, 20)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pigments/12/", r.URL.Path)
		json.NewEncoder(w).Encode(models.RawProduct{ID: 12, Name: "Ruby Mica", Price: "350", WeightGR: 25, ColorType: "shimmer"})
	}))
	defer srv.Close()

	svc := NewCatalogService(srv.URL, "test-key")
	raw, err := svc.FetchProduct(context.Background(), models.ProductKindPigment, 12)

	require.NoError(t, err)
	assert.Equal(t, "Ruby Mica", raw.Name)
	assert.Equal(t, models.ProductKindPigment, raw.DetectKind())
}

func TestPagedListLoadMore(t *testing.T) {
	var requests int64
	next := "2"
	srv := httptest.NewServer(pageHandler(&requests, map[string]ProductPage{
		"1": {Count: 3, Next: &next, Results: []models.RawProduct{
			{ID: 1, Name: "Oud", Price: "1000", VolumeML: 50},
			{ID: 2, Name: "Iris", Price: "1200", VolumeML: 50},
		}},
		"2": {Count: 3, Next: nil, Results: []models.RawProduct{
			{ID: 3, Name: "Cedar", Price: "900", VolumeML: 100},
		}},
	}))
	defer srv.Close()

	list := NewPagedList(NewCatalogService(srv.URL, "k"), models.ProductKindPerfume, ProductFilters{}, 2)
	ctx := context.Background()

	require.NoError(t, list.LoadMore(ctx))
	assert.True(t, list.HasMore())
	require.Len(t, list.Items(), 2)

	require.NoError(t, list.LoadMore(ctx))
	assert.False(t, list.HasMore())

	items := list.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{items[0].ID, items[1].ID, items[2].ID}, "server order preserved")

	require.NoError(t, list.LoadMore(ctx), "exhausted list is a no-op")
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestPagedListEmptyFirstPage(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(pageHandler(&requests, map[string]ProductPage{
		"1": {Count: 0, Next: nil, Results: nil},
	}))
	defer srv.Close()

	list := NewPagedList(NewCatalogService(srv.URL, "k"), models.ProductKindPigment, ProductFilters{Search: "nothing"}, 20)

	require.NoError(t, list.LoadMore(context.Background()))
	assert.False(t, list.HasMore())
	assert.Empty(t, list.Items())
}

func TestPagedListErrorLeavesStateRetryable(t *testing.T) {
	var fail int64 = 1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt64(&fail) == 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(ProductPage{Count: 1, Results: []models.RawProduct{{ID: 1, Name: "Oud", Price: "1000", VolumeML: 50}}})
	}))
	defer srv.Close()

	// The catalog cache never stores failures, so a retry hits the backend.
	list := NewPagedList(NewCatalogService(srv.URL, "k"), models.ProductKindPerfume, ProductFilters{}, 20)
	ctx := context.Background()

	err := list.LoadMore(ctx)
	require.Error(t, err)
	assert.True(t, list.HasMore())
	assert.Empty(t, list.Items())

	atomic.StoreInt64(&fail, 0)
	require.NoError(t, list.LoadMore(ctx))
	assert.Len(t, list.Items(), 1)
}
