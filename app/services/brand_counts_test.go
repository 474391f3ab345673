package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberique/storefront/app/models"
)

type countingCatalog struct {
	mu     sync.Mutex
	counts map[int64]int
	err    error
}

func (c *countingCatalog) FetchPage(ctx context.Context, kind models.ProductKind, filters ProductFilters, page, pageSize int) (*ProductPage, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return &ProductPage{Count: c.counts[filters.BrandID]}, nil
}

func (c *countingCatalog) FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error) {
	return nil, errors.New("not implemented")
}

func TestBrandCounterRefresh(t *testing.T) {
	catalog := &countingCatalog{counts: map[int64]int{1: 12, 2: 0, 3: 7}}
	counter := NewBrandCounter(catalog)

	counts, err := counter.Refresh(context.Background(), models.ProductKindPerfume, []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 12, 2: 0, 3: 7}, counts)
	assert.Equal(t, counts, counter.Counts(models.ProductKindPerfume, []int64{1, 2, 3}))

	// Brand order does not change the query identity.
	assert.Equal(t, counts, counter.Counts(models.ProductKindPerfume, []int64{3, 1, 2}))
	assert.Nil(t, counter.Counts(models.ProductKindPigment, []int64{1, 2, 3}))
}

func TestBrandCounterFailedBrandCountsAsZero(t *testing.T) {
	catalog := &countingCatalog{err: errors.New("backend down")}
	counter := NewBrandCounter(catalog)

	counts, err := counter.Refresh(context.Background(), models.ProductKindPerfume, []int64{1, 2})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 0, 2: 0}, counts)
}

// gateCatalog blocks fetches for the gated kind until released, signalling
// each entry, and answers all other fetches immediately.
type gateCatalog struct {
	gated   models.ProductKind
	entered chan struct{}
	release chan struct{}
}

func (c *gateCatalog) FetchPage(ctx context.Context, kind models.ProductKind, filters ProductFilters, page, pageSize int) (*ProductPage, error) {
	if kind == c.gated {
		c.entered <- struct{}{}
		<-c.release
		return &ProductPage{Count: 99}, nil
	}
	return &ProductPage{Count: 5}, nil
}

func (c *gateCatalog) FetchProduct(ctx context.Context, kind models.ProductKind, id int64) (*models.RawProduct, error) {
	return nil, errors.New("not implemented")
}

func TestBrandCounterSupersededRefreshIsDiscarded(t *testing.T) {
	catalog := &gateCatalog{gated: models.ProductKindPerfume, entered: make(chan struct{}, 2), release: make(chan struct{})}
	counter := NewBrandCounter(catalog)

	first := make(chan error, 1)
	go func() {
		_, err := counter.Refresh(context.Background(), models.ProductKindPerfume, []int64{1})
		first <- err
	}()
	<-catalog.entered

	// A second refresh for the same kind and brand set starts while the
	// first is still blocked; it holds the newer generation, so the first
	// must report superseded and must not publish its counts.
	second := make(chan error, 1)
	go func() {
		_, err := counter.Refresh(context.Background(), models.ProductKindPerfume, []int64{1})
		second <- err
	}()
	<-catalog.entered
	close(catalog.release)

	require.ErrorIs(t, <-first, ErrCountsSuperseded)
	require.NoError(t, <-second)
	assert.Equal(t, map[int64]int{1: 99}, counter.Counts(models.ProductKindPerfume, []int64{1}))
}

func TestBrandCounterDistinctQueriesDoNotSupersedeEachOther(t *testing.T) {
	catalog := &gateCatalog{gated: models.ProductKindPerfume, entered: make(chan struct{}, 1), release: make(chan struct{})}
	counter := NewBrandCounter(catalog)

	perfumes := make(chan map[int64]int, 1)
	go func() {
		counts, err := counter.Refresh(context.Background(), models.ProductKindPerfume, []int64{1})
		assert.NoError(t, err)
		perfumes <- counts
	}()
	<-catalog.entered

	// A pigment refresh for a different brand completes while the perfume
	// refresh is in flight. It is a different logical query, so the perfume
	// refresh must still publish its own counts.
	pigments, err := counter.Refresh(context.Background(), models.ProductKindPigment, []int64{9})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{9: 5}, pigments)

	close(catalog.release)
	assert.Equal(t, map[int64]int{1: 99}, <-perfumes)
	assert.Equal(t, map[int64]int{1: 99}, counter.Counts(models.ProductKindPerfume, []int64{1}))
	assert.Equal(t, map[int64]int{9: 5}, counter.Counts(models.ProductKindPigment, []int64{9}))
}
