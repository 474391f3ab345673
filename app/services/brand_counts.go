package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/amberique/storefront/app/models"
)

// ErrCountsSuperseded is returned when a newer Refresh for the same kind and
// brand set started before this one finished; the stale result set is
// discarded.
var ErrCountsSuperseded = errors.New("brand counts refresh superseded")

// BrandCounter aggregates per-brand product counts with one concurrent
// catalog request per brand. Generations are tracked per logical query
// (kind plus brand set), so a refresh can only be superseded by a newer
// refresh for the same query, never by one for a different kind or brand
// list.
type BrandCounter struct {
	catalog CatalogClient

	mu     sync.Mutex
	gens   map[string]uint64
	counts map[string]map[int64]int
}

func NewBrandCounter(catalog CatalogClient) *BrandCounter {
	return &BrandCounter{
		catalog: catalog,
		gens:    make(map[string]uint64),
		counts:  make(map[string]map[int64]int),
	}
}

// countsKey canonicalizes a query: brand order does not matter.
func countsKey(kind models.ProductKind, brandIDs []int64) string {
	sorted := append([]int64(nil), brandIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	ids := make([]string, len(sorted))
	for i, id := range sorted {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return string(kind) + ":" + strings.Join(ids, ",")
}

// Refresh fetches the product count of every brand concurrently. Each
// goroutine closes over its own brand id, so out-of-order completion cannot
// mix results between brands. A brand whose request fails counts as zero.
func (b *BrandCounter) Refresh(ctx context.Context, kind models.ProductKind, brandIDs []int64) (map[int64]int, error) {
	key := countsKey(kind, brandIDs)

	b.mu.Lock()
	b.gens[key]++
	gen := b.gens[key]
	b.mu.Unlock()

	results := make([]int, len(brandIDs))
	var wg sync.WaitGroup
	for i, brandID := range brandIDs {
		wg.Add(1)
		go func(slot int, brandID int64) {
			defer wg.Done()
			page, err := b.catalog.FetchPage(ctx, kind, ProductFilters{BrandID: brandID}, 1, 1)
			if err != nil {
				log.Printf("BrandCounter: count fetch for brand %d failed: %v", brandID, err)
				return
			}
			results[slot] = page.Count
		}(i, brandID)
	}
	wg.Wait()

	counts := make(map[int64]int, len(brandIDs))
	for i, brandID := range brandIDs {
		counts[brandID] = results[i]
	}

	// Staleness check and publish happen under the same lock, so a refresh
	// that passes the check cannot overwrite a newer result.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gens[key] != gen {
		return nil, ErrCountsSuperseded
	}
	b.counts[key] = counts
	return counts, nil
}

// Counts returns the last completed refresh result for the given kind and
// brand set, or nil when no refresh for that query has completed yet.
func (b *BrandCounter) Counts(kind models.ProductKind, brandIDs []int64) map[int64]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts, ok := b.counts[countsKey(kind, brandIDs)]
	if !ok {
		return nil
	}
	out := make(map[int64]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
