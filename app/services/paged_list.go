package services

import (
	"context"
	"sync"

	"github.com/amberique/storefront/app/models"
)

// PagedList incrementally loads one filtered catalog listing and merges the
// pages into a single normalized sequence in server order.
type PagedList struct {
	client   CatalogClient
	kind     models.ProductKind
	filters  ProductFilters
	pageSize int

	mu       sync.Mutex
	page     int
	items    []models.Product
	hasMore  bool
	inFlight bool
}

func NewPagedList(client CatalogClient, kind models.ProductKind, filters ProductFilters, pageSize int) *PagedList {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &PagedList{
		client:   client,
		kind:     kind,
		filters:  filters,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// LoadMore fetches the next page and appends its results. It is a no-op
// while a load is in flight or once the listing is exhausted. The fetch
// itself runs without the lock so concurrent readers stay unblocked.
func (l *PagedList) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.inFlight || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	l.inFlight = true
	nextPage := l.page + 1
	l.mu.Unlock()

	page, err := l.client.FetchPage(ctx, l.kind, l.filters, nextPage, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		return err
	}

	for i := range page.Results {
		if p := models.NormalizeProduct(&page.Results[i]); p != nil {
			l.items = append(l.items, *p)
		}
	}
	l.page = nextPage
	l.hasMore = page.Next != nil && len(page.Results) > 0
	return nil
}

// Items returns the merged results loaded so far, in server order.
func (l *PagedList) Items() []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Product, len(l.items))
	copy(out, l.items)
	return out
}

func (l *PagedList) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *PagedList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}
