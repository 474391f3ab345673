package stores

import (
	"sync"

	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/storage"
)

// Manager hands out one CartStore, one FavoritesStore, one payment status
// poller and the active feed listings per visitor session. Instances are
// created lazily and reused for the session's lifetime.
type Manager struct {
	store    storage.Store
	catalog  services.CatalogClient
	favs     services.FavoritesAPI
	payments services.PaymentAPI

	mu        sync.Mutex
	carts     map[string]*CartStore
	favorites map[string]*FavoritesStore
	pollers   map[string]*services.StatusPoller
	feeds     map[string]*services.PagedList
}

func NewManager(store storage.Store, catalog services.CatalogClient, favs services.FavoritesAPI, payments services.PaymentAPI) *Manager {
	return &Manager{
		store:     store,
		catalog:   catalog,
		favs:      favs,
		payments:  payments,
		carts:     make(map[string]*CartStore),
		favorites: make(map[string]*FavoritesStore),
		pollers:   make(map[string]*services.StatusPoller),
		feeds:     make(map[string]*services.PagedList),
	}
}

func (m *Manager) Cart(sessionID string) *CartStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[sessionID]; ok {
		return cart
	}
	cart := NewCartStore(m.store, storage.CartKey(sessionID))
	m.carts[sessionID] = cart
	return cart
}

func (m *Manager) Favorites(sessionID string) *FavoritesStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fav, ok := m.favorites[sessionID]; ok {
		return fav
	}
	fav := NewFavoritesStore(m.store, m.favs, storage.FavoritesKey(sessionID))
	m.favorites[sessionID] = fav
	return fav
}

// Poller returns the visitor's payment status poller, so stale status
// responses are discarded per visitor.
func (m *Manager) Poller(sessionID string) *services.StatusPoller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if poller, ok := m.pollers[sessionID]; ok {
		return poller
	}
	poller := services.NewStatusPoller(m.payments)
	m.pollers[sessionID] = poller
	return poller
}

// Feed returns the visitor's incremental listing for one filtered query.
// Changing the kind, filters or page size starts a fresh listing; repeating
// the same query keeps appending to the one already in progress.
func (m *Manager) Feed(sessionID string, kind models.ProductKind, filters services.ProductFilters, pageSize int) *services.PagedList {
	key := sessionID + "|" + filters.CacheKey(kind, 0, pageSize)

	m.mu.Lock()
	defer m.mu.Unlock()
	if feed, ok := m.feeds[key]; ok {
		return feed
	}
	feed := services.NewPagedList(m.catalog, kind, filters, pageSize)
	m.feeds[key] = feed
	return feed
}
