package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/storage"
	"github.com/amberique/storefront/app/utils/calc"
)

// FavoritesStore maintains the visitor's favorited products. Mutations apply
// locally first; for an authenticated visitor the matching backend call
// follows, and a failed sync restores the pre-mutation snapshot and returns
// the error. A favorite is identified by (ProductID, ProductType).
type FavoritesStore struct {
	mu         sync.Mutex
	items      []models.WishlistItem
	store      storage.Store
	api        services.FavoritesAPI
	storageKey string

	authenticated bool
	hydrated      bool
	loading       bool
}

func NewFavoritesStore(store storage.Store, api services.FavoritesAPI, storageKey string) *FavoritesStore {
	return &FavoritesStore{
		store:      store,
		api:        api,
		storageKey: storageKey,
	}
}

// SetAuthenticated toggles backend syncing. It does not retroactively sync
// items favorited while anonymous; the next Hydrate merges the server list.
func (s *FavoritesStore) SetAuthenticated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = v
}

// Hydrate loads the local snapshot and, for an authenticated visitor, merges
// the server-side list on top of it. A malformed snapshot degrades to an
// empty list; a failed server fetch leaves the local items in place and is
// returned to the caller.
func (s *FavoritesStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.loadSnapshotLocked()
	authed := s.authenticated
	s.mu.Unlock()

	var fetchErr error
	if authed && s.api != nil {
		serverItems, err := s.api.List(ctx)
		if err != nil {
			fetchErr = fmt.Errorf("failed to load server favorites: %w", err)
		} else {
			s.mu.Lock()
			s.mergeServerLocked(serverItems)
			s.persistLocked()
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.loading = false
	s.hydrated = true
	s.mu.Unlock()
	return fetchErr
}

// AddFavorite saves a product. Adding an already-favorited product is a
// no-op. The local list mutates first; a failed backend sync rolls the
// mutation back and surfaces the error.
func (s *FavoritesStore) AddFavorite(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("cannot favorite an empty product")
	}

	s.mu.Lock()
	if s.indexOfLocked(product.ID, product.Kind) >= 0 {
		s.mu.Unlock()
		return nil
	}

	snapshot := s.copyItemsLocked()
	item := models.WishlistItem{
		ID:           uuid.New().String(),
		ProductType:  product.Kind,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductImage: product.Image,
		ProductPrice: calc.PriceInfoFor(product, time.Now()).CurrentPrice,
		ProductData:  product,
	}
	s.items = append(s.items, item)
	s.persistLocked()
	authed := s.authenticated
	s.mu.Unlock()

	if !authed || s.api == nil {
		return nil
	}

	serverID, err := s.api.Add(ctx, product.ID, product.Kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.items = snapshot
		s.persistLocked()
		return fmt.Errorf("failed to sync favorite: %w", err)
	}
	if i := s.indexOfLocked(product.ID, product.Kind); i >= 0 {
		s.items[i].ServerID = serverID
		s.persistLocked()
	}
	return nil
}

// RemoveFavorite drops a product from the list, and from the backend when
// it had been synced. A missing product is a no-op.
func (s *FavoritesStore) RemoveFavorite(ctx context.Context, productID int64, kind models.ProductKind) error {
	s.mu.Lock()
	i := s.indexOfLocked(productID, kind)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}

	snapshot := s.copyItemsLocked()
	synced := s.items[i].ServerID != ""
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistLocked()
	authed := s.authenticated
	s.mu.Unlock()

	if !authed || !synced || s.api == nil {
		return nil
	}

	if err := s.api.Remove(ctx, productID, kind); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.persistLocked()
		s.mu.Unlock()
		return fmt.Errorf("failed to sync favorite removal: %w", err)
	}
	return nil
}

// Contains reports whether the product is favorited.
func (s *FavoritesStore) Contains(productID int64, kind models.ProductKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfLocked(productID, kind) >= 0
}

// Items returns a copy of the current list.
func (s *FavoritesStore) Items() []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItemsLocked()
}

func (s *FavoritesStore) IsHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *FavoritesStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *FavoritesStore) indexOfLocked(productID int64, kind models.ProductKind) int {
	for i := range s.items {
		if s.items[i].SameProduct(productID, kind) {
			return i
		}
	}
	return -1
}

func (s *FavoritesStore) copyItemsLocked() []models.WishlistItem {
	out := make([]models.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// mergeServerLocked folds the backend list into the local one. A server
// entry wins over a local entry for the same product; local-only entries
// (favorited while offline or anonymous) are kept.
func (s *FavoritesStore) mergeServerLocked(serverItems []services.ServerFavorite) {
	for _, sv := range serverItems {
		kind := models.ProductKind(sv.ProductType)
		if i := s.indexOfLocked(sv.ProductID, kind); i >= 0 {
			s.items[i].ServerID = sv.ID
			continue
		}
		s.items = append(s.items, models.WishlistItem{
			ID:           uuid.New().String(),
			ProductType:  kind,
			ProductID:    sv.ProductID,
			ProductName:  sv.ProductName,
			ProductImage: sv.ProductImage,
			ServerID:     sv.ID,
		})
	}
}

func (s *FavoritesStore) persistLocked() {
	encoded, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("FavoritesStore: failed to encode snapshot: %v", err)
		return
	}
	if err := s.store.Set(s.storageKey, string(encoded)); err != nil {
		log.Printf("FavoritesStore: failed to persist snapshot: %v", err)
	}
}

func (s *FavoritesStore) loadSnapshotLocked() {
	raw, ok := s.store.Get(s.storageKey)
	if !ok || raw == "" {
		return
	}
	var items []models.WishlistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("FavoritesStore: discarding malformed snapshot: %v", err)
		return
	}
	s.items = items
}
