package stores

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/storage"
	"github.com/amberique/storefront/app/utils/calc"
)

// CartSubscriber receives the full recomputed cart state after every
// mutation.
type CartSubscriber func(models.CartState)

// CartStore is the single source of truth for one visitor's cart. Every
// mutation recomputes totals, persists a snapshot and notifies subscribers.
// All operations are synchronous and local; server-side carts are not this
// store's concern.
type CartStore struct {
	mu         sync.Mutex
	items      []models.CartItem
	store      storage.Store
	storageKey string
	subs       []CartSubscriber
	now        func() time.Time
}

func NewCartStore(store storage.Store, storageKey string) *CartStore {
	s := &CartStore{
		store:      store,
		storageKey: storageKey,
		now:        time.Now,
	}
	s.hydrate()
	return s
}

// Subscribe registers a listener for state changes. Listeners are invoked
// synchronously, outside the store lock, after each mutation.
func (s *CartStore) Subscribe(fn CartSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem normalizes the payload and merges it into the cart: an existing
// line for the same product identity gains one unit and has its unit price
// re-resolved so a discount change since the first add is picked up; a new
// product starts a line with quantity one.
func (s *CartStore) AddItem(raw *models.RawProduct) (models.CartState, error) {
	product := models.NormalizeForCart(raw)
	if product == nil {
		return s.State(), fmt.Errorf("cannot add an empty product to the cart")
	}

	s.mu.Lock()
	now := s.now()
	merged := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID && s.items[i].ProductType == product.Kind {
			s.items[i].Quantity++
			s.items[i].UnitPrice = calc.PriceInfoFor(product, now).CurrentPrice
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, models.CartItem{
			ID:          uuid.New().String(),
			Product:     *product,
			ProductType: product.Kind,
			Quantity:    1,
			UnitPrice:   calc.PriceInfoFor(product, now).CurrentPrice,
		})
	}

	state := s.commitLocked()
	s.mu.Unlock()

	s.notify(state)
	return state, nil
}

// UpdateQuantity sets a line's quantity exactly; zero or less removes the
// line. Unknown ids are a no-op.
func (s *CartStore) UpdateQuantity(itemID string, quantity int) models.CartState {
	s.mu.Lock()
	if quantity <= 0 {
		s.removeLocked(itemID)
	} else {
		for i := range s.items {
			if s.items[i].ID == itemID {
				s.items[i].Quantity = quantity
				break
			}
		}
	}
	state := s.commitLocked()
	s.mu.Unlock()

	s.notify(state)
	return state
}

// RemoveItem deletes a line unconditionally; a missing id is a no-op.
func (s *CartStore) RemoveItem(itemID string) models.CartState {
	s.mu.Lock()
	s.removeLocked(itemID)
	state := s.commitLocked()
	s.mu.Unlock()

	s.notify(state)
	return state
}

// Clear empties the cart.
func (s *CartStore) Clear() models.CartState {
	s.mu.Lock()
	s.items = nil
	state := s.commitLocked()
	s.mu.Unlock()

	s.notify(state)
	return state
}

// State returns the current derived cart snapshot.
func (s *CartStore) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *CartStore) removeLocked(itemID string) {
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// commitLocked recomputes line subtotals and cart totals, persists the
// snapshot and returns the resulting state. Callers must hold the lock.
func (s *CartStore) commitLocked() models.CartState {
	for i := range s.items {
		s.items[i].Subtotal = s.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(s.items[i].Quantity)))
	}

	state := s.stateLocked()

	encoded, err := json.Marshal(state)
	if err != nil {
		log.Printf("CartStore: failed to encode cart snapshot: %v", err)
		return state
	}
	if err := s.store.Set(s.storageKey, string(encoded)); err != nil {
		log.Printf("CartStore: failed to persist cart snapshot: %v", err)
	}
	return state
}

func (s *CartStore) stateLocked() models.CartState {
	state := models.CartState{
		Items: make([]models.CartItem, len(s.items)),
		Total: decimal.Zero,
	}
	copy(state.Items, s.items)
	for _, item := range s.items {
		state.Total = state.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		state.ItemCount += item.Quantity
	}
	return state
}

// hydrate loads the persisted snapshot. Anything malformed degrades to an
// empty cart; hydration never fails to the caller.
func (s *CartStore) hydrate() {
	raw, ok := s.store.Get(s.storageKey)
	if !ok || raw == "" {
		return
	}

	var snapshot models.CartState
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Printf("CartStore: discarding malformed cart snapshot: %v", err)
		return
	}

	items := snapshot.Items[:0:0]
	for _, item := range snapshot.Items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		items = append(items, item)
	}
	s.items = items
}

func (s *CartStore) notify(state models.CartState) {
	s.mu.Lock()
	subs := make([]CartSubscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
