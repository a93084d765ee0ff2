package storefront

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/collection"
)

// CartItem is one cart line. Price is the unit price snapshot from the
// moment the item was added.
type CartItem struct {
	ProductID     string
	Name          string
	Size          models.Size
	Price         float64
	Quantity      int
	Customization *models.Customization
}

// Key identifies a cart line: product, size, and the serialized
// customization payload. Adding an item with a matching key merges
// quantities instead of creating a duplicate line.
func (i CartItem) Key() string {
	payload, _ := json.Marshal(i.Customization)
	return fmt.Sprintf("%s|%s|%s", i.ProductID, i.Size, payload)
}

// CartState is an immutable snapshot of the cart. Total always equals
// the sum of Price×Quantity over the lines.
type CartState struct {
	Items []CartItem
	Total float64
}

// CartAction is a cart mutation handled by the reducer.
type CartAction interface{ isCartAction() }

// AddItem creates a line or merges into an existing one with the same key.
type AddItem struct {
	Item CartItem
}

// RemoveItem deletes the line with the given key.
type RemoveItem struct {
	Key string
}

// SetQuantity sets a line's quantity. Values below 1 (including the
// clamp of negatives to 0) delete the line.
type SetQuantity struct {
	Key      string
	Quantity int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddItem) isCartAction()     {}
func (RemoveItem) isCartAction()  {}
func (SetQuantity) isCartAction() {}
func (ClearCart) isCartAction()   {}

// CartStore holds the current snapshot behind a single Dispatch entry
// point. Reducers are pure: they take a state and an action and return
// a new state without touching the old one.
type CartStore struct {
	mu    sync.Mutex
	state CartState
}

// NewCartStore creates an empty cart.
func NewCartStore() *CartStore {
	return &CartStore{state: CartState{Items: []CartItem{}}}
}

// Dispatch applies an action and returns the resulting snapshot.
func (s *CartStore) Dispatch(action CartAction) CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduceCart(s.state, action)
	return s.state
}

// State returns the current snapshot.
func (s *CartStore) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func reduceCart(state CartState, action CartAction) CartState {
	switch a := action.(type) {
	case AddItem:
		return reduceAdd(state, a)
	case RemoveItem:
		return reduceRemove(state, a.Key)
	case SetQuantity:
		return reduceSetQuantity(state, a)
	case ClearCart:
		return CartState{Items: []CartItem{}}
	default:
		return state
	}
}

func reduceAdd(state CartState, a AddItem) CartState {
	item := a.Item
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	key := item.Key()
	items := make([]CartItem, 0, len(state.Items)+1)
	merged := false
	for _, line := range state.Items {
		if line.Key() == key {
			line.Quantity += item.Quantity
			merged = true
		}
		items = append(items, line)
	}
	if !merged {
		items = append(items, item)
	}
	return withTotal(items)
}

func reduceRemove(state CartState, key string) CartState {
	items := make([]CartItem, 0, len(state.Items))
	for _, line := range state.Items {
		if line.Key() != key {
			items = append(items, line)
		}
	}
	return withTotal(items)
}

func reduceSetQuantity(state CartState, a SetQuantity) CartState {
	qty := a.Quantity
	if qty < 0 {
		qty = 0
	}
	if qty == 0 {
		return reduceRemove(state, a.Key)
	}

	items := make([]CartItem, 0, len(state.Items))
	for _, line := range state.Items {
		if line.Key() == a.Key {
			line.Quantity = qty
		}
		items = append(items, line)
	}
	return withTotal(items)
}

func withTotal(items []CartItem) CartState {
	total := collection.Sum(items, func(line CartItem) float64 {
		return line.Price * float64(line.Quantity)
	})
	return CartState{Items: items, Total: total}
}
