// Package storefront implements the client-side runtime: the catalog,
// cart and customization state containers, the session gate, and the
// API client the UI drives.
//
// All stores are synchronous and single-threaded by contract: every
// mutation runs to completion before the next is observed. The mutexes
// only guard against accidental cross-goroutine use; they are not a
// concurrency model.
package storefront

import (
	"strings"
	"sync"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/collection"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

// Filters is the active filter state. Zero values mean "no constraint".
type Filters struct {
	Category models.Category
	MinPrice *float64
	MaxPrice *float64
	Sizes    []models.Size
	Sort     SortKey
}

// FilterPatch is a partial update merged into the current filters.
// Nil fields leave the current value untouched.
type FilterPatch struct {
	Category *models.Category
	MinPrice **float64
	MaxPrice **float64
	Sizes    *[]models.Size
	Sort     *SortKey
}

// CatalogStore holds the product list and a derived filtered view,
// recomputed on every filter change. The filtered view is never cached
// beyond the current filter snapshot.
type CatalogStore struct {
	mu       sync.Mutex
	items    []models.Product
	filters  Filters
	filtered []models.Product
	collator *collate.Collator
}

// NewCatalogStore creates an empty store sorting names under the given
// locale.
func NewCatalogStore(tag language.Tag) *CatalogStore {
	return &CatalogStore{
		collator: collate.New(tag),
	}
}

// SetItems replaces the product list and recomputes the filtered view
// under the active filters.
func (s *CatalogStore) SetItems(items []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.Product(nil), items...)
	s.recompute()
}

// SetFilters merges the patch into the current filter state and
// recomputes the filtered view.
func (s *CatalogStore) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Category != nil {
		s.filters.Category = *patch.Category
	}
	if patch.MinPrice != nil {
		s.filters.MinPrice = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		s.filters.MaxPrice = *patch.MaxPrice
	}
	if patch.Sizes != nil {
		s.filters.Sizes = append([]models.Size(nil), (*patch.Sizes)...)
	}
	if patch.Sort != nil {
		s.filters.Sort = *patch.Sort
	}
	s.recompute()
}

// ClearFilters resets every criterion and restores the unfiltered view.
func (s *CatalogStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{}
	s.recompute()
}

// Filters returns a copy of the active filter state.
func (s *CatalogStore) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Sizes = append([]models.Size(nil), s.filters.Sizes...)
	return f
}

// Items returns the unfiltered product list.
func (s *CatalogStore) Items() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.items...)
}

// FilteredItems returns the current derived view.
func (s *CatalogStore) FilteredItems() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.filtered...)
}

// recompute applies, in order: category equality, inclusive price range,
// size intersection, then the sort. Caller holds the lock.
func (s *CatalogStore) recompute() {
	out := collection.Filter(s.items, func(p models.Product) bool {
		if s.filters.Category != "" && p.Category != s.filters.Category {
			return false
		}
		if s.filters.MinPrice != nil && p.Price < *s.filters.MinPrice {
			return false
		}
		if s.filters.MaxPrice != nil && p.Price > *s.filters.MaxPrice {
			return false
		}
		if len(s.filters.Sizes) > 0 && !sizesIntersect(p.CustomizationOptions.Sizes, s.filters.Sizes) {
			return false
		}
		return true
	})
	s.filtered = s.sortItems(out)
}

// sizesIntersect reports whether the item offers any of the selected sizes.
func sizesIntersect(offered, selected []models.Size) bool {
	return collection.Any(offered, func(o models.Size) bool {
		return collection.Contains(selected, o)
	})
}

func (s *CatalogStore) sortItems(items []models.Product) []models.Product {
	switch s.filters.Sort {
	case SortPriceAsc:
		return collection.SortBy(items, func(a, b models.Product) bool { return a.Price < b.Price })
	case SortPriceDesc:
		return collection.SortBy(items, func(a, b models.Product) bool { return a.Price > b.Price })
	case SortNameAsc:
		return collection.SortBy(items, func(a, b models.Product) bool { return s.compareNames(a.Name, b.Name) < 0 })
	case SortNameDesc:
		return collection.SortBy(items, func(a, b models.Product) bool { return s.compareNames(a.Name, b.Name) > 0 })
	}
	return items
}

// compareNames is locale-aware, falling back to case-insensitive byte
// order if no collator was configured.
func (s *CatalogStore) compareNames(a, b string) int {
	if s.collator != nil {
		return s.collator.CompareString(a, b)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
