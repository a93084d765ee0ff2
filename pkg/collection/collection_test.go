package collection_test

import (
	"testing"

	"github.com/fashionhub/storefront/pkg/collection"

	"github.com/stretchr/testify/assert"
)

type lineItem struct {
	SKU   string
	Cat   string
	Price float64
	Qty   int
}

var items = []lineItem{
	{"tee-1", "t-shirts", 19.99, 2},
	{"hoodie-1", "hoodies", 44.99, 1},
	{"tee-2", "t-shirts", 24.99, 3},
}

func TestMapFilter(t *testing.T) {
	skus := collection.Map(items, func(i lineItem) string { return i.SKU })
	assert.Equal(t, []string{"tee-1", "hoodie-1", "tee-2"}, skus)

	tees := collection.Filter(items, func(i lineItem) bool { return i.Cat == "t-shirts" })
	assert.Len(t, tees, 2)

	none := collection.Filter(items, func(i lineItem) bool { return i.Price > 100 })
	assert.Empty(t, none)
}

func TestFirstAndPredicates(t *testing.T) {
	hoodie, ok := collection.First(items, func(i lineItem) bool { return i.Cat == "hoodies" })
	assert.True(t, ok)
	assert.Equal(t, "hoodie-1", hoodie.SKU)

	_, ok = collection.First(items, func(i lineItem) bool { return i.Price < 0 })
	assert.False(t, ok)

	assert.True(t, collection.Contains([]string{"a", "b"}, "b"))
	assert.False(t, collection.Contains([]string{"a", "b"}, "c"))
	assert.True(t, collection.Any(items, func(i lineItem) bool { return i.Qty == 3 }))
}

func TestGroupBy(t *testing.T) {
	byCat := collection.GroupBy(items, func(i lineItem) string { return i.Cat })
	assert.Len(t, byCat["t-shirts"], 2)
	assert.Len(t, byCat["hoodies"], 1)
}

func TestSortByDoesNotMutate(t *testing.T) {
	sorted := collection.SortBy(items, func(a, b lineItem) bool { return a.Price < b.Price })
	assert.Equal(t, "tee-1", sorted[0].SKU)
	assert.Equal(t, "hoodie-1", sorted[2].SKU)
	assert.Equal(t, "tee-1", items[0].SKU)
}

func TestReduceAndSum(t *testing.T) {
	units := collection.Reduce(items, 0, func(acc int, i lineItem) int { return acc + i.Qty })
	assert.Equal(t, 6, units)

	total := collection.Sum(items, func(i lineItem) float64 { return i.Price * float64(i.Qty) })
	assert.InDelta(t, 19.99*2+44.99+24.99*3, total, 0.001)
}
