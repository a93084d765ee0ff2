package storefront_test

import (
	"testing"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tee(qty int) storefront.CartItem {
	return storefront.CartItem{
		ProductID: "p1",
		Name:      "Classic Crew Tee",
		Size:      models.SizeM,
		Price:     19.99,
		Quantity:  qty,
	}
}

// checkTotal asserts the cart invariant: total equals the sum of
// price times quantity over all lines.
func checkTotal(t *testing.T, state storefront.CartState) {
	t.Helper()
	var want float64
	for _, line := range state.Items {
		want += line.Price * float64(line.Quantity)
	}
	assert.InDelta(t, want, state.Total, 1e-9)
}

func TestCartAddMergesMatchingKey(t *testing.T) {
	cart := storefront.NewCartStore()

	state := cart.Dispatch(storefront.AddItem{Item: tee(1)})
	checkTotal(t, state)
	require.Len(t, state.Items, 1)

	state = cart.Dispatch(storefront.AddItem{Item: tee(2)})
	checkTotal(t, state)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
}

func TestCartDifferentSizeIsSeparateLine(t *testing.T) {
	cart := storefront.NewCartStore()

	cart.Dispatch(storefront.AddItem{Item: tee(1)})
	large := tee(1)
	large.Size = models.SizeL
	state := cart.Dispatch(storefront.AddItem{Item: large})

	checkTotal(t, state)
	assert.Len(t, state.Items, 2)
}

func TestCartDifferentCustomizationIsSeparateLine(t *testing.T) {
	cart := storefront.NewCartStore()

	plain := tee(1)
	custom := tee(1)
	custom.Customization = &models.Customization{
		Color:         "black",
		PrintLocation: models.PrintFront,
		CustomText:    "hello",
	}

	cart.Dispatch(storefront.AddItem{Item: plain})
	state := cart.Dispatch(storefront.AddItem{Item: custom})

	checkTotal(t, state)
	assert.Len(t, state.Items, 2)
}

func TestCartSetQuantity(t *testing.T) {
	cart := storefront.NewCartStore()
	item := tee(2)
	cart.Dispatch(storefront.AddItem{Item: item})

	state := cart.Dispatch(storefront.SetQuantity{Key: item.Key(), Quantity: 5})
	checkTotal(t, state)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
}

func TestCartSetQuantityZeroDeletesLine(t *testing.T) {
	cart := storefront.NewCartStore()
	item := tee(2)
	cart.Dispatch(storefront.AddItem{Item: item})

	state := cart.Dispatch(storefront.SetQuantity{Key: item.Key(), Quantity: 0})
	checkTotal(t, state)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
}

func TestCartNegativeQuantityClampsToZeroAndDeletes(t *testing.T) {
	cart := storefront.NewCartStore()
	item := tee(1)
	cart.Dispatch(storefront.AddItem{Item: item})

	state := cart.Dispatch(storefront.SetQuantity{Key: item.Key(), Quantity: -3})
	checkTotal(t, state)
	assert.Empty(t, state.Items)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := storefront.NewCartStore()
	a := tee(1)
	b := storefront.CartItem{ProductID: "p2", Size: models.SizeS, Price: 44.99, Quantity: 2}

	cart.Dispatch(storefront.AddItem{Item: a})
	cart.Dispatch(storefront.AddItem{Item: b})

	state := cart.Dispatch(storefront.RemoveItem{Key: a.Key()})
	checkTotal(t, state)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].ProductID)

	state = cart.Dispatch(storefront.ClearCart{})
	checkTotal(t, state)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
}

func TestCartTotalInvariantAcrossMutationSequence(t *testing.T) {
	cart := storefront.NewCartStore()
	a := tee(1)
	b := storefront.CartItem{ProductID: "p2", Size: models.SizeL, Price: 54.99, Quantity: 1}

	actions := []storefront.CartAction{
		storefront.AddItem{Item: a},
		storefront.AddItem{Item: b},
		storefront.AddItem{Item: a},
		storefront.SetQuantity{Key: b.Key(), Quantity: 4},
		storefront.RemoveItem{Key: a.Key()},
		storefront.SetQuantity{Key: b.Key(), Quantity: 0},
		storefront.ClearCart{},
	}
	for _, action := range actions {
		checkTotal(t, cart.Dispatch(action))
	}
}

func TestCartStateSnapshotsAreIndependent(t *testing.T) {
	cart := storefront.NewCartStore()
	item := tee(1)
	before := cart.Dispatch(storefront.AddItem{Item: item})

	cart.Dispatch(storefront.SetQuantity{Key: item.Key(), Quantity: 9})

	// The earlier snapshot must not observe the later mutation.
	assert.Equal(t, 1, before.Items[0].Quantity)
}
