package storefront_test

import (
	"fmt"
	"testing"

	"github.com/fashionhub/storefront/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textElement(content string) storefront.DesignElement {
	return storefront.DesignElement{
		Kind:    storefront.ElementText,
		Content: content,
		Color:   "black",
		Font:    "Inter",
	}
}

func elementContents(state storefront.DesignState) []string {
	out := make([]string, 0, len(state.Elements))
	for _, e := range state.Elements {
		out = append(out, e.Content)
	}
	return out
}

func TestUndoRestoresNStepsBack(t *testing.T) {
	store := storefront.NewCustomizationStore()

	const edits = 5
	for i := 0; i < edits; i++ {
		store.AddElement(textElement(fmt.Sprintf("layer-%d", i)))
	}

	for n := 1; n <= edits; n++ {
		require.True(t, store.Undo(), "undo %d", n)
		assert.Len(t, store.State().Elements, edits-n)
	}

	// Past is exhausted; further undo is a no-op.
	assert.False(t, store.Undo())
	assert.Empty(t, store.State().Elements)
}

func TestRedoRestoresUndoneState(t *testing.T) {
	store := storefront.NewCustomizationStore()
	store.AddElement(textElement("first"))
	store.AddElement(textElement("second"))

	require.True(t, store.Undo())
	assert.Equal(t, []string{"first"}, elementContents(store.State()))

	require.True(t, store.Redo())
	assert.Equal(t, []string{"first", "second"}, elementContents(store.State()))
}

func TestRedoNoOpWhenFutureEmpty(t *testing.T) {
	store := storefront.NewCustomizationStore()
	store.AddElement(textElement("only"))

	assert.False(t, store.Redo())
	assert.Equal(t, []string{"only"}, elementContents(store.State()))
}

func TestNewEditDiscardsRedoBranch(t *testing.T) {
	store := storefront.NewCustomizationStore()
	store.AddElement(textElement("a"))
	store.AddElement(textElement("b"))

	require.True(t, store.Undo())
	require.True(t, store.CanRedo())

	store.AddElement(textElement("c"))
	assert.False(t, store.CanRedo())
	assert.False(t, store.Redo())
	assert.Equal(t, []string{"a", "c"}, elementContents(store.State()))
}

func TestUpdateElementPushesHistory(t *testing.T) {
	store := storefront.NewCustomizationStore()
	id := store.AddElement(textElement("hello"))

	content := "goodbye"
	require.True(t, store.UpdateElement(id, storefront.ElementPatch{Content: &content}))
	assert.Equal(t, []string{"goodbye"}, elementContents(store.State()))

	require.True(t, store.Undo())
	assert.Equal(t, []string{"hello"}, elementContents(store.State()))
}

func TestUpdateMissingElementConsumesNoHistory(t *testing.T) {
	store := storefront.NewCustomizationStore()
	store.AddElement(textElement("keep"))

	content := "x"
	assert.False(t, store.UpdateElement("no-such-id", storefront.ElementPatch{Content: &content}))

	// One undo step from the add, not two.
	require.True(t, store.Undo())
	assert.False(t, store.CanUndo())
}

func TestRemoveAndClearAreUndoable(t *testing.T) {
	store := storefront.NewCustomizationStore()
	id := store.AddElement(textElement("a"))
	store.AddElement(textElement("b"))

	require.True(t, store.RemoveElement(id))
	assert.Equal(t, []string{"b"}, elementContents(store.State()))
	require.True(t, store.Undo())
	assert.Equal(t, []string{"a", "b"}, elementContents(store.State()))

	store.Clear()
	assert.Empty(t, store.State().Elements)
	require.True(t, store.Undo())
	assert.Equal(t, []string{"a", "b"}, elementContents(store.State()))
}

func TestToggleViewDoesNotTouchHistory(t *testing.T) {
	store := storefront.NewCustomizationStore()
	store.AddElement(textElement("a"))

	assert.True(t, store.ToggleView())
	assert.False(t, store.ToggleView())

	// Only the add is undoable.
	require.True(t, store.Undo())
	assert.False(t, store.CanUndo())
}

func TestHistoryBoundEvictsOldestEntry(t *testing.T) {
	store := storefront.NewCustomizationStore()

	const edits = 130 // past the 100-entry bound
	for i := 0; i < edits; i++ {
		store.AddElement(textElement(fmt.Sprintf("layer-%d", i)))
	}

	undos := 0
	for store.Undo() {
		undos++
	}
	assert.Equal(t, 100, undos)

	// The oldest recoverable snapshot still holds the evicted prefix.
	assert.Len(t, store.State().Elements, edits-100)
}
