package storefront

import (
	"sync"

	"github.com/google/uuid"
)

// maxHistoryDepth bounds the undo stack. When a new snapshot would exceed
// it, the oldest entry is evicted.
const maxHistoryDepth = 100

// ElementKind distinguishes text and image design layers.
type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementImage ElementKind = "image"
)

// DesignElement is one layer on the customization canvas.
type DesignElement struct {
	ID       string
	Kind     ElementKind
	Content  string
	X, Y     float64
	Scale    float64
	Rotation float64
	Color    string
	Font     string
}

// ElementPatch is a partial element update. Nil fields are left unchanged.
type ElementPatch struct {
	Content  *string
	X, Y     *float64
	Scale    *float64
	Rotation *float64
	Color    *string
	Font     *string
}

// DesignState is a snapshot of the canvas.
type DesignState struct {
	Elements []DesignElement
	View3D   bool
}

// CustomizationStore holds the design elements for one customization
// session plus a linear undo/redo history of full snapshots. Every edit
// pushes the pre-edit snapshot onto the past stack and discards the redo
// branch; undo and redo move between the stacks without editing.
type CustomizationStore struct {
	mu     sync.Mutex
	state  DesignState
	past   []DesignState
	future []DesignState
}

// NewCustomizationStore creates an empty canvas.
func NewCustomizationStore() *CustomizationStore {
	return &CustomizationStore{}
}

// State returns the current snapshot.
func (s *CustomizationStore) State() DesignState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDesign(s.state)
}

// CanUndo reports whether an undo step is available.
func (s *CustomizationStore) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past) > 0
}

// CanRedo reports whether a redo step is available.
func (s *CustomizationStore) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.future) > 0
}

// AddElement adds a layer and returns its generated id.
func (s *CustomizationStore) AddElement(e DesignElement) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Scale == 0 {
		e.Scale = 1
	}

	s.pushHistory()
	s.state.Elements = append(cloneElements(s.state.Elements), e)
	return e.ID
}

// UpdateElement applies a patch to the element with the given id. A
// missing id is a no-op and does not consume history.
func (s *CustomizationStore) UpdateElement(id string, patch ElementPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.state.Elements {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.pushHistory()
	elements := cloneElements(s.state.Elements)
	applyPatch(&elements[idx], patch)
	s.state.Elements = elements
	return true
}

// RemoveElement deletes the element with the given id. A missing id is a
// no-op and does not consume history.
func (s *CustomizationStore) RemoveElement(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	elements := make([]DesignElement, 0, len(s.state.Elements))
	for _, e := range s.state.Elements {
		if e.ID == id {
			found = true
			continue
		}
		elements = append(elements, e)
	}
	if !found {
		return false
	}

	s.pushHistory()
	s.state.Elements = elements
	return true
}

// Clear removes every element.
func (s *CustomizationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushHistory()
	s.state.Elements = nil
}

// ToggleView flips the 2D/3D flag. The view flag is presentation state;
// it does not participate in undo history.
func (s *CustomizationStore) ToggleView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View3D = !s.state.View3D
	return s.state.View3D
}

// Undo restores the previous snapshot. No-op when the past is empty.
func (s *CustomizationStore) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.past) == 0 {
		return false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, snapshotOf(s.state))
	s.restore(prev)
	return true
}

// Redo restores the snapshot undone last. No-op when the future is empty.
func (s *CustomizationStore) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.future) == 0 {
		return false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, snapshotOf(s.state))
	s.restore(next)
	return true
}

// pushHistory records the pre-mutation snapshot and discards the redo
// branch. Caller holds the lock.
func (s *CustomizationStore) pushHistory() {
	s.past = append(s.past, snapshotOf(s.state))
	if len(s.past) > maxHistoryDepth {
		s.past = s.past[1:]
	}
	s.future = nil
}

// restore swaps in a snapshot's elements, leaving the view flag alone.
func (s *CustomizationStore) restore(snap DesignState) {
	s.state.Elements = snap.Elements
}

// snapshotOf captures only the element list; the view flag is excluded
// from history.
func snapshotOf(state DesignState) DesignState {
	return DesignState{Elements: cloneElements(state.Elements)}
}

func cloneDesign(state DesignState) DesignState {
	return DesignState{Elements: cloneElements(state.Elements), View3D: state.View3D}
}

func cloneElements(elements []DesignElement) []DesignElement {
	if elements == nil {
		return nil
	}
	return append([]DesignElement(nil), elements...)
}

func applyPatch(e *DesignElement, p ElementPatch) {
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Scale != nil {
		e.Scale = *p.Scale
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Font != nil {
		e.Font = *p.Font
	}
}
