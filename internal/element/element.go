// Package element is the retained element tree the Layout Pass builds from
// decoded bytecode and the Paint Pass later walks again against resolved
// geometry (spec.md §4.E/§4.F). It is the teacher's Element (element.go)
// stripped to the fields spec.md's attribute set actually drives, with tree
// structure kept exactly as the teacher models it (parent/children slices,
// not a generic tree package).
package element

import (
	"github.com/waylayer/uibackend/internal/solver"
	"github.com/waylayer/uibackend/internal/vm"
)

// Element is one node of the retained tree. Its layout-relevant fields
// satisfy solver.Layoutable directly, so Calculate can run against the
// tree with no adapter step.
type Element struct {
	ID       uint64
	Parent   *Element
	Children []*Element

	Style solver.Style

	// Pen is the paint state the Layout Pass saw at this element's Enter.
	// The Paint Pass does not read it: it replays the program from the
	// root with its own Pen.
	Pen vm.Pen

	layout solver.Layout
}

// New creates a childless element with the attribute defaults Enter
// implies before any Width/Height/Padding/... tag is decoded for it.
func New(id uint64, pen vm.Pen) *Element {
	return &Element{ID: id, Style: solver.DefaultStyle(), Pen: pen}
}

func (e *Element) AddChild(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
}

// LayoutStyle, LayoutChildren, SetLayout, GetLayout, and IntrinsicSize
// implement solver.Layoutable.
func (e *Element) LayoutStyle() solver.Style { return e.Style }

func (e *Element) LayoutChildren() []solver.Layoutable {
	out := make([]solver.Layoutable, len(e.Children))
	for i, c := range e.Children {
		out[i] = c
	}
	return out
}

func (e *Element) SetLayout(l solver.Layout) { e.layout = l }
func (e *Element) GetLayout() solver.Layout   { return e.layout }

// IntrinsicSize is always (0, 0): text and drawing tags have no layout
// side effect (spec.md §4.E), so a childless element never measures
// larger than its own explicit Width/Height.
func (e *Element) IntrinsicSize() (float32, float32) { return 0, 0 }

// Rect is a convenience accessor onto the resolved border box, valid only
// after a layoutpass.Run followed by solver.Calculate.
func (e *Element) Rect() solver.Rect { return e.layout.Rect }

// ContentRect is the resolved content box (border box inset by padding).
func (e *Element) ContentRect() solver.Rect { return e.layout.ContentRect }

// Find walks the subtree rooted at e looking for the element with the
// given ID, in Enter order. Used by the input dispatcher to resolve a
// hit-test result back to an Element for cursor/event bookkeeping.
func (e *Element) Find(id uint64) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits e and every descendant in Enter (pre-)order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}
