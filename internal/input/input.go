// Package input implements Component G (spec.md §4.G): hit-testing the
// resolved element tree against the pointer, and tracking hover/pressed/
// clicked state across frames so the Layout Pass can read the previous
// frame's gating state while the Paint Pass reads this frame's.
package input

import "github.com/waylayer/uibackend/internal/element"

// HitTest walks root's subtree in reverse child order — later siblings are
// drawn on top, so they are tested first — and returns the ID of the
// deepest element whose resolved rect contains (x, y), grounded in the
// teacher's own top-down/reverse-order ElementAt walk.
func HitTest(root *element.Element, x, y float32) (elementID uint64, ok bool) {
	if root == nil {
		return 0, false
	}
	return hitTest(root, x, y)
}

func hitTest(e *element.Element, x, y float32) (uint64, bool) {
	if !e.Rect().Contains(x, y) {
		return 0, false
	}
	for i := len(e.Children) - 1; i >= 0; i-- {
		if id, ok := hitTest(e.Children[i], x, y); ok {
			return id, true
		}
	}
	return e.ID, true
}

type state struct {
	hover, pressed, clicked map[uint64]bool
}

func emptyState() state {
	return state{hover: map[uint64]bool{}, pressed: map[uint64]bool{}, clicked: map[uint64]bool{}}
}

// View answers the three gating questions Hover/MousePressed/Clicked
// dispatch against — it satisfies both layoutpass.InputState and
// paintpass.InputState.
type View struct{ s state }

func (v View) IsHover(id uint64) bool   { return v.s.hover[id] }
func (v View) IsPressed(id uint64) bool { return v.s.pressed[id] }
func (v View) IsClicked(id uint64) bool { return v.s.clicked[id] }

// Dispatcher tracks pointer state across frames. One Dispatcher exists per
// session (spec.md §4.G); Update is called once per frame, after the
// Layout Pass has produced a resolved tree, and before the Paint Pass runs
// against it.
//
// There is a single state buffer, not a prev/cur pair: Previous must answer
// with the state as of the end of the last completed frame, which is
// exactly what cur already holds until this frame's Update overwrites it.
// A second buffer advanced once per frame would make Previous lag Current
// by two frames instead of one (spec.md §4.E: the Layout Pass sees *last*
// frame's input, not the frame before that).
type Dispatcher struct {
	cur state

	pressedElement    uint64
	pressedElementSet bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{cur: emptyState()}
}

// Previous returns the state as of the end of the last completed frame —
// what the Layout Pass's Hover/MousePressed/Clicked gates must read
// (spec.md §4.E: the Layout Pass sees last frame's input). Callers must
// call this before Update for the current frame.
func (d *Dispatcher) Previous() View { return View{d.cur} }

// Current returns the state Update just computed — what the Paint
// Pass's gates read (spec.md §4.F). Callers must call this after Update.
func (d *Dispatcher) Current() View { return View{d.cur} }

// Update hit-tests (x, y) against root and advances the frame state.
// Clicked fires on the frame the button is released, provided the press
// began on the same element and the pointer is still over it — spec.md
// does not spell out the press/release edge Clicked fires on, so this is
// the conventional "click" semantics (documented in DESIGN.md).
func (d *Dispatcher) Update(root *element.Element, x, y float32, buttonDown bool) {
	prev := d.cur

	next := emptyState()
	hitID, hit := HitTest(root, x, y)
	if hit {
		next.hover[hitID] = true
		if buttonDown {
			next.pressed[hitID] = true
		}
		if !buttonDown && d.pressedElementSet && d.pressedElement == hitID && prev.pressed[hitID] {
			next.clicked[hitID] = true
		}
	}

	if hit && buttonDown {
		d.pressedElement = hitID
		d.pressedElementSet = true
	} else if !buttonDown {
		d.pressedElementSet = false
	}

	d.cur = next
}
