// Package layoutpass implements the Layout Pass (spec.md §4.E): a vm.Hooks
// that builds an element.Element tree from the attribute tags a program
// decodes, then hands the tree to internal/solver to resolve every
// element's rect. It ignores every drawing, text, color, cursor, and event
// tag — those have no layout side effect.
package layoutpass

import (
	"github.com/waylayer/uibackend/internal/element"
	"github.com/waylayer/uibackend/internal/solver"
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// InputState answers the gating questions Hover/MousePressed/Clicked
// dispatch against. The Layout Pass is defined to read the *previous*
// frame's state (spec.md §4.E) — the caller is responsible for handing in
// last frame's snapshot, not this frame's freshly hit-tested one.
type InputState interface {
	IsHover(elementID uint64) bool
	IsPressed(elementID uint64) bool
	IsClicked(elementID uint64) bool
}

// emptyInputState treats every element as ungated — used when the caller
// has no prior frame yet (e.g. the very first frame of a session).
type emptyInputState struct{}

func (emptyInputState) IsHover(uint64) bool    { return false }
func (emptyInputState) IsPressed(uint64) bool  { return false }
func (emptyInputState) IsClicked(uint64) bool  { return false }

// Result is everything the Layout Pass produces for one frame.
type Result struct {
	Root             *element.Element
	ByID             map[uint64]*element.Element
	ResolvedFontSize float32
}

// hooks is the vm.Hooks implementation that builds the tree. It is
// unexported: callers only ever see Run and its Result.
type hooks struct {
	input   InputState
	root    *element.Element
	byID    map[uint64]*element.Element
	stack   []*element.Element
}

// Run executes program starting at startPC against page, building the
// element tree layoutpass.Run resolves geometry for before returning.
// viewportWidth/Height is the available space for the root element; input
// is the previous frame's hit-test state (pass nil on the first frame of a
// session).
func Run(ctx *vm.Context, input InputState, viewportWidth, viewportHeight float32) (*Result, error) {
	if input == nil {
		input = emptyInputState{}
	}
	h := &hooks{input: input, byID: map[uint64]*element.Element{}}

	if err := vm.Run(ctx, h); err != nil {
		return nil, err
	}
	if h.root == nil {
		return &Result{ByID: h.byID, ResolvedFontSize: ctx.BaseFontSize}, nil
	}

	solver.Calculate(h.root, viewportWidth, viewportHeight, ctx.BaseFontSize)
	return &Result{Root: h.root, ByID: h.byID, ResolvedFontSize: ctx.BaseFontSize}, nil
}

func (h *hooks) current() *element.Element {
	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[len(h.stack)-1]
}

func (h *hooks) OnEnter(ctx *vm.Context, id uint64) {
	e := element.New(id, ctx.Pen)
	h.byID[id] = e
	if parent := h.current(); parent != nil {
		parent.AddChild(e)
	} else {
		h.root = e
	}
	h.stack = append(h.stack, e)
}

func (h *hooks) OnLeave(ctx *vm.Context, id uint64) {
	if len(h.stack) > 0 {
		h.stack = h.stack[:len(h.stack)-1]
	}
}

func (h *hooks) OnWidth(ctx *vm.Context, l word.Length) {
	if e := h.current(); e != nil {
		e.Style.Width = l
	}
}

func (h *hooks) OnHeight(ctx *vm.Context, l word.Length) {
	if e := h.current(); e != nil {
		e.Style.Height = l
	}
}

func (h *hooks) OnPadding(ctx *vm.Context, edges vm.Edges) {
	if e := h.current(); e != nil {
		e.Style.Padding = edges
	}
}

func (h *hooks) OnMargin(ctx *vm.Context, edges vm.Edges) {
	if e := h.current(); e != nil {
		e.Style.Margin = edges
	}
}

func (h *hooks) OnDisplay(ctx *vm.Context, d vm.Display) {
	if e := h.current(); e != nil {
		e.Style.Display = d
	}
}

func (h *hooks) OnGap(ctx *vm.Context, horizontal, vertical word.Length) {
	if e := h.current(); e != nil {
		e.Style.GapX = horizontal
		e.Style.GapY = vertical
	}
}

// The remaining tags are drawing/text/color/cursor/event — no layout
// effect, left as no-ops (spec.md §4.E).
func (h *hooks) OnColor(ctx *vm.Context, c word.Color)                              {}
func (h *hooks) OnRect(ctx *vm.Context, x, y, w, ht word.Length)                    {}
func (h *hooks) OnBeginPath(ctx *vm.Context)                                        {}
func (h *hooks) OnEndPath(ctx *vm.Context)                                          {}
func (h *hooks) OnMoveTo(ctx *vm.Context, x, y word.Length)                         {}
func (h *hooks) OnLineTo(ctx *vm.Context, x, y word.Length)                         {}
func (h *hooks) OnQuadTo(ctx *vm.Context, cx, cy, x, y word.Length)                  {}
func (h *hooks) OnCubicTo(ctx *vm.Context, c1x, c1y, c2x, c2y, x, y word.Length)     {}
func (h *hooks) OnArcTo(ctx *vm.Context, cx, cy, r, sa, ea word.Length)              {}
func (h *hooks) OnClosePath(ctx *vm.Context)                                        {}
func (h *hooks) OnFontSize(ctx *vm.Context, size word.Length)                       {}
func (h *hooks) OnFontAlignment(ctx *vm.Context, align vm.TextAlign)                {}
func (h *hooks) OnFontFamily(ctx *vm.Context, family string)                        {}
func (h *hooks) OnText(ctx *vm.Context, x, y word.Length, text string)              {}
func (h *hooks) OnCursorDefault(ctx *vm.Context)                                    {}
func (h *hooks) OnCursorPointer(ctx *vm.Context)                                    {}
func (h *hooks) OnEvent(ctx *vm.Context, id uint64)                                 {}

func (h *hooks) IsHover(id uint64) bool   { return h.input.IsHover(id) }
func (h *hooks) IsPressed(id uint64) bool { return h.input.IsPressed(id) }
func (h *hooks) IsClicked(id uint64) bool { return h.input.IsClicked(id) }
