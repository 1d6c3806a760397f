// Package paintpass implements the Paint Pass (spec.md §4.F): a vm.Hooks
// that replays a program's drawing, text, color, and cursor tags against
// geometry the Layout Pass and internal/solver already resolved, emitting
// calls into an internal/drawsink.Canvas and TextShaper. Layout attribute
// tags (Width, Height, Padding, ...) are decoded — the interpreter core
// shares one decode loop across both passes — but produce no further
// effect here; the tree is already built.
package paintpass

import (
	"github.com/waylayer/uibackend/internal/drawsink"
	"github.com/waylayer/uibackend/internal/element"
	"github.com/waylayer/uibackend/internal/solver"
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// InputState answers Hover/MousePressed/Clicked from this frame's
// freshly computed hit-test result (spec.md §4.F — unlike the Layout
// Pass, which reads the previous frame's state).
type InputState interface {
	IsHover(elementID uint64) bool
	IsPressed(elementID uint64) bool
	IsClicked(elementID uint64) bool
}

// Run replays ctx's program against tree (the resolved output of a prior
// layoutpass.Run over the same program), drawing into canvas/text and
// collecting fired event IDs in declaration order.
func Run(ctx *vm.Context, tree *element.Element, byID map[uint64]*element.Element, input InputState, canvas drawsink.Canvas, text drawsink.TextShaper) ([]uint64, error) {
	h := &hooks{byID: byID, input: input, canvas: canvas, text: text}
	if err := vm.Run(ctx, h); err != nil {
		return h.events, err
	}
	return h.events, nil
}

type hooks struct {
	byID   map[uint64]*element.Element
	input  InputState
	canvas drawsink.Canvas
	text   drawsink.TextShaper

	stack  []*element.Element
	events []uint64
}

func (h *hooks) current() *element.Element {
	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[len(h.stack)-1]
}

// contentRect returns the current element's resolved content box, or a
// zero-sized rect at the origin if there is none (e.g. the tree from the
// Layout Pass came back empty because the program contained no Enter).
func (h *hooks) contentRect() solver.Rect {
	if e := h.current(); e != nil {
		return e.ContentRect()
	}
	return solver.Rect{}
}

// resolve turns a drawing-call Length into an absolute pixel coordinate:
// Frac resolves against the current element's content box, Rems against
// the base font size, and Pxs is taken as is; then the box's own origin is
// added so draw calls land in
// window coordinates, matching spec.md §8 Scenario 1 ("rectangle ... at
// window origin").
func (h *hooks) resolveX(l word.Length, baseFontSize float32) float32 {
	r := h.contentRect()
	return r.X + l.Resolve(r.Width, baseFontSize, 0)
}

func (h *hooks) resolveY(l word.Length, baseFontSize float32) float32 {
	r := h.contentRect()
	return r.Y + l.Resolve(r.Height, baseFontSize, 0)
}

func (h *hooks) resolveW(l word.Length, baseFontSize float32) float32 {
	return l.Resolve(h.contentRect().Width, baseFontSize, 0)
}

func (h *hooks) resolveH(l word.Length, baseFontSize float32) float32 {
	return l.Resolve(h.contentRect().Height, baseFontSize, 0)
}

func (h *hooks) OnEnter(ctx *vm.Context, id uint64) {
	e := h.byID[id]
	h.stack = append(h.stack, e)
}

func (h *hooks) OnLeave(ctx *vm.Context, id uint64) {
	if len(h.stack) > 0 {
		h.stack = h.stack[:len(h.stack)-1]
	}
}

// Layout attributes: no further effect during paint (the tree is already
// resolved).
func (h *hooks) OnWidth(ctx *vm.Context, l word.Length)           {}
func (h *hooks) OnHeight(ctx *vm.Context, l word.Length)          {}
func (h *hooks) OnPadding(ctx *vm.Context, e vm.Edges)            {}
func (h *hooks) OnMargin(ctx *vm.Context, e vm.Edges)             {}
func (h *hooks) OnDisplay(ctx *vm.Context, d vm.Display)          {}
func (h *hooks) OnGap(ctx *vm.Context, hz, vt word.Length)        {}

func (h *hooks) OnColor(ctx *vm.Context, c word.Color) {}

func (h *hooks) OnRect(ctx *vm.Context, x, y, w, ht word.Length) {
	if h.canvas == nil {
		return
	}
	base := ctx.BaseFontSize
	h.canvas.Rect(drawsink.RectPrimitive{
		X:      h.resolveX(x, base),
		Y:      h.resolveY(y, base),
		Width:  h.resolveW(w, base),
		Height: h.resolveH(ht, base),
		Color:  ctx.Pen.Color,
	})
}

func (h *hooks) OnBeginPath(ctx *vm.Context) {
	if h.canvas != nil {
		h.canvas.BeginPath()
	}
}

func (h *hooks) OnEndPath(ctx *vm.Context) {
	if h.canvas != nil {
		h.canvas.EndPath()
	}
}

func (h *hooks) OnMoveTo(ctx *vm.Context, x, y word.Length) {
	if h.canvas != nil {
		h.canvas.MoveTo(h.resolveX(x, ctx.BaseFontSize), h.resolveY(y, ctx.BaseFontSize))
	}
}

func (h *hooks) OnLineTo(ctx *vm.Context, x, y word.Length) {
	if h.canvas != nil {
		h.canvas.LineTo(h.resolveX(x, ctx.BaseFontSize), h.resolveY(y, ctx.BaseFontSize))
	}
}

func (h *hooks) OnQuadTo(ctx *vm.Context, cx, cy, x, y word.Length) {
	if h.canvas != nil {
		base := ctx.BaseFontSize
		h.canvas.QuadTo(h.resolveX(cx, base), h.resolveY(cy, base), h.resolveX(x, base), h.resolveY(y, base))
	}
}

func (h *hooks) OnCubicTo(ctx *vm.Context, c1x, c1y, c2x, c2y, x, y word.Length) {
	if h.canvas != nil {
		base := ctx.BaseFontSize
		h.canvas.CubicTo(
			h.resolveX(c1x, base), h.resolveY(c1y, base),
			h.resolveX(c2x, base), h.resolveY(c2y, base),
			h.resolveX(x, base), h.resolveY(y, base),
		)
	}
}

func (h *hooks) OnArcTo(ctx *vm.Context, cx, cy, radius, startAngle, endAngle word.Length) {
	if h.canvas != nil {
		base := ctx.BaseFontSize
		h.canvas.ArcTo(
			h.resolveX(cx, base), h.resolveY(cy, base),
			h.resolveW(radius, base), startAngle.Resolve(0, base, 0), endAngle.Resolve(0, base, 0),
		)
	}
}

func (h *hooks) OnClosePath(ctx *vm.Context) {
	if h.canvas != nil {
		h.canvas.ClosePath()
	}
}

func (h *hooks) OnFontSize(ctx *vm.Context, size word.Length)      {}
func (h *hooks) OnFontAlignment(ctx *vm.Context, align vm.TextAlign) {}
func (h *hooks) OnFontFamily(ctx *vm.Context, family string)       {}

func (h *hooks) OnText(ctx *vm.Context, x, y word.Length, textVal string) {
	if h.text == nil {
		return
	}
	base := ctx.BaseFontSize
	h.text.Draw(textVal, h.resolveX(x, base), h.resolveY(y, base), ctx.Pen.FontSize, ctx.Pen.FontAlign, ctx.Pen.FontFamily)
}

// currentContainsPointer reports whether the element currently open on the
// stack is the one the pointer is hit-testing against — spec.md §4.F:
// "CursorDefault / CursorPointer set the window cursor if the current
// element contains the pointer."
func (h *hooks) currentContainsPointer() bool {
	e := h.current()
	return e != nil && h.IsHover(e.ID)
}

func (h *hooks) OnCursorDefault(ctx *vm.Context) {
	if h.canvas != nil && h.currentContainsPointer() {
		h.canvas.SetCursor(vm.CursorDefault)
	}
}

func (h *hooks) OnCursorPointer(ctx *vm.Context) {
	if h.canvas != nil && h.currentContainsPointer() {
		h.canvas.SetCursor(vm.CursorPointer)
	}
}

func (h *hooks) OnEvent(ctx *vm.Context, id uint64) {
	h.events = append(h.events, id)
}

func (h *hooks) IsHover(id uint64) bool   { return h.input != nil && h.input.IsHover(id) }
func (h *hooks) IsPressed(id uint64) bool { return h.input != nil && h.input.IsPressed(id) }
func (h *hooks) IsClicked(id uint64) bool { return h.input != nil && h.input.IsClicked(id) }
