package vm

import "github.com/waylayer/uibackend/internal/word"

// Edges holds four per-side lengths — Padding and Margin's payload
// (spec.md §3's "padding (4 lengths), margin (4 lengths)"), ordered the way
// CSS box edges conventionally are: top, right, bottom, left.
type Edges struct {
	Top, Right, Bottom, Left word.Length
}

// Hooks is the "trait-like handler parameterized by pass" spec.md §9
// prescribes: Run shares one decode loop across the Layout and Paint
// passes, and dispatches every tag's side effect through this interface.
// A Layout-pass Hooks implementation builds the element tree and ignores
// drawing calls; a Paint-pass one replays them against resolved geometry
// and ignores layout attributes it has no further use for.
type Hooks interface {
	OnEnter(ctx *Context, elementID uint64)
	OnLeave(ctx *Context, elementID uint64)

	OnWidth(ctx *Context, l word.Length)
	OnHeight(ctx *Context, l word.Length)
	OnPadding(ctx *Context, e Edges)
	OnMargin(ctx *Context, e Edges)
	OnDisplay(ctx *Context, d Display)
	OnGap(ctx *Context, horizontal, vertical word.Length)

	OnColor(ctx *Context, c word.Color)
	OnRect(ctx *Context, x, y, w, h word.Length)
	OnBeginPath(ctx *Context)
	OnEndPath(ctx *Context)
	OnMoveTo(ctx *Context, x, y word.Length)
	OnLineTo(ctx *Context, x, y word.Length)
	OnQuadTo(ctx *Context, cx, cy, x, y word.Length)
	OnCubicTo(ctx *Context, cx1, cy1, cx2, cy2, x, y word.Length)
	OnArcTo(ctx *Context, cx, cy, radius, startAngle, endAngle word.Length)
	OnClosePath(ctx *Context)

	OnFontSize(ctx *Context, size word.Length)
	OnFontAlignment(ctx *Context, align TextAlign)
	OnFontFamily(ctx *Context, family string)
	OnText(ctx *Context, x, y word.Length, text string)

	OnCursorDefault(ctx *Context)
	OnCursorPointer(ctx *Context)

	OnEvent(ctx *Context, id uint64)

	// Gating state, queried for Hover/MousePressed/Clicked. The Layout
	// pass answers from the previous frame's state; the Paint pass from
	// this frame's freshly computed state (spec.md §4.E/§4.F).
	IsHover(elementID uint64) bool
	IsPressed(elementID uint64) bool
	IsClicked(elementID uint64) bool
}
