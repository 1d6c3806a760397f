// Package drawsink defines the narrow interfaces the Paint Pass calls
// into for actual drawing and text shaping (SPEC_FULL.md §4.M). The real
// 2D drawing and text shaping libraries are out of scope (spec.md §1); this
// package only draws the boundary the Paint Pass is allowed to depend on.
package drawsink

import (
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// RectPrimitive is a resolved, pixel-space rectangle draw call.
type RectPrimitive struct {
	X, Y, Width, Height float32
	Color               word.Color
}

// Canvas receives resolved drawing primitives from the Paint Pass. Every
// coordinate arrives already resolved to pixels — the Paint Pass is the
// only caller that ever sees unresolved word.Length values.
type Canvas interface {
	Rect(r RectPrimitive)

	BeginPath()
	EndPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(cx, cy, x, y float32)
	CubicTo(cx1, cy1, cx2, cy2, x, y float32)
	ArcTo(cx, cy, radius, startAngle, endAngle float32)
	ClosePath()

	SetCursor(hint vm.CursorHint)
}

// TextShaper measures and draws text. Measure is unused by the layout
// algorithm in internal/solver (spec.md §4.E gives text no layout effect)
// but the Paint Pass may still call it, e.g. to align text within a
// resolved rect before drawing.
type TextShaper interface {
	Measure(text string, size float32, family string) (width, height float32)
	Draw(text string, x, y, size float32, align vm.TextAlign, family string)
}
