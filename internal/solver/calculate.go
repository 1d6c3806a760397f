package solver

import (
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// Calculate resolves the border-box and content-box rects for root and
// every descendant, the single entry point the Layout Pass calls once it
// has finished decoding bytecode into a tree (spec.md §4.E). baseFontSize
// is the root em Rems lengths resolve against.
func Calculate(root Layoutable, availableWidth, availableHeight, baseFontSize float32) {
	if root == nil {
		return
	}
	style := root.LayoutStyle()
	nw, nh := naturalSize(root, baseFontSize)
	width := resolveOrFallback(style.Width, availableWidth, baseFontSize, nw)
	height := resolveOrFallback(style.Height, availableHeight, baseFontSize, nh)
	calculateNode(root, Rect{0, 0, width, height}, baseFontSize)
}

// calculateNode lays n out in available, a border box its caller has
// already sized (Calculate for the root, the block/flex slot for a child).
func calculateNode(n Layoutable, available Rect, baseFontSize float32) {
	style := n.LayoutStyle()
	if style.Display == vm.DisplayNone {
		// display:none removes the element (and its subtree) from layout
		// entirely — no rect is resolved, no child is visited.
		n.SetLayout(Layout{})
		return
	}

	border := Rect{X: available.X, Y: available.Y, Width: clampNonNeg(available.Width), Height: clampNonNeg(available.Height)}

	pad := resolveEdges(style.Padding, border, baseFontSize)
	content := border.Inset(pad)

	children := n.LayoutChildren()
	if len(children) > 0 {
		layoutChildren(style, children, content, baseFontSize)
	}

	n.SetLayout(Layout{Rect: border, ContentRect: content})
}

// layoutChildren dispatches to the block or flex arrangement per the
// element's Display mode. Grid has no dedicated track algorithm here
// (spec.md §1 treats the real solver as an out-of-scope collaborator); it
// is handled as a row-direction flex variant per SPEC_FULL.md §4.H.
func layoutChildren(style Style, children []Layoutable, content Rect, baseFontSize float32) {
	switch style.Display {
	case vm.DisplayFlexRow, vm.DisplayGrid:
		layoutFlexChildren(children, content, baseFontSize, true, style)
	case vm.DisplayFlexCol:
		layoutFlexChildren(children, content, baseFontSize, false, style)
	default: // DisplayBlock
		layoutBlockChildren(children, content, baseFontSize, style.GapY)
	}
}

// layoutBlockChildren stacks children top-to-bottom, each defaulting to
// the full content width (ordinary block flow) unless it sets its own
// Width.
func layoutBlockChildren(children []Layoutable, content Rect, baseFontSize float32, gap word.Length) {
	gapPx := gap.Resolve(content.Height, baseFontSize, 0)
	y := content.Y
	for i, child := range children {
		cs := child.LayoutStyle()
		m := resolveEdges(cs.Margin, content, baseFontSize)
		if i > 0 {
			y += gapPx
		}
		y += m.Top

		_, nh := naturalSize(child, baseFontSize)
		availW := content.Width - m.Horizontal()
		w := resolveOrFallback(cs.Width, availW, baseFontSize, availW)
		if cs.Width.IsAuto() {
			w = availW
		}
		h := resolveOrFallback(cs.Height, content.Height, baseFontSize, nh)

		slot := Rect{X: content.X + m.Left, Y: y, Width: clampNonNeg(w), Height: clampNonNeg(h)}
		calculateNode(child, slot, baseFontSize)
		y += slot.Height + m.Bottom
	}
}

// layoutFlexChildren packs children along the main axis at the start, with
// no grow/shrink distribution (spec.md's element attributes have no
// flex-grow/shrink or justify/align fields to drive one) and stretches
// Auto children to fill the cross axis — the simplest default consistent
// with the data model as specified.
func layoutFlexChildren(children []Layoutable, content Rect, baseFontSize float32, isRow bool, style Style) {
	mainSize, crossSize := content.Width, content.Height
	if !isRow {
		mainSize, crossSize = crossSize, mainSize
	}
	gap := style.GapX
	if !isRow {
		gap = style.GapY
	}
	gapPx := gap.Resolve(mainSize, baseFontSize, 0)

	mainPos := float32(0)
	for i, child := range children {
		cs := child.LayoutStyle()
		m := resolveEdges(cs.Margin, content, baseFontSize)

		var mainMargin, crossMargin float32
		if isRow {
			mainMargin, crossMargin = m.Horizontal(), m.Vertical()
		} else {
			mainMargin, crossMargin = m.Vertical(), m.Horizontal()
		}

		nw, nh := naturalSize(child, baseFontSize)
		natMain := nh
		if isRow {
			natMain = nw
		}
		mainLen := cs.Height
		if isRow {
			mainLen = cs.Width
		}
		childMain := resolveOrFallback(mainLen, mainSize, baseFontSize, natMain)

		availCross := crossSize - crossMargin
		crossLen := cs.Width
		if isRow {
			crossLen = cs.Height
		}
		var childCross float32
		if crossLen.IsAuto() {
			childCross = availCross
		} else {
			childCross = crossLen.Resolve(availCross, baseFontSize, availCross)
		}

		if i > 0 {
			mainPos += gapPx
		}
		mainPos += mainMargin / 2

		var slot Rect
		if isRow {
			slot = Rect{
				X:      content.X + mainPos,
				Y:      content.Y,
				Width:  clampNonNeg(childMain),
				Height: clampNonNeg(childCross),
			}
		} else {
			slot = Rect{
				X:      content.X,
				Y:      content.Y + mainPos,
				Width:  clampNonNeg(childCross),
				Height: clampNonNeg(childMain),
			}
		}
		calculateNode(child, slot, baseFontSize)
		mainPos += childMain + mainMargin/2
	}
}

// naturalSize recursively estimates a node's content-driven size for Auto
// dimensions: zero for a childless element (spec.md §8: "Auto height with
// no children resolves to 0"), otherwise the sum of children along the
// main axis and the max along the cross axis, each inclusive of margin.
// A child counts at its own Pxs/Rems width or height where it sets one and
// at its natural size otherwise (Auto, Frac). Text content does not contribute (spec.md §4.E gives text tags no
// layout effect — see DESIGN.md).
func naturalSize(n Layoutable, baseFontSize float32) (w, h float32) {
	style := n.LayoutStyle()
	children := n.LayoutChildren()
	if len(children) == 0 {
		iw, ih := n.IntrinsicSize()
		return iw, ih
	}

	horizontal := style.Display == vm.DisplayFlexRow || style.Display == vm.DisplayGrid

	var sumMain, maxCross float32
	for i, c := range children {
		cw, ch := naturalSize(c, baseFontSize)
		cs := c.LayoutStyle()
		if !cs.Width.IsAuto() && cs.Width.Kind != word.LengthFrac {
			cw = cs.Width.Resolve(0, baseFontSize, cw)
		}
		if !cs.Height.IsAuto() && cs.Height.Kind != word.LengthFrac {
			ch = cs.Height.Resolve(0, baseFontSize, ch)
		}
		m := resolveEdgesSimple(cs.Margin, baseFontSize)
		cw += m.Horizontal()
		ch += m.Vertical()

		if horizontal {
			sumMain += cw
			if ch > maxCross {
				maxCross = ch
			}
		} else {
			sumMain += ch
			if cw > maxCross {
				maxCross = cw
			}
		}
		if i > 0 {
			gap := style.GapY
			if horizontal {
				gap = style.GapX
			}
			sumMain += gap.Resolve(sumMain, baseFontSize, 0)
		}
	}

	pad := resolveEdgesSimple(style.Padding, baseFontSize)
	if horizontal {
		return sumMain + pad.Horizontal(), maxCross + pad.Vertical()
	}
	return maxCross + pad.Horizontal(), sumMain + pad.Vertical()
}

func resolveOrFallback(l word.Length, reference, baseFontSize, fallback float32) float32 {
	if l.IsAuto() {
		return fallback
	}
	return l.Resolve(reference, baseFontSize, fallback)
}

func resolveEdges(e vm.Edges, box Rect, baseFontSize float32) Edges {
	return Edges{
		Top:    e.Top.Resolve(box.Height, baseFontSize, 0),
		Right:  e.Right.Resolve(box.Width, baseFontSize, 0),
		Bottom: e.Bottom.Resolve(box.Height, baseFontSize, 0),
		Left:   e.Left.Resolve(box.Width, baseFontSize, 0),
	}
}

// resolveEdgesSimple resolves edges with no real reference available yet
// (used during the bottom-up natural-size measurement pass, before any
// parent width is known) — Frac edges fall back to 0 in this context.
func resolveEdgesSimple(e vm.Edges, baseFontSize float32) Edges {
	return Edges{
		Top:    e.Top.Resolve(0, baseFontSize, 0),
		Right:  e.Right.Resolve(0, baseFontSize, 0),
		Bottom: e.Bottom.Resolve(0, baseFontSize, 0),
		Left:   e.Left.Resolve(0, baseFontSize, 0),
	}
}

func clampNonNeg(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}
