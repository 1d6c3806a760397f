package solver

import (
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// Style is the subset of element attributes the solver needs (spec.md §3's
// element attribute list, minus everything the Paint Pass owns directly
// like color/font/cursor). The Layout Pass's Hooks implementation fills
// one of these in per element as it decodes Width/Height/Padding/Margin/
// Display/Gap.
type Style struct {
	Width, Height word.Length
	Padding       vm.Edges
	Margin        vm.Edges
	Display       vm.Display
	GapX, GapY    word.Length
}

// DefaultStyle matches what an element has before any attribute tag is
// decoded: auto size, block flow, no gap — the bytecode's implicit zero
// value, since Enter carries no attribute payload of its own.
func DefaultStyle() Style {
	auto := word.Length{Kind: word.LengthAuto}
	return Style{
		Width:   auto,
		Height:  auto,
		Display: vm.DisplayBlock,
		GapX:    word.Length{Kind: word.LengthPxs, Value: 0},
		GapY:    word.Length{Kind: word.LengthPxs, Value: 0},
	}
}
