package main

import (
	"io"

	"github.com/waylayer/uibackend/internal/drawsink"
	"github.com/waylayer/uibackend/internal/vm"
)

// cell is one character position on the terminal grid: a rune plus the
// background color the demo canvas uses to approximate a filled rect.
type cell struct {
	r       rune
	bg      [3]uint8
	painted bool
}

// TermCanvas is the ANSI-backed demo drawsink.Canvas/drawsink.TextShaper
// implementation SPEC_FULL.md §4.M calls for: a coarse rasterizer that
// treats every resolved pixel coordinate as a terminal cell coordinate
// (one cell per unit — plenty for exercising the protocol by hand, not a
// claim of visual fidelity) and diffs successive frames the way the
// teacher's ANSITerminal.Flush does, to avoid repainting unchanged cells.
type TermCanvas struct {
	out  io.Writer
	esc  *escBuilder
	cols int
	rows int

	cur  [][]cell
	prev [][]cell

	path   []point
	cursor vm.CursorHint
}

type point struct{ x, y int }

func NewTermCanvas(out io.Writer, cols, rows int) *TermCanvas {
	c := &TermCanvas{out: out, esc: newEscBuilder(8192), cols: cols, rows: rows}
	c.cur = newGrid(cols, rows)
	c.prev = newGrid(cols, rows)
	return c
}

func newGrid(cols, rows int) [][]cell {
	g := make([][]cell, rows)
	for y := range g {
		g[y] = make([]cell, cols)
	}
	return g
}

// Resize reallocates the grid for a new terminal size, discarding the
// diff baseline so the next Flush repaints everything.
func (c *TermCanvas) Resize(cols, rows int) {
	c.cols, c.rows = cols, rows
	c.cur = newGrid(cols, rows)
	c.prev = newGrid(cols, rows)
}

func (c *TermCanvas) set(x, y int, r rune, bg [3]uint8) {
	if x < 0 || y < 0 || y >= c.rows || x >= c.cols {
		return
	}
	c.cur[y][x] = cell{r: r, bg: bg, painted: true}
}

func (c *TermCanvas) Rect(p drawsink.RectPrimitive) {
	r, g, b, _ := p.Color.RGBA8()
	bg := [3]uint8{r, g, b}
	x0, y0 := int(p.X), int(p.Y)
	x1, y1 := int(p.X+p.Width), int(p.Y+p.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, ' ', bg)
		}
	}
}

func (c *TermCanvas) BeginPath() { c.path = c.path[:0] }
func (c *TermCanvas) EndPath()   { c.strokePath() }

func (c *TermCanvas) MoveTo(x, y float32) { c.path = append(c.path, point{int(x), int(y)}) }
func (c *TermCanvas) LineTo(x, y float32) { c.path = append(c.path, point{int(x), int(y)}) }

// QuadTo/CubicTo/ArcTo are approximated as a straight line to the curve's
// terminal point — plausible fidelity for a cell grid, and the Canvas
// interface gives the demo no color/weight to render a true curve with.
func (c *TermCanvas) QuadTo(cx, cy, x, y float32)                { c.path = append(c.path, point{int(x), int(y)}) }
func (c *TermCanvas) CubicTo(c1x, c1y, c2x, c2y, x, y float32)    { c.path = append(c.path, point{int(x), int(y)}) }
func (c *TermCanvas) ArcTo(cx, cy, radius, startAngle, endAngle float32) {
	c.path = append(c.path, point{int(cx + radius), int(cy)})
}
func (c *TermCanvas) ClosePath() {
	if len(c.path) > 0 {
		c.path = append(c.path, c.path[0])
	}
	c.strokePath()
}

func (c *TermCanvas) strokePath() {
	for i := 1; i < len(c.path); i++ {
		c.drawLine(c.path[i-1], c.path[i])
	}
}

// drawLine plots a Bresenham line of '*' cells in the default foreground;
// the Canvas interface carries no stroke color, so path drawing is always
// rendered in the terminal's default foreground.
func (c *TermCanvas) drawLine(a, b point) {
	dx, dy := abs(b.x-a.x), abs(b.y-a.y)
	sx, sy := sign(b.x-a.x), sign(b.y-a.y)
	x, y := a.x, a.y
	err := dx - dy
	for {
		c.set(x, y, '*', [3]uint8{})
		if x == b.x && y == b.y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func (c *TermCanvas) SetCursor(hint vm.CursorHint) { c.cursor = hint }

// Measure treats every cell as one monospace column regardless of size —
// good enough to center/align text within a resolved rect on a grid that
// has no sub-cell resolution anyway.
func (c *TermCanvas) Measure(text string, size float32, family string) (width, height float32) {
	return float32(len([]rune(text))), 1
}

func (c *TermCanvas) Draw(text string, x, y, size float32, align vm.TextAlign, family string) {
	runes := []rune(text)
	startX := int(x)
	switch align {
	case vm.AlignCenter:
		startX -= len(runes) / 2
	case vm.AlignEnd:
		startX -= len(runes)
	}
	row := int(y)
	for i, r := range runes {
		c.set(startX+i, row, r, [3]uint8{})
	}
}

// Flush diffs the current frame against the previous one and writes only
// the changed cells, mirroring ANSITerminal.Flush's cursor-movement and
// style-change coalescing without tracking a full Style struct (the demo
// only ever sets a background color).
func (c *TermCanvas) Flush() error {
	c.esc.Reset()
	lastX, lastY := -1, -1
	var lastBG [3]uint8
	haveBG := false

	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			cur := c.cur[y][x]
			if cur == c.prev[y][x] {
				continue
			}
			if y != lastY || x != lastX+1 {
				c.esc.moveTo(x, y)
			}
			if !cur.painted {
				if haveBG {
					c.esc.resetStyle()
					haveBG = false
				}
				c.esc.writeRune(' ')
			} else {
				if !haveBG || cur.bg != lastBG {
					c.esc.setBG(cur.bg[0], cur.bg[1], cur.bg[2])
					lastBG = cur.bg
					haveBG = true
				}
				c.esc.writeRune(cur.r)
			}
			lastX, lastY = x, y
		}
	}

	if c.esc.Len() == 0 {
		c.swap()
		return nil
	}
	_, err := c.out.Write(c.esc.Bytes())
	c.swap()
	return err
}

func (c *TermCanvas) swap() {
	c.prev, c.cur = c.cur, newGrid(c.cols, c.rows)
}

// Clear resets the diff baseline and wipes the visible screen, for use
// once at startup and on resize.
func (c *TermCanvas) Clear() error {
	c.esc.Reset()
	c.esc.resetStyle()
	c.esc.moveTo(0, 0)
	c.esc.clearScreen()
	c.prev = newGrid(c.cols, c.rows)
	_, err := c.out.Write(c.esc.Bytes())
	return err
}
