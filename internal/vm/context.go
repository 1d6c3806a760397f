package vm

import (
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/word"
)

// Pass identifies which of the two per-frame traversals (spec.md §4.E/§4.F)
// a Context is running, since a handful of tags (state-gated jumps, Event)
// behave differently depending on it.
type Pass int

const (
	PassLayout Pass = iota
	PassPaint
)

func (p Pass) String() string {
	if p == PassPaint {
		return "paint"
	}
	return "layout"
}

// Pen is the drawing state reset on every Enter (spec.md §3).
type Pen struct {
	Color      word.Color
	FontSize   float32
	FontAlign  TextAlign
	FontFamily string
	Cursor     CursorHint
}

func defaultPen() Pen {
	return Pen{
		Color:     word.Color{Kind: word.ColorRgb, A: 0, B: 0, C: 0}, // black
		FontSize:  16,
		FontAlign: AlignStart,
		Cursor:    CursorDefault,
	}
}

// Context is one interpreter run's mutable state: spec.md §3's "per-pass
// interpreter state". A fresh Context is built for every Layout Pass and
// every Paint Pass — arg_stack and reg_file never persist across passes.
type Context struct {
	Pass Pass

	Page *page.Page
	PC   uint64

	argStack []word.Tagged
	regs     map[uint64]word.Tagged
	scopes   []uint64

	Pen Pen

	// BaseFontSize is the runtime's root em size, in pixels, that Rems
	// lengths resolve against (spec.md §4.E).
	BaseFontSize float32

	nextElementID uint64
	instrCount    uint64
	instrCap      uint64
}

// DefaultBaseFontSize is used when the caller does not override it via
// config (internal/config's BaseFontSize field).
const DefaultBaseFontSize float32 = 16

// NewContext builds the interpreter state for one traversal starting at
// startPC (normally the page's root pointer).
func NewContext(pg *page.Page, pass Pass, startPC uint64, instrCap uint64, baseFontSize float32) *Context {
	if baseFontSize <= 0 {
		baseFontSize = DefaultBaseFontSize
	}
	return &Context{
		Pass:         pass,
		Page:         pg,
		PC:           startPC,
		regs:         make(map[uint64]word.Tagged),
		Pen:          defaultPen(),
		BaseFontSize: baseFontSize,
		instrCap:     instrCap,
	}
}

func (c *Context) pushArg(tw word.Tagged) {
	c.argStack = append(c.argStack, tw)
}

func (c *Context) popArg() (word.Tagged, bool) {
	if len(c.argStack) == 0 {
		return word.Tagged{}, false
	}
	tw := c.argStack[len(c.argStack)-1]
	c.argStack = c.argStack[:len(c.argStack)-1]
	return tw, true
}

// CurrentElement returns the element id at the top of scope_stack, or
// (0, false) if no Enter is currently open.
func (c *Context) CurrentElement() (uint64, bool) {
	if len(c.scopes) == 0 {
		return 0, false
	}
	return c.scopes[len(c.scopes)-1], true
}

func (c *Context) pushScope(id uint64) {
	c.scopes = append(c.scopes, id)
}

func (c *Context) popScope() (uint64, bool) {
	if len(c.scopes) == 0 {
		return 0, false
	}
	id := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	return id, true
}

// ScopeDepth reports how many Enters are currently open — spec.md §8
// property #1 checks this is 0 once a well-formed program finishes.
func (c *Context) ScopeDepth() int {
	return len(c.scopes)
}

// checkInstrCap bumps the executed-instruction counter and errors once it
// exceeds instrCap, guarding against malicious or buggy jump loops
// (spec.md §5).
func (c *Context) checkInstrCap() error {
	c.instrCount++
	if c.instrCap > 0 && c.instrCount > c.instrCap {
		return ErrInstructionCapExceeded
	}
	return nil
}
