package vm

import (
	"errors"
	"testing"

	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/word"
)

// recordingHooks is a no-op Hooks implementation that records every call,
// for assertions without needing a full element tree or drawing sink.
type recordingHooks struct {
	colors      []word.Color
	events      []uint64
	hover       map[uint64]bool
	pressed     map[uint64]bool
	clicked     map[uint64]bool
	enterCount  int
	leaveCount  int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{
		hover:   map[uint64]bool{},
		pressed: map[uint64]bool{},
		clicked: map[uint64]bool{},
	}
}

func (h *recordingHooks) OnEnter(ctx *Context, id uint64) { h.enterCount++ }
func (h *recordingHooks) OnLeave(ctx *Context, id uint64) { h.leaveCount++ }
func (h *recordingHooks) OnWidth(ctx *Context, l word.Length)            {}
func (h *recordingHooks) OnHeight(ctx *Context, l word.Length)           {}
func (h *recordingHooks) OnPadding(ctx *Context, e Edges)                {}
func (h *recordingHooks) OnMargin(ctx *Context, e Edges)                 {}
func (h *recordingHooks) OnDisplay(ctx *Context, d Display)              {}
func (h *recordingHooks) OnGap(ctx *Context, hz, vt word.Length)         {}
func (h *recordingHooks) OnColor(ctx *Context, c word.Color)             { h.colors = append(h.colors, c) }
func (h *recordingHooks) OnRect(ctx *Context, x, y, w, hh word.Length)   {}
func (h *recordingHooks) OnBeginPath(ctx *Context)                       {}
func (h *recordingHooks) OnEndPath(ctx *Context)                         {}
func (h *recordingHooks) OnMoveTo(ctx *Context, x, y word.Length)        {}
func (h *recordingHooks) OnLineTo(ctx *Context, x, y word.Length)        {}
func (h *recordingHooks) OnQuadTo(ctx *Context, cx, cy, x, y word.Length) {}
func (h *recordingHooks) OnCubicTo(ctx *Context, c1x, c1y, c2x, c2y, x, y word.Length) {}
func (h *recordingHooks) OnArcTo(ctx *Context, cx, cy, r, sa, ea word.Length) {}
func (h *recordingHooks) OnClosePath(ctx *Context)                       {}
func (h *recordingHooks) OnFontSize(ctx *Context, size word.Length)      {}
func (h *recordingHooks) OnFontAlignment(ctx *Context, align TextAlign)  {}
func (h *recordingHooks) OnFontFamily(ctx *Context, family string)       {}
func (h *recordingHooks) OnText(ctx *Context, x, y word.Length, text string) {}
func (h *recordingHooks) OnCursorDefault(ctx *Context)                   {}
func (h *recordingHooks) OnCursorPointer(ctx *Context)                   {}
func (h *recordingHooks) OnEvent(ctx *Context, id uint64)                { h.events = append(h.events, id) }
func (h *recordingHooks) IsHover(id uint64) bool                         { return h.hover[id] }
func (h *recordingHooks) IsPressed(id uint64) bool                       { return h.pressed[id] }
func (h *recordingHooks) IsClicked(id uint64) bool                       { return h.clicked[id] }

// progStart is where test programs begin within their backing buffer,
// clear of the page's reserved header words (NullPtr/root/allocator free
// list/first block header occupy bytes [0,40)).
const progStart = 48

// prog is a tiny builder for hand-assembled bytecode programs in tests.
type prog struct {
	buf []byte
	off uint64
}

func newProg(size int) *prog {
	return &prog{buf: make([]byte, size), off: progStart}
}

// pc is the start-of-program offset to hand NewContext as its startPC.
func (p *prog) pc() uint64 { return progStart }

func (p *prog) tag(tag word.Tag, raw [word.Size]byte) *prog {
	if err := word.EncodeTagged(p.buf, p.off, tag, raw); err != nil {
		panic(err)
	}
	p.off += word.TaggedSize
	return p
}

func (p *prog) u(tag word.Tag, v uint64) *prog    { return p.tag(tag, word.RawFromUint(v)) }
func (p *prog) i(tag word.Tag, v int64) *prog     { return p.tag(tag, word.RawFromInt(v)) }
func (p *prog) f(tag word.Tag, v float32) *prog   { return p.tag(tag, word.RawFromFloat32(v)) }

func (p *prog) enter() *prog { return p.u(word.Enter, 0) }
func (p *prog) leave() *prog { return p.u(word.Leave, 0) }
func (p *prog) pxs(v float32) *prog { return p.f(word.Pxs, v) }
func (p *prog) rgb(r, g, b byte) *prog {
	return p.tag(word.Rgb, [word.Size]byte{r, g, b})
}

func newTestPage(t *testing.T, buf []byte) *page.Page {
	t.Helper()
	pg, err := page.NewFromBuffer(buf)
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}
	return pg
}

// TestRun_Scenario1_MinimalRect mirrors spec.md §8 Scenario 1.
func TestRun_Scenario1_MinimalRect(t *testing.T) {
	p := newProg(256)
	p.enter()
	p.u(word.Width, 0)
	p.pxs(150)
	p.u(word.Height, 0)
	p.pxs(100)
	p.u(word.ColorAttr, 0)
	p.rgb(0xff, 0x00, 0x00)
	p.u(word.Rect, 0)
	p.pxs(0)
	p.pxs(0)
	p.pxs(150)
	p.pxs(100)
	p.leave()

	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
	h := newRecordingHooks()
	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.enterCount != 1 || h.leaveCount != 1 {
		t.Errorf("enter/leave = %d/%d, want 1/1", h.enterCount, h.leaveCount)
	}
	if len(h.colors) != 1 || h.colors[0].A != 0xff {
		t.Errorf("colors = %+v, want one red", h.colors)
	}
	if ctx.ScopeDepth() != 0 {
		t.Errorf("ScopeDepth() = %d, want 0 at program end", ctx.ScopeDepth())
	}
}

// TestRun_Scenario3_ClickEvent mirrors spec.md §8 Scenario 3: an event
// fires only when Clicked's gate is open.
func TestRun_Scenario3_ClickEvent(t *testing.T) {
	build := func(clicked bool) (*page.Page, *recordingHooks) {
		p := newProg(256)
		p.enter()
		p.u(word.Width, 0)
		p.pxs(100)
		p.u(word.Height, 0)
		p.pxs(100)
		p.i(word.Clicked, word.TaggedSize) // skip the Event tag when NOT clicked
		p.u(word.Event, 7)
		p.leave()

		pg := newTestPage(t, p.buf)
		h := newRecordingHooks()
		if clicked {
			h.clicked[0] = true
		}
		return pg, h
	}

	// Clicked's gate being set means the jump is NOT taken, so execution
	// falls through to Event: clicked -> event fires.
	pg, h := build(true)
	ctx := NewContext(pg, PassPaint, progStart, 10000, 0)
	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run (clicked): %v", err)
	}
	if len(h.events) != 1 || h.events[0] != 7 {
		t.Errorf("events = %v, want [7]", h.events)
	}

	// Gate unset means the jump over Event IS taken: no event.
	pg2, h2 := build(false)
	ctx2 := NewContext(pg2, PassPaint, progStart, 10000, 0)
	if err := Run(ctx2, h2); err != nil {
		t.Fatalf("Run (not clicked): %v", err)
	}
	if len(h2.events) != 0 {
		t.Errorf("events = %v, want none", h2.events)
	}
}

// TestFetchArg_Scenario4_StackArgument mirrors spec.md §8 Scenario 4.
func TestFetchArg_Scenario4_StackArgument(t *testing.T) {
	p := newProg(256)
	p.enter()
	p.u(word.PushArg, 0)
	p.rgb(0x00, 0xff, 0x00)
	p.u(word.ColorAttr, 0)
	p.u(word.PullArg, 0)
	p.leave()

	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
	h := newRecordingHooks()
	if err := Run(ctx, h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(h.colors) != 1 || h.colors[0].B != 0xff {
		t.Errorf("colors = %+v, want one green from PullArg", h.colors)
	}
}

func TestFetchArg_Scenario4_PullArgWithoutPush_Aborts(t *testing.T) {
	p := newProg(256)
	p.enter()
	p.u(word.ColorAttr, 0)
	p.u(word.PullArg, 0)
	p.leave()

	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
	h := newRecordingHooks()
	err := Run(ctx, h)
	if err == nil {
		t.Fatal("expected a frame abort, got nil")
	}
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Fatalf("error is not a *FrameError: %v", err)
	}
	if !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("error = %v, want wrapping ErrStackUnderflow", err)
	}
}

// TestJump_Scenario6_JumpValidity mirrors spec.md §8 Scenario 6.
func TestJump_Scenario6_JumpValidity(t *testing.T) {
	t.Run("negative target errors", func(t *testing.T) {
		p := newProg(256)
		p.enter()
		p.i(word.Jmp, -1000)
		p.leave()
		pg := newTestPage(t, p.buf)
		ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
		if err := Run(ctx, newRecordingHooks()); !errors.Is(err, ErrBadJump) {
			t.Errorf("err = %v, want ErrBadJump", err)
		}
	})

	t.Run("zero offset is a no-op", func(t *testing.T) {
		p := newProg(256)
		p.enter()
		p.i(word.Jmp, 0)
		p.leave()
		pg := newTestPage(t, p.buf)
		ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
		if err := Run(ctx, newRecordingHooks()); err != nil {
			t.Errorf("Jmp 0 should be a no-op, got %v", err)
		}
	})

	t.Run("non-W-aligned target errors", func(t *testing.T) {
		p := newProg(256)
		p.enter()
		p.i(word.Jmp, 1) // not a multiple of W at all
		p.leave()
		pg := newTestPage(t, p.buf)
		ctx := NewContext(pg, PassPaint, p.pc(), 10000, 0)
		if err := Run(ctx, newRecordingHooks()); !errors.Is(err, ErrBadJump) {
			t.Errorf("err = %v, want ErrBadJump", err)
		}
	})

	// A tagged word immediately after an odd-length Array is W-aligned but
	// not 2*W-aligned (EncodeArray pads to W, not 2*W) — a legal instruction
	// boundary that validateJumpTarget must accept (spec.md §3 invariant 3
	// asks for W-alignment only).
	t.Run("W-aligned but not 2W-aligned target is a valid landing", func(t *testing.T) {
		buf := make([]byte, 256)
		off := uint64(progStart)

		if err := word.EncodeTagged(buf, off, word.Enter, word.RawFromUint(0)); err != nil {
			t.Fatal(err)
		}
		off += word.TaggedSize

		jmpOff := off
		off += word.TaggedSize // reserve space for the Jmp instruction itself

		nextOff, err := word.EncodeArray(buf, off, []byte{'x'})
		if err != nil {
			t.Fatal(err)
		}
		if nextOff%word.TaggedSize == 0 {
			t.Fatalf("test setup: array padding landed 2W-aligned at %d, want 8 mod 16", nextOff)
		}

		noJmpOff := nextOff
		if err := word.EncodeTagged(buf, noJmpOff, word.NoJmp, word.RawFromInt(0)); err != nil {
			t.Fatal(err)
		}
		if err := word.EncodeTagged(buf, noJmpOff+word.TaggedSize, word.Leave, word.RawFromUint(0)); err != nil {
			t.Fatal(err)
		}

		jumpOffset := int64(noJmpOff) - int64(jmpOff+word.TaggedSize)
		if err := word.EncodeTagged(buf, jmpOff, word.Jmp, word.RawFromInt(jumpOffset)); err != nil {
			t.Fatal(err)
		}

		pg := newTestPage(t, buf)
		ctx := NewContext(pg, PassPaint, progStart, 10000, 0)
		if err := Run(ctx, newRecordingHooks()); err != nil {
			t.Errorf("Run: %v, want nil (target %d is a legal W-aligned instruction boundary)", err, noJmpOff)
		}
	})
}

func TestRun_InstructionCapExceeded(t *testing.T) {
	p := newProg(128)
	p.enter()
	p.i(word.Jmp, -int64(word.TaggedSize)) // infinite loop back onto itself
	p.leave()
	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 50, 0)
	err := Run(ctx, newRecordingHooks())
	if !errors.Is(err, ErrInstructionCapExceeded) {
		t.Errorf("err = %v, want ErrInstructionCapExceeded", err)
	}
}

func TestRun_UnbalancedLeave_Errors(t *testing.T) {
	p := newProg(64)
	p.leave()
	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 1000, 0)
	err := Run(ctx, newRecordingHooks())
	if !errors.Is(err, ErrUnbalancedScope) {
		t.Errorf("err = %v, want ErrUnbalancedScope", err)
	}
}

func TestRun_ValueTagAtTopLevel_Errors(t *testing.T) {
	p := newProg(64)
	p.pxs(10)
	pg := newTestPage(t, p.buf)
	ctx := NewContext(pg, PassPaint, p.pc(), 1000, 0)
	err := Run(ctx, newRecordingHooks())
	if !errors.Is(err, ErrValueAtTopLevel) {
		t.Errorf("err = %v, want ErrValueAtTopLevel", err)
	}
}
