package paintpass

import (
	"testing"

	"github.com/waylayer/uibackend/internal/drawsink"
	"github.com/waylayer/uibackend/internal/layoutpass"
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

type fakeCanvas struct {
	rects   []drawsink.RectPrimitive
	cursors []vm.CursorHint
}

func (c *fakeCanvas) Rect(r drawsink.RectPrimitive)                                { c.rects = append(c.rects, r) }
func (c *fakeCanvas) BeginPath()                                                   {}
func (c *fakeCanvas) EndPath()                                                     {}
func (c *fakeCanvas) MoveTo(x, y float32)                                          {}
func (c *fakeCanvas) LineTo(x, y float32)                                          {}
func (c *fakeCanvas) QuadTo(cx, cy, x, y float32)                                  {}
func (c *fakeCanvas) CubicTo(c1x, c1y, c2x, c2y, x, y float32)                     {}
func (c *fakeCanvas) ArcTo(cx, cy, radius, startAngle, endAngle float32)           {}
func (c *fakeCanvas) ClosePath()                                                  {}
func (c *fakeCanvas) SetCursor(hint vm.CursorHint)                                { c.cursors = append(c.cursors, hint) }

type noShaper struct{}

func (noShaper) Measure(text string, size float32, family string) (float32, float32) { return 0, 0 }
func (noShaper) Draw(text string, x, y, size float32, align vm.TextAlign, family string) {}

// progStart is where test programs begin, clear of the page's reserved
// header words (NullPtr/root/allocator free list/first block header
// occupy bytes [0,40) of any buffer page.NewFromBuffer formats).
const progStart = 48

func tagAt(buf []byte, off uint64, tag word.Tag, raw [word.Size]byte) uint64 {
	if err := word.EncodeTagged(buf, off, tag, raw); err != nil {
		panic(err)
	}
	return off + word.TaggedSize
}

// TestRun_DrawsRectAtWindowOrigin mirrors spec.md §8 Scenario 1.
func TestRun_DrawsRectAtWindowOrigin(t *testing.T) {
	buf := make([]byte, 512)
	off := uint64(progStart)
	off = tagAt(buf, off, word.Enter, word.RawFromUint(0))
	off = tagAt(buf, off, word.Width, word.RawFromUint(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(150))
	off = tagAt(buf, off, word.Height, word.RawFromUint(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(100))
	off = tagAt(buf, off, word.ColorAttr, word.RawFromUint(0))
	off = tagAt(buf, off, word.Rgb, [word.Size]byte{0xff, 0x00, 0x00})
	off = tagAt(buf, off, word.Rect, word.RawFromUint(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(150))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(100))
	off = tagAt(buf, off, word.Leave, word.RawFromUint(0))
	_ = off

	pg, err := page.NewFromBuffer(buf)
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}

	layoutCtx := vm.NewContext(pg, vm.PassLayout, progStart, 10000, 16)
	lres, err := layoutpass.Run(layoutCtx, nil, 800, 600)
	if err != nil {
		t.Fatalf("layoutpass.Run: %v", err)
	}

	paintCtx := vm.NewContext(pg, vm.PassPaint, progStart, 10000, 16)
	canvas := &fakeCanvas{}
	events, err := Run(paintCtx, lres.Root, lres.ByID, nil, canvas, noShaper{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
	if len(canvas.rects) != 1 {
		t.Fatalf("rects = %+v, want exactly one", canvas.rects)
	}
	got := canvas.rects[0]
	if got.X != 0 || got.Y != 0 || got.Width != 150 || got.Height != 100 {
		t.Errorf("rect = %+v, want 0,0,150,100", got)
	}
	if got.Color.A != 0xff {
		t.Errorf("rect color = %+v, want red", got.Color)
	}
}

type fakeInputState struct {
	hover map[uint64]bool
}

func (f fakeInputState) IsHover(id uint64) bool   { return f.hover[id] }
func (f fakeInputState) IsPressed(id uint64) bool { return false }
func (f fakeInputState) IsClicked(id uint64) bool { return false }

// TestRun_CursorOnlySetWhenElementContainsPointer mirrors spec.md §4.F:
// "CursorDefault / CursorPointer set the window cursor if the current
// element contains the pointer." A CursorPointer tag on an element the
// pointer is not over must not reach the canvas at all.
func TestRun_CursorOnlySetWhenElementContainsPointer(t *testing.T) {
	buf := make([]byte, 512)
	off := uint64(progStart)
	off = tagAt(buf, off, word.Enter, word.RawFromUint(0))
	off = tagAt(buf, off, word.CursorPointer, word.RawFromUint(0))
	off = tagAt(buf, off, word.Leave, word.RawFromUint(0))
	_ = off

	pg, err := page.NewFromBuffer(buf)
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}

	layoutCtx := vm.NewContext(pg, vm.PassLayout, progStart, 10000, 16)
	lres, err := layoutpass.Run(layoutCtx, nil, 800, 600)
	if err != nil {
		t.Fatalf("layoutpass.Run: %v", err)
	}
	rootID := lres.Root.ID

	t.Run("pointer not over element", func(t *testing.T) {
		paintCtx := vm.NewContext(pg, vm.PassPaint, progStart, 10000, 16)
		canvas := &fakeCanvas{}
		input := fakeInputState{hover: map[uint64]bool{}}
		if _, err := Run(paintCtx, lres.Root, lres.ByID, input, canvas, noShaper{}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(canvas.cursors) != 0 {
			t.Errorf("cursors = %v, want none set", canvas.cursors)
		}
	})

	t.Run("pointer over element", func(t *testing.T) {
		paintCtx := vm.NewContext(pg, vm.PassPaint, progStart, 10000, 16)
		canvas := &fakeCanvas{}
		input := fakeInputState{hover: map[uint64]bool{rootID: true}}
		if _, err := Run(paintCtx, lres.Root, lres.ByID, input, canvas, noShaper{}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(canvas.cursors) != 1 || canvas.cursors[0] != vm.CursorPointer {
			t.Errorf("cursors = %v, want [CursorPointer]", canvas.cursors)
		}
	})
}
