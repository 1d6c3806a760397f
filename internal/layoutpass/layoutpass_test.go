package layoutpass

import (
	"testing"

	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

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

func TestRun_BuildsTreeAndResolvesLayout(t *testing.T) {
	buf := make([]byte, 512)
	off := uint64(progStart)
	off = tagAt(buf, off, word.Enter, word.RawFromUint(0))
	off = tagAt(buf, off, word.Width, word.RawFromUint(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(150))
	off = tagAt(buf, off, word.Height, word.RawFromUint(0))
	off = tagAt(buf, off, word.Pxs, word.RawFromFloat32(100))
	off = tagAt(buf, off, word.Leave, word.RawFromUint(0))
	_ = off

	pg, err := page.NewFromBuffer(buf)
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}
	ctx := vm.NewContext(pg, vm.PassLayout, progStart, 10000, 16)

	res, err := Run(ctx, nil, 800, 600)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Root == nil {
		t.Fatal("Root is nil")
	}
	rect := res.Root.Rect()
	if rect.Width != 150 || rect.Height != 100 {
		t.Errorf("root rect = %+v, want 150x100", rect)
	}
}

func TestRun_NestedElementsAttachToParent(t *testing.T) {
	buf := make([]byte, 512)
	off := uint64(progStart)
	off = tagAt(buf, off, word.Enter, word.RawFromUint(0))
	off = tagAt(buf, off, word.Enter, word.RawFromUint(0))
	off = tagAt(buf, off, word.Leave, word.RawFromUint(0))
	off = tagAt(buf, off, word.Leave, word.RawFromUint(0))
	_ = off

	pg, err := page.NewFromBuffer(buf)
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}
	ctx := vm.NewContext(pg, vm.PassLayout, progStart, 10000, 16)

	res, err := Run(ctx, nil, 100, 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(res.Root.Children))
	}
	if res.ByID[1] != res.Root.Children[0] {
		t.Error("ByID lookup does not match the tree-walked child")
	}
}
