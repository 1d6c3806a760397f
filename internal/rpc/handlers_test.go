package rpc

import (
	"errors"
	"testing"

	"github.com/waylayer/uibackend/internal/alloc"
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/word"
)

func newHandlersForTest(t *testing.T) (*Handlers, *page.Page) {
	t.Helper()
	pg, err := page.NewFromBuffer(make([]byte, page.MinPageSize))
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}
	return NewHandlers(pg), pg
}

func TestHandlers_AlocDeallocRoundTrip(t *testing.T) {
	h, _ := newHandlersForTest(t)

	ptr, err := h.Aloc(64)
	if err != nil {
		t.Fatalf("Aloc: %v", err)
	}
	if !word.Aligned(ptr) {
		t.Errorf("Aloc returned unaligned pointer %d", ptr)
	}

	if err := h.Dealoc(ptr); err != nil {
		t.Fatalf("Dealoc: %v", err)
	}
}

func TestHandlers_DeallocUnknownPointer(t *testing.T) {
	h, _ := newHandlersForTest(t)

	err := h.Dealoc(123456)
	if !errors.Is(err, alloc.ErrUnknownPtr) {
		t.Errorf("Dealoc(unknown) = %v, want ErrUnknownPtr", err)
	}
}

func TestHandlers_SetRoot_AcceptsEnterPointer(t *testing.T) {
	h, pg := newHandlersForTest(t)

	ptr, err := h.Aloc(word.TaggedSize)
	if err != nil {
		t.Fatalf("Aloc: %v", err)
	}
	if err := pg.WriteTagged(ptr, word.Enter, word.RawFromUint(0)); err != nil {
		t.Fatalf("WriteTagged: %v", err)
	}

	if err := h.SetRoot(ptr); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	if pg.Root() != ptr {
		t.Errorf("Root() = %d, want %d", pg.Root(), ptr)
	}
}

func TestHandlers_SetRoot_RejectsMisalignedPointer(t *testing.T) {
	h, _ := newHandlersForTest(t)

	if err := h.SetRoot(1); !errors.Is(err, ErrBadRoot) {
		t.Errorf("SetRoot(1) = %v, want ErrBadRoot", err)
	}
}

func TestHandlers_SetRoot_RejectsOutOfBoundsPointer(t *testing.T) {
	h, pg := newHandlersForTest(t)

	beyond := uint64(len(pg.Bytes())) + word.Size
	if err := h.SetRoot(beyond); !errors.Is(err, ErrBadRoot) {
		t.Errorf("SetRoot(beyond end) = %v, want ErrBadRoot", err)
	}
}

func TestHandlers_SetRoot_RejectsNonEnterTag(t *testing.T) {
	h, pg := newHandlersForTest(t)

	ptr, err := h.Aloc(word.TaggedSize)
	if err != nil {
		t.Fatalf("Aloc: %v", err)
	}
	if err := pg.WriteTagged(ptr, word.Rect, word.RawFromFloat32(1)); err != nil {
		t.Fatalf("WriteTagged: %v", err)
	}

	if err := h.SetRoot(ptr); !errors.Is(err, ErrBadRoot) {
		t.Errorf("SetRoot(non-Enter) = %v, want ErrBadRoot", err)
	}
}

func TestHandlers_SetRoot_SignalsReady(t *testing.T) {
	h, pg := newHandlersForTest(t)

	ptr, err := h.Aloc(word.TaggedSize)
	if err != nil {
		t.Fatalf("Aloc: %v", err)
	}
	if err := pg.WriteTagged(ptr, word.Enter, word.RawFromUint(0)); err != nil {
		t.Fatalf("WriteTagged: %v", err)
	}
	if err := h.SetRoot(ptr); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	ok, err := pg.WaitReady(0)
	if err != nil || !ok {
		t.Fatalf("WaitReady = %v, %v, want true, nil", ok, err)
	}
}
