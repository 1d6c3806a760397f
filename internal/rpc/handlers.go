package rpc

import (
	"errors"
	"fmt"

	"github.com/waylayer/uibackend/internal/alloc"
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/word"
)

// ErrBadRoot covers spec.md §7's "Root" error kind: set_root given a
// pointer that is not W-aligned, out of bounds, or does not name an Enter.
var ErrBadRoot = errors.New("rpc: invalid root pointer")

// Handlers implements aloc/dealoc/set_root against one page (spec.md §6).
// It holds no lock of its own — Server.Serve is responsible for running
// every call with the page's frame lock held (spec.md §6: "all accepted
// only under Lock").
type Handlers struct {
	Page *page.Page
}

func NewHandlers(pg *page.Page) *Handlers { return &Handlers{Page: pg} }

func (h *Handlers) Aloc(n uint64) (uint64, error) {
	ptr, err := h.Page.Alloc.Alloc(n)
	if err != nil {
		if errors.Is(err, alloc.ErrNoFit) {
			return 0, err
		}
		return 0, fmt.Errorf("rpc: aloc: %w", err)
	}
	return ptr, nil
}

func (h *Handlers) Dealoc(ptr uint64) error {
	if err := h.Page.Alloc.Dealoc(ptr); err != nil {
		if errors.Is(err, alloc.ErrUnknownPtr) {
			return err
		}
		return fmt.Errorf("rpc: dealoc: %w", err)
	}
	return nil
}

// SetRoot validates ptr per spec.md §7 ("non-W-aligned or out-of-bounds
// pointer, or a tag that is not Enter") before committing it and posting
// Ready (spec.md §6: "Triggers a Ready post equivalent").
func (h *Handlers) SetRoot(ptr uint64) error {
	if !word.Aligned(ptr) || ptr >= uint64(len(h.Page.Bytes())) {
		return ErrBadRoot
	}
	tw, err := h.Page.ReadTagged(ptr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRoot, err)
	}
	if tw.Tag != word.Enter {
		return ErrBadRoot
	}
	h.Page.SetRoot(ptr)
	return h.Page.SignalReady()
}
