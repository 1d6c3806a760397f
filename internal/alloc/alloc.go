// Package alloc implements the server-side linked-list allocator that
// backs the aloc/dealoc RPCs (spec.md §4.B). It is a free-list allocator
// over a byte-addressed arena embedded in the shared page: each block is
// prefixed by a [size][next_free] header, free blocks are threaded through
// next_free, and allocated blocks are simply absent from that chain.
package alloc

import (
	"errors"
	"fmt"

	"github.com/waylayer/uibackend/internal/word"
)

// HeaderSize is the per-block header: [size: uW][next_free: uW]. Allocated
// blocks only ever have their size word read back; the second word is free
// for the allocator to leave stale once a block leaves the free list.
const HeaderSize = 2 * word.Size

// splitThreshold is the minimum remaining payload (header + >=1 word) that
// justifies carving a new free block off the tail of a larger one
// (spec.md §4.B and the "first-fit with split threshold 3*W" boundary test).
const splitThreshold = 3 * word.Size

// ErrNoFit is returned by Alloc when no free block is large enough.
var ErrNoFit = errors.New("alloc: insufficient space")

// ErrUnknownPtr is returned by Dealoc when ptr does not name a block this
// allocator currently considers live.
var ErrUnknownPtr = errors.New("alloc: unknown pointer")

// Allocator is a free-list allocator over a sub-region ("arena") of a
// shared byte buffer. It is not safe for concurrent use on its own — the
// caller (the page's Lock semaphore, §4.A) is expected to serialize all
// mutation, matching spec.md §5's "allocator mutations occur only while
// holding Lock".
type Allocator struct {
	buf      []byte
	arenaOff uint64 // offset of the free-list head pointer
	headOff  uint64 // offset of the head pointer word itself (== arenaOff)
	blocksOff uint64 // offset where the first block header may live

	live map[uint64]uint64 // payload ptr -> block header offset, for unknown-ptr / double-free detection
}

// New creates an allocator over buf, with its head pointer stored at
// arenaOff (one word) and its block arena starting immediately after.
func New(buf []byte, arenaOff uint64) *Allocator {
	return &Allocator{
		buf:       buf,
		arenaOff:  arenaOff,
		headOff:   arenaOff,
		blocksOff: arenaOff + word.Size,
		live:      make(map[uint64]uint64),
	}
}

// Init formats the arena as a single free block spanning every remaining
// byte of buf, and points the free-list head at it.
func (a *Allocator) Init() error {
	if a.blocksOff+HeaderSize > uint64(len(a.buf)) {
		return fmt.Errorf("alloc: arena at %d too small for a single block header", a.arenaOff)
	}
	size := uint64(len(a.buf)) - a.blocksOff - HeaderSize
	if err := a.writeHeader(a.blocksOff, size, word.NullPtr); err != nil {
		return err
	}
	a.setHead(a.blocksOff)
	a.live = make(map[uint64]uint64)
	return nil
}

func (a *Allocator) head() uint64 {
	return word.Tagged{Raw: rawAt(a.buf, a.headOff)}.AsUint()
}

func (a *Allocator) setHead(off uint64) {
	putUint(a.buf, a.headOff, off)
}

func (a *Allocator) readHeader(off uint64) (size, next uint64, err error) {
	if off+HeaderSize > uint64(len(a.buf)) {
		return 0, 0, fmt.Errorf("alloc: block header at %d exceeds buffer", off)
	}
	size = getUint(a.buf, off)
	next = getUint(a.buf, off+word.Size)
	return size, next, nil
}

func (a *Allocator) writeHeader(off, size, next uint64) error {
	if off+HeaderSize > uint64(len(a.buf)) {
		return fmt.Errorf("alloc: block header write at %d exceeds buffer", off)
	}
	putUint(a.buf, off, size)
	putUint(a.buf, off+word.Size, next)
	return nil
}

// Alloc rounds n up to a W multiple, first-fit-scans the free list, splits
// the chosen block if the remainder would be at least 3*W, and returns the
// payload offset.
func (a *Allocator) Alloc(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("alloc: cannot allocate 0 bytes")
	}
	n = word.AlignUp(n)

	var prev uint64 // header offset of the free-list predecessor, 0 if head
	cur := a.head()
	for cur != word.NullPtr {
		size, next, err := a.readHeader(cur)
		if err != nil {
			return 0, err
		}
		if size >= n {
			if err := a.unlink(prev, cur, next); err != nil {
				return 0, err
			}
			if size-n >= splitThreshold {
				remainderOff := cur + HeaderSize + n
				remainderSize := size - n - HeaderSize
				if err := a.writeHeader(remainderOff, remainderSize, word.NullPtr); err != nil {
					return 0, err
				}
				a.insertFront(remainderOff)
				if err := a.writeHeader(cur, n, 0); err != nil {
					return 0, err
				}
			}
			// size >= n but no split: hand out the whole block untouched
			// (spec.md §8 boundary: "allocating the entire free block
			// returns the block without splitting").
			ptr := cur + HeaderSize
			a.live[ptr] = cur
			return ptr, nil
		}
		prev, cur = cur, next
	}
	return 0, ErrNoFit
}

// unlink removes the free-list node at off (whose header's next field is
// next) from the chain, relinking prev (or the head) around it.
func (a *Allocator) unlink(prev, off, next uint64) error {
	if prev == word.NullPtr {
		a.setHead(next)
		return nil
	}
	_, _, err := a.readHeader(prev)
	if err != nil {
		return err
	}
	prevSize := getUint(a.buf, prev)
	return a.writeHeader(prev, prevSize, next)
}

// insertFront pushes the block header at off onto the head of the free
// list.
func (a *Allocator) insertFront(off uint64) {
	size := getUint(a.buf, off)
	putUint(a.buf, off, size)
	putUint(a.buf, off+word.Size, a.head())
	a.setHead(off)
}

// Dealoc pushes the block named by ptr onto the free list and coalesces it
// with any adjacent free neighbor reachable by walking that list.
func (a *Allocator) Dealoc(ptr uint64) error {
	blockOff, ok := a.live[ptr]
	if !ok {
		return ErrUnknownPtr
	}
	delete(a.live, ptr)

	size, _, err := a.readHeader(blockOff)
	if err != nil {
		return err
	}

	// Right-coalesce: absorb every physically-contiguous free block to the
	// right, one at a time, until the chain is broken.
	for {
		rightOff := blockOff + HeaderSize + size
		rsize, found, err := a.takeFromFreeList(rightOff)
		if err != nil {
			return err
		}
		if !found {
			break
		}
		size += HeaderSize + rsize
	}

	// Left-coalesce: scan the free list for a block whose payload ends
	// exactly where this one begins, and fold this block into it instead
	// of inserting a new node.
	if leftOff, leftSize, found := a.findLeftNeighbor(blockOff); found {
		newSize := leftSize + HeaderSize + size
		_, leftNext, err := a.readHeader(leftOff)
		if err != nil {
			return err
		}
		return a.writeHeader(leftOff, newSize, leftNext)
	}

	if err := a.writeHeader(blockOff, size, word.NullPtr); err != nil {
		return err
	}
	a.insertFront(blockOff)
	return nil
}

// takeFromFreeList removes the free block at exactly off from the chain (if
// present) and returns its size.
func (a *Allocator) takeFromFreeList(off uint64) (size uint64, found bool, err error) {
	var prev uint64
	cur := a.head()
	for cur != word.NullPtr {
		s, next, err := a.readHeader(cur)
		if err != nil {
			return 0, false, err
		}
		if cur == off {
			if err := a.unlink(prev, cur, next); err != nil {
				return 0, false, err
			}
			return s, true, nil
		}
		prev, cur = cur, next
	}
	return 0, false, nil
}

// findLeftNeighbor scans the free list for a block whose payload ends
// exactly at target (i.e. it is physically immediately to the left of the
// block being freed).
func (a *Allocator) findLeftNeighbor(target uint64) (off, size uint64, found bool) {
	cur := a.head()
	for cur != word.NullPtr {
		s, next, err := a.readHeader(cur)
		if err != nil {
			return 0, 0, false
		}
		if cur+HeaderSize+s == target {
			return cur, s, true
		}
		cur = next
	}
	return 0, 0, false
}

// FreeBytes sums the payload capacity of every block currently on the free
// list — used by tests asserting the round-trip property (spec.md §8 #4).
func (a *Allocator) FreeBytes() uint64 {
	var total uint64
	cur := a.head()
	for cur != word.NullPtr {
		size, next, err := a.readHeader(cur)
		if err != nil {
			return total
		}
		total += size
		cur = next
	}
	return total
}

func rawAt(buf []byte, off uint64) [word.Size]byte {
	var raw [word.Size]byte
	copy(raw[:], buf[off:off+word.Size])
	return raw
}

func getUint(buf []byte, off uint64) uint64 {
	return word.Tagged{Raw: rawAt(buf, off)}.AsUint()
}

func putUint(buf []byte, off, v uint64) {
	raw := word.RawFromUint(v)
	copy(buf[off:off+word.Size], raw[:])
}
