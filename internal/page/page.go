// Package page implements the cross-process shared page and the Lock/Ready
// semaphore pair that synchronize a client and this rendering server
// (spec.md §4.A). The page is a single POSIX shared-memory segment of at
// least MinPageSize bytes; all typed access to its contents funnels through
// this package so that the interpreter, allocator, and RPC layer never
// touch raw byte offsets directly.
package page

import (
	"fmt"
	"time"

	"github.com/tliron/commonlog"

	"github.com/waylayer/uibackend/internal/alloc"
	"github.com/waylayer/uibackend/internal/word"
)

// LockWatchdog is the maximum time a Lock acquisition may block before this
// process treats the peer as wedged and surfaces an error, per spec.md
// §4.A's "acquiring Lock waits at most 100ms before giving up".
const LockWatchdog = 100 * time.Millisecond

// Fixed offsets within the page, ahead of the allocator's own arena:
//
//	0   NullPtr sentinel (always zero, never allocated over)
//	W   root element pointer (0 == no root submitted yet)
//	2W  allocator free-list head
//	3W  arena start
const (
	offNull = 0
	offRoot = word.Size
	offHead = 2 * word.Size
	offArena = 3 * word.Size
)

// Page owns the mapped shared-memory buffer, the Lock/Ready semaphore pair,
// and the allocator built over the page's arena region.
type Page struct {
	shm   *shmHandle
	Lock  Semaphore
	Ready Semaphore
	Alloc *alloc.Allocator

	log commonlog.Logger
}

// Create establishes a brand-new session page: it unlinks any stale
// shared-memory and semaphore objects left by a crashed prior run under the
// same name (spec.md §4.J), then creates and formats a fresh page.
func Create(sessionName string, size int, log commonlog.Logger) (*Page, error) {
	shmName := "/waylayer-" + sessionName
	lockName := shmName + "-lock"
	readyName := shmName + "-ready"

	unlinkSharedMemory(shmName)
	UnlinkSemaphore(lockName)
	UnlinkSemaphore(readyName)

	shm, err := createSharedMemory(shmName, size)
	if err != nil {
		return nil, err
	}
	lock, err := OpenSemaphore(lockName, 1)
	if err != nil {
		return nil, fmt.Errorf("page: open lock semaphore: %w", err)
	}
	ready, err := OpenSemaphore(readyName, 0)
	if err != nil {
		return nil, fmt.Errorf("page: open ready semaphore: %w", err)
	}

	p := &Page{shm: shm, Lock: lock, Ready: ready, log: log}
	p.Alloc = alloc.New(shm.buf, offHead)
	if err := p.Alloc.Init(); err != nil {
		return nil, err
	}
	p.putUint(offRoot, word.NullPtr)
	if log != nil {
		log.Info("created shared page", "name", sessionName, "bytes", size)
	}
	return p, nil
}

// NewFromBuffer builds a Page directly over an in-memory buffer with
// in-process semaphores, for components (the VM, layout/paint passes, RPC
// handlers) that need a *Page in tests without a real shared-memory segment
// or native semaphore object behind it.
func NewFromBuffer(buf []byte) (*Page, error) {
	p := &Page{
		shm:   &shmHandle{buf: buf, name: "mem"},
		Lock:  NewMemSemaphore(1),
		Ready: NewMemSemaphore(0),
	}
	p.Alloc = alloc.New(buf, offHead)
	if err := p.Alloc.Init(); err != nil {
		return nil, err
	}
	p.putUint(offRoot, word.NullPtr)
	return p, nil
}

// Close unmaps the page and releases (without unlinking) this process's
// semaphore handles.
func (p *Page) Close() error {
	if err := p.Lock.Close(); err != nil {
		return err
	}
	if err := p.Ready.Close(); err != nil {
		return err
	}
	return p.shm.Close()
}

// Bytes exposes the raw backing buffer for components (the VM, the RPC
// aloc/dealoc handlers) that need direct slices into page memory.
func (p *Page) Bytes() []byte {
	return p.shm.buf
}

// Root returns the current root element pointer, or word.NullPtr if no
// frame has been submitted yet.
func (p *Page) Root() uint64 {
	return p.getUint(offRoot)
}

// SetRoot stores the root element pointer. Callers must hold Lock.
func (p *Page) SetRoot(ptr uint64) {
	p.putUint(offRoot, ptr)
}

// ReadTagged decodes the tagged word at off.
func (p *Page) ReadTagged(off uint64) (word.Tagged, error) {
	return word.DecodeTagged(p.shm.buf, off)
}

// WriteTagged encodes a tagged word at off. Callers must hold Lock.
func (p *Page) WriteTagged(off uint64, tag word.Tag, raw [word.Size]byte) error {
	return word.EncodeTagged(p.shm.buf, off, tag, raw)
}

// ReadArray decodes the Array header and payload at off.
func (p *Page) ReadArray(off uint64) (data []byte, nextOff uint64, err error) {
	return word.DecodeArray(p.shm.buf, off)
}

// AcquireFrame blocks on Lock with the 100ms watchdog spec.md §4.A mandates
// for every frame boundary. It returns an error rather than blocking
// forever if the peer appears wedged.
func (p *Page) AcquireFrame() error {
	ok, err := p.Lock.WaitTimeout(LockWatchdog)
	if err != nil {
		return fmt.Errorf("page: acquiring lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("page: lock watchdog (%s) expired, peer may be wedged", LockWatchdog)
	}
	return nil
}

// ReleaseFrame posts Lock, handing control back to the peer.
func (p *Page) ReleaseFrame() error {
	return p.Lock.Post()
}

// WaitReady blocks until Ready is posted (coalescing any extra posts that
// accumulated while this process was busy painting the previous frame into
// a single wakeup), or until timeout elapses. A zero timeout blocks
// indefinitely.
func (p *Page) WaitReady(timeout time.Duration) (ok bool, err error) {
	if timeout <= 0 {
		if err := p.Ready.Wait(); err != nil {
			return false, err
		}
	} else {
		ok, err = p.Ready.WaitTimeout(timeout)
		if err != nil || !ok {
			return ok, err
		}
	}
	DrainReady(p.Ready)
	return true, nil
}

// SignalReady posts Ready, requesting a redraw. Repeated calls between
// frames collapse into the single wakeup WaitReady delivers.
func (p *Page) SignalReady() error {
	return p.Ready.Post()
}

// getUint/putUint access a single raw W-byte word (not a 2W tagged word) —
// the same bookkeeping-slot format the allocator uses for its own size and
// next_free fields.
func (p *Page) getUint(off uint64) uint64 {
	var raw [word.Size]byte
	copy(raw[:], p.shm.buf[off:off+word.Size])
	return word.Tagged{Raw: raw}.AsUint()
}

func (p *Page) putUint(off uint64, v uint64) {
	raw := word.RawFromUint(v)
	copy(p.shm.buf[off:off+word.Size], raw[:])
}
