package page

import (
	"testing"
	"time"

	"github.com/waylayer/uibackend/internal/word"
)

// newPageForTest builds a Page over a plain heap buffer with in-process
// semaphores, exercising the same offset layout and Lock/Ready protocol as
// Create without touching real shared memory or POSIX semaphore objects.
func newPageForTest(t *testing.T, size int) *Page {
	t.Helper()
	p, err := NewFromBuffer(make([]byte, size))
	if err != nil {
		t.Fatalf("NewFromBuffer: %v", err)
	}
	return p
}

func TestPage_RootRoundTrip(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	if p.Root() != word.NullPtr {
		t.Errorf("Root() = %d before any frame, want NullPtr", p.Root())
	}
	p.SetRoot(4096)
	if p.Root() != 4096 {
		t.Errorf("Root() = %d, want 4096", p.Root())
	}
}

func TestPage_TaggedWordRoundTrip(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	off := offArena + 64
	if err := p.WriteTagged(off, word.Rect, word.RawFromFloat32(3.5)); err != nil {
		t.Fatalf("WriteTagged: %v", err)
	}
	tw, err := p.ReadTagged(off)
	if err != nil {
		t.Fatalf("ReadTagged: %v", err)
	}
	if tw.Tag != word.Rect || tw.AsFloat32() != 3.5 {
		t.Errorf("got %+v", tw)
	}
}

func TestPage_AcquireReleaseFrame(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	if err := p.AcquireFrame(); err != nil {
		t.Fatalf("AcquireFrame: %v", err)
	}
	if err := p.ReleaseFrame(); err != nil {
		t.Fatalf("ReleaseFrame: %v", err)
	}
	// Lock started at 1, so a second acquire should also succeed
	// immediately now that it has been released.
	if err := p.AcquireFrame(); err != nil {
		t.Fatalf("second AcquireFrame: %v", err)
	}
}

func TestPage_AcquireFrame_WatchdogTimesOut(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	// Drain the initial count of 1 so the next acquire has nothing to take.
	if err := p.AcquireFrame(); err != nil {
		t.Fatalf("initial AcquireFrame: %v", err)
	}
	start := time.Now()
	err := p.AcquireFrame()
	if err == nil {
		t.Fatal("expected watchdog error, got nil")
	}
	if elapsed := time.Since(start); elapsed < LockWatchdog {
		t.Errorf("returned after %s, want >= watchdog %s", elapsed, LockWatchdog)
	}
}

func TestPage_WaitReady_CoalescesMultiplePosts(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	for i := 0; i < 5; i++ {
		if err := p.SignalReady(); err != nil {
			t.Fatalf("SignalReady #%d: %v", i, err)
		}
	}
	ok, err := p.WaitReady(50 * time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("WaitReady = %v, %v, want true, nil", ok, err)
	}
	// A second wait should time out: the five posts coalesced into one wakeup.
	ok, err = p.WaitReady(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("second WaitReady error: %v", err)
	}
	if ok {
		t.Error("second WaitReady should have timed out after coalescing")
	}
}

func TestPage_BytesSharesAllocatorBacking(t *testing.T) {
	p := newPageForTest(t, MinPageSize)
	ptr, err := p.Alloc.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	copy(p.Bytes()[ptr:ptr+5], []byte("hello"))
	if string(p.Bytes()[ptr:ptr+5]) != "hello" {
		t.Error("Bytes() should view the same backing array the allocator writes into")
	}
}
