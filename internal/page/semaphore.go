package page

import "time"

// Semaphore is the minimal operation set the shared-page synchronization
// protocol (spec.md §4.A) needs from the two named POSIX semaphores: Lock
// (mutual exclusion, initial count 1) and Ready (edge-triggered redraw
// signal, initial count 0).
type Semaphore interface {
	// Wait blocks until the semaphore can be decremented.
	Wait() error
	// WaitTimeout blocks until the semaphore can be decremented or d
	// elapses, whichever comes first. ok is false on timeout.
	WaitTimeout(d time.Duration) (ok bool, err error)
	// TryWait decrements the semaphore without blocking. ok is false if
	// the semaphore was already at zero.
	TryWait() (ok bool, err error)
	// Post increments the semaphore, waking one waiter if any.
	Post() error
	// Close releases the process's handle to the semaphore. It does not
	// unlink the underlying named object.
	Close() error
}

// DrainReady coalesces every pending post on a Ready-style semaphore into a
// single logical signal, per spec.md §4.A: "If Ready is posted multiple
// times between frames, coalesce to one redraw."
func DrainReady(sem Semaphore) {
	for {
		ok, err := sem.TryWait()
		if err != nil || !ok {
			return
		}
	}
}
