package page

import "time"

// memSemaphore is an in-process counting semaphore implementing the same
// Semaphore interface as the real POSIX one. It backs unit tests that
// exercise the Lock/Ready protocol's logic (watchdog timeout, Ready
// coalescing, ask/response ordering) without needing a real shared-memory
// segment or native semaphore object.
type memSemaphore struct {
	ch chan struct{}
}

// NewMemSemaphore returns a Semaphore with the given initial count, for use
// in tests standing in for OpenSemaphore.
func NewMemSemaphore(initial uint32) Semaphore {
	ch := make(chan struct{}, 1<<20)
	for i := uint32(0); i < initial; i++ {
		ch <- struct{}{}
	}
	return &memSemaphore{ch: ch}
}

func (s *memSemaphore) Wait() error {
	<-s.ch
	return nil
}

func (s *memSemaphore) TryWait() (bool, error) {
	select {
	case <-s.ch:
		return true, nil
	default:
		return false, nil
	}
}

func (s *memSemaphore) WaitTimeout(d time.Duration) (bool, error) {
	select {
	case <-s.ch:
		return true, nil
	case <-time.After(d):
		return false, nil
	}
}

func (s *memSemaphore) Post() error {
	select {
	case s.ch <- struct{}{}:
	default:
	}
	return nil
}

func (s *memSemaphore) Close() error {
	return nil
}
