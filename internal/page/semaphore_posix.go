package page

/*
#cgo LDFLAGS: -lpthread
#include <semaphore.h>
#include <fcntl.h>
#include <errno.h>
#include <time.h>

static sem_t *px_open(const char *name, unsigned int value, int *errnum) {
	sem_t *s = sem_open(name, O_CREAT, 0600, value);
	if (s == SEM_FAILED) {
		*errnum = errno;
		return NULL;
	}
	return s;
}

static int px_wait(sem_t *s) {
	int rc;
	do {
		rc = sem_wait(s);
	} while (rc != 0 && errno == EINTR);
	return rc;
}

static int px_trywait(sem_t *s, int *errnum) {
	int rc = sem_trywait(s);
	if (rc != 0) {
		*errnum = errno;
	}
	return rc;
}

static int px_timedwait(sem_t *s, long nanos, int *errnum) {
	struct timespec ts;
	if (clock_gettime(CLOCK_REALTIME, &ts) != 0) {
		*errnum = errno;
		return -1;
	}
	ts.tv_sec += nanos / 1000000000L;
	ts.tv_nsec += nanos % 1000000000L;
	if (ts.tv_nsec >= 1000000000L) {
		ts.tv_nsec -= 1000000000L;
		ts.tv_sec += 1;
	}
	int rc;
	do {
		rc = sem_timedwait(s, &ts);
	} while (rc != 0 && errno == EINTR);
	if (rc != 0) {
		*errnum = errno;
	}
	return rc;
}
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"
)

// posixSemaphore wraps a named POSIX semaphore (sem_open/sem_wait/sem_post),
// the mechanism spec.md §4.A specifies for Lock and Ready. The corpus has no
// pure-Go binding for named semaphores, so this is grounded directly on the
// original implementation's libc usage (original_source/src/shm.rs) and on
// the cgo/C-ABI pattern chazu-maggie's cmd/tt uses to reach a native library.
type posixSemaphore struct {
	handle *C.sem_t
	name   string
}

// OpenSemaphore opens (creating if absent) the named semaphore, seeding it
// at initial if this process is the one that creates it. name should follow
// POSIX sem_open convention: a leading slash, e.g. "/waylayer-sess1-lock".
func OpenSemaphore(name string, initial uint32) (Semaphore, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var errnum C.int
	h := C.px_open(cname, C.uint(initial), &errnum)
	if h == nil {
		return nil, fmt.Errorf("page: sem_open(%s): errno %d", name, errnum)
	}
	return &posixSemaphore{handle: h, name: name}, nil
}

func (s *posixSemaphore) Wait() error {
	if C.px_wait(s.handle) != 0 {
		return fmt.Errorf("page: sem_wait(%s) failed", s.name)
	}
	return nil
}

func (s *posixSemaphore) TryWait() (bool, error) {
	var errnum C.int
	rc := C.px_trywait(s.handle, &errnum)
	if rc == 0 {
		return true, nil
	}
	if errnum == C.EAGAIN {
		return false, nil
	}
	return false, fmt.Errorf("page: sem_trywait(%s): errno %d", s.name, errnum)
}

func (s *posixSemaphore) WaitTimeout(d time.Duration) (bool, error) {
	var errnum C.int
	rc := C.px_timedwait(s.handle, C.long(d.Nanoseconds()), &errnum)
	if rc == 0 {
		return true, nil
	}
	if errnum == C.ETIMEDOUT {
		return false, nil
	}
	return false, fmt.Errorf("page: sem_timedwait(%s): errno %d", s.name, errnum)
}

func (s *posixSemaphore) Post() error {
	if C.sem_post(s.handle) != 0 {
		return fmt.Errorf("page: sem_post(%s) failed", s.name)
	}
	return nil
}

func (s *posixSemaphore) Close() error {
	if C.sem_close(s.handle) != 0 {
		return fmt.Errorf("page: sem_close(%s) failed", s.name)
	}
	return nil
}

// UnlinkSemaphore removes the named semaphore object from the system,
// matching spec.md §4.J's "unlink any stale shm/sem objects left behind by a
// crashed prior session before creating new ones".
func UnlinkSemaphore(name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.sem_unlink(cname)
	return nil
}
