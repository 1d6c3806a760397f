package page

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// MinPageSize is the smallest shared page spec.md §4.A permits: "at least
// 32 KiB, to leave room for a usable arena after the fixed header."
const MinPageSize = 32 * 1024

// shmHandle owns the backing file descriptor and mmap'd region for a POSIX
// shared-memory object (shm_open + mmap), mirroring original_source's
// SHMHandle (shm.rs) and the mmap usage pddb's db.go makes of
// syscall.Mmap over a regular file.
type shmHandle struct {
	name string
	fd   int
	buf  []byte
}

// createSharedMemory creates (or truncates and reuses) the named POSIX
// shared-memory object at size bytes and maps it read-write into this
// process, per spec.md §4.A. name must start with "/" per shm_open(3)
// convention, e.g. "/waylayer-<session>".
func createSharedMemory(name string, size int) (*shmHandle, error) {
	if size < MinPageSize {
		return nil, fmt.Errorf("page: requested size %d below MinPageSize %d", size, MinPageSize)
	}
	path := shmPath(name)
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("page: open shm object %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("page: ftruncate shm object %s: %w", name, err)
	}
	buf, err := syscall.Mmap(fd, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("page: mmap shm object %s: %w", name, err)
	}
	return &shmHandle{name: name, fd: fd, buf: buf}, nil
}

// openSharedMemory maps an already-created shared-memory object of the
// given size without truncating it, for a second process (e.g. a test
// client) attaching to an existing session's page.
func openSharedMemory(name string, size int) (*shmHandle, error) {
	path := shmPath(name)
	fd, err := unix.Open(path, unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("page: open shm object %s: %w", name, err)
	}
	buf, err := syscall.Mmap(fd, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("page: mmap shm object %s: %w", name, err)
	}
	return &shmHandle{name: name, fd: fd, buf: buf}, nil
}

func (h *shmHandle) Close() error {
	if err := syscall.Munmap(h.buf); err != nil {
		return fmt.Errorf("page: munmap %s: %w", h.name, err)
	}
	return unix.Close(h.fd)
}

// unlinkSharedMemory removes the shared-memory object from the filesystem
// namespace, matching spec.md §4.J's stale-object cleanup requirement.
func unlinkSharedMemory(name string) error {
	err := os.Remove(shmPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// shmPath maps a POSIX shm_open-style name ("/foo") onto this platform's
// shared-memory mount point, the way glibc's sem_open/shm_open implement
// named objects as files under /dev/shm on Linux.
func shmPath(name string) string {
	return "/dev/shm" + name
}
