// Package session derives the names of the four POSIX objects a session
// creates (spec.md §6) from a session id, and generates a fresh id when
// the caller does not supply one (SPEC_FULL.md §4.J).
package session

import "github.com/google/uuid"

// Names holds the derived names for one session's POSIX objects.
type Names struct {
	ID         string
	ShmName    string // shared memory object
	SocketPath string // Unix domain socket
	LockSem    string // named semaphore "lock"
	ReadySem   string // named semaphore "ready"
}

// New derives Names from id. An empty id generates a fresh uuid v4 string
// (SPEC_FULL.md §4.J); callers that want deterministic names for tests
// supply their own id. ShmName/LockSem/ReadySem follow the exact
// "/waylayer-<id>[-lock|-ready]" convention internal/page.Create derives
// internally, so a client can compute where to attach without the server
// handing the names back over the wire.
func New(id string) Names {
	if id == "" {
		id = uuid.NewString()
	}
	base := "/waylayer-" + id
	return Names{
		ID:         id,
		ShmName:    base,
		SocketPath: "/tmp/" + id + ".sock",
		LockSem:    base + "-lock",
		ReadySem:   base + "-ready",
	}
}
