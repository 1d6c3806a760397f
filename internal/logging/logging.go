// Package logging wires up structured logging via tliron/commonlog
// (SPEC_FULL.md §4.L), the same backend chazu-maggie's LSP server
// registers with a blank import of commonlog/simple before asking for a
// named scope logger.
package logging

import (
	"sync"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var initOnce sync.Once

// Verbosity controls how much commonlog's simple backend writes; 1 is
// "info and above", matching the default a long-running server process
// wants without per-frame chatter.
const Verbosity = 1

func initialize() {
	initOnce.Do(func() {
		commonlog.Initialize(Verbosity, "")
	})
}

// New returns a logger scoped to name, e.g. "frame", "rpc", "session" —
// mid-frame aborts and fatal conditions (spec.md §7) log through whichever
// scope owns the code path that detected them.
func New(scope string) commonlog.Logger {
	initialize()
	return commonlog.GetLogger(scope)
}
