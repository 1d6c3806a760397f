package rpc

import "fmt"

// ProtocolError covers malformed JSON, unknown fn, and missing arguments
// (spec.md §7's "Protocol" error kind).
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("rpc: protocol error: %s", e.Reason) }

func protocolErrorf(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}
