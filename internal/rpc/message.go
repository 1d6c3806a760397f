// Package rpc implements Component I (spec.md §6): the length-prefixed
// JSON protocol over the Unix domain socket between client and server.
// Framing and message shapes follow spec.md exactly; the request/response
// pairing guarantee (§8 property 6) comes from Server.Serve processing one
// ask at a time on a single connection, the same way the teacher's gopls
// proxy serializes one request at a time over a pipe.
package rpc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Ask is a client -> server request (spec.md §6).
type Ask struct {
	Kind string          `json:"kind"`
	Fn   string          `json:"fn"`
	Args json.RawMessage `json:"args"`
}

// Return is a server -> client success response.
type Return struct {
	Kind   string `json:"kind"`
	Return any    `json:"return"`
}

// ErrorMessage is a server -> client failure response.
type ErrorMessage struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Event is a server -> client event notification, emitted after a frame's
// Paint Pass completes, in encounter order (spec.md §4.F, §8 property 6).
type Event struct {
	Kind  string `json:"kind"`
	EvtID uint64 `json:"evt_id"`
}

func NewReturn(value any) Return     { return Return{Kind: "return", Return: value} }
func NewError(msg string) ErrorMessage { return ErrorMessage{Kind: "error", Error: msg} }
func NewEvent(evtID uint64) Event    { return Event{Kind: "event", EvtID: evtID} }

// ReadAsk reads one length-prefixed frame from r and unmarshals it as an
// Ask. It returns io.EOF unchanged so callers can tell a clean connection
// close from a framing error.
//
// A failure reading the frame itself (I/O error, short body) leaves the
// connection desynchronized and is returned as-is — the caller should give
// up on the connection. A frame that reads cleanly but decodes to malformed
// JSON or an unexpected kind is spec.md §7's "Protocol" error kind: framing
// is length-prefixed, so the byte boundary for the *next* frame is already
// known, and the caller can report the error and keep serving rather than
// drop the connection. These decode failures are returned as *ProtocolError
// so Server.Serve can tell the two apart.
func ReadAsk(r io.Reader) (Ask, error) {
	var a Ask
	raw, err := readFrame(r)
	if err != nil {
		return a, err
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return a, protocolErrorf("malformed JSON: %v", err)
	}
	if a.Kind != "ask" {
		return a, protocolErrorf("expected kind \"ask\", got %q", a.Kind)
	}
	return a, nil
}

// WriteMessage marshals v and writes it as one length-prefixed frame.
func WriteMessage(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("rpc: marshal message: %w", err)
	}
	return writeFrame(w, body)
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("rpc: short frame body: %w", err)
	}
	return body, nil
}

func writeFrame(w io.Writer, body []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("rpc: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("rpc: write frame body: %w", err)
	}
	return nil
}
