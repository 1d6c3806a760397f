package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tliron/commonlog"
)

// Dispatcher is what Server.Serve calls into for each ask. *Handlers
// implements it against a real page; tests substitute a fake.
type Dispatcher interface {
	Aloc(n uint64) (uint64, error)
	Dealoc(ptr uint64) error
	SetRoot(ptr uint64) error
}

type alocArgs struct {
	N uint64 `json:"n"`
}

type dealocArgs struct {
	Ptr uint64 `json:"ptr"`
}

type setRootArgs struct {
	Ptr uint64 `json:"ptr"`
}

// FrameLock is satisfied by *sync.Mutex — Server.Serve takes it so that
// aloc/dealoc/set_root mutations serialize against the frame render loop,
// which holds the same lock while reading the page each frame (spec.md §6:
// RPC calls are "accepted only under Lock").
type FrameLock interface {
	Lock()
	Unlock()
}

// Server serves one client connection, one ask at a time — single-threaded
// processing is what gives spec.md §8 property 6 (ask/response pairing)
// for free, the same way the teacher's gopls proxy reads one request off
// the pipe before writing its reply.
type Server struct {
	rw   io.ReadWriter
	h    Dispatcher
	lock FrameLock
	log  commonlog.Logger
}

func NewServer(rw io.ReadWriter, h Dispatcher, lock FrameLock, log commonlog.Logger) *Server {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Server{rw: rw, h: h, lock: lock, log: log}
}

// Serve reads and answers asks until the connection closes or a framing
// error occurs. Protocol errors (malformed JSON, unknown fn, missing
// argument) are reported to the client and do not end the loop; only a
// read/write error on the connection itself does.
//
// Dispatch and the response write both happen while s.lock is held, not
// just the page mutation: the frame render loop flushes its fired events
// to this same connection under the same lock (spec.md §8 property 6), so
// a response write left unlocked here could interleave its bytes on the
// wire with a concurrent event flush.
func (s *Server) Serve() error {
	for {
		ask, err := ReadAsk(s.rw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var pe *ProtocolError
			if errors.As(err, &pe) {
				if s.log != nil {
					s.log.Warning("rpc framing error", "err", err)
				}
				if err := s.respondLocked(NewError(err.Error())); err != nil {
					return err
				}
				continue
			}
			return err
		}

		if err := s.dispatchAndRespond(ask); err != nil {
			return err
		}
	}
}

// respondLocked writes a response under s.lock, the same serialization
// dispatchAndRespond gives a successfully decoded ask's response.
func (s *Server) respondLocked(msg any) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return WriteMessage(s.rw, msg)
}

func (s *Server) dispatchAndRespond(ask Ask) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	result, callErr := s.dispatch(ask)
	if callErr != nil {
		if s.log != nil {
			s.log.Warning("rpc call failed", "fn", ask.Fn, "err", callErr)
		}
		return WriteMessage(s.rw, NewError(callErr.Error()))
	}
	return WriteMessage(s.rw, NewReturn(result))
}

func (s *Server) dispatch(ask Ask) (any, error) {
	switch ask.Fn {
	case "aloc":
		var args alocArgs
		if err := json.Unmarshal(ask.Args, &args); err != nil {
			return nil, protocolErrorf("aloc: missing or malformed args: %v", err)
		}
		return s.h.Aloc(args.N)

	case "dealoc":
		var args dealocArgs
		if err := json.Unmarshal(ask.Args, &args); err != nil {
			return nil, protocolErrorf("dealoc: missing or malformed args: %v", err)
		}
		return nil, s.h.Dealoc(args.Ptr)

	case "set_root":
		var args setRootArgs
		if err := json.Unmarshal(ask.Args, &args); err != nil {
			return nil, protocolErrorf("set_root: missing or malformed args: %v", err)
		}
		return nil, s.h.SetRoot(args.Ptr)

	default:
		return nil, protocolErrorf("unknown fn %q", ask.Fn)
	}
}

// EmitEvents writes a sequence of fired event IDs as consecutive Event
// messages, in encounter order. The caller must hold the same FrameLock
// passed to NewServer while calling this, per spec.md §8 property 6: a
// frame's events must reach the socket before any ask response for an ask
// made after that frame begins, which this guarantees by having both
// paths serialize on the same lock.
func EmitEvents(w io.Writer, eventIDs []uint64) error {
	for _, id := range eventIDs {
		if err := WriteMessage(w, NewEvent(id)); err != nil {
			return fmt.Errorf("rpc: emit event %d: %w", id, err)
		}
	}
	return nil
}
