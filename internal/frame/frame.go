// Package frame is the render-loop orchestrator tying components A-M
// together into the per-frame sequence spec.md §4.A/§4.E/§4.F describe:
// acquire Lock with the watchdog, run the Layout Pass, resolve geometry,
// run the Paint Pass, flush events, release Lock. Waiting for Ready is left
// to the caller (cmd/uibackendd's display loop), which calls RunFrame once
// the wait returns.
package frame

import (
	"errors"
	"io"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/waylayer/uibackend/internal/drawsink"
	"github.com/waylayer/uibackend/internal/input"
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/paintpass"
	"github.com/waylayer/uibackend/internal/layoutpass"
	"github.com/waylayer/uibackend/internal/rpc"
	"github.com/waylayer/uibackend/internal/vm"
	"github.com/waylayer/uibackend/internal/word"
)

// Loop holds everything one frame needs. Lock is the in-process mutex
// shared with the rpc.Server serving the same session's socket — both
// sides serialize on it so an event flush from this frame can never be
// interleaved with an ask response (spec.md §8 property 6).
type Loop struct {
	Page       *page.Page
	Lock       *sync.Mutex
	Dispatcher *input.Dispatcher
	Canvas     drawsink.Canvas
	Text       drawsink.TextShaper
	EventSink  io.Writer
	Log        commonlog.Logger

	InstructionCap uint64
	BaseFontSize   float32

	ViewportWidth, ViewportHeight float32
	PointerX, PointerY            float32
	ButtonDown                    bool
}

// RunFrame executes one frame end to end. A mid-frame abort in either
// pass is logged and swallowed (spec.md §7: "the previous frame remains
// on screen; a warning is logged"). A failed Lock watchdog wait is logged
// the same way and skips the frame. The only error it returns is an I/O
// error flushing events.
func (l *Loop) RunFrame() error {
	if err := l.Page.AcquireFrame(); err != nil {
		l.Log.Warning("lock watchdog expired; skipping frame", "err", err)
		return nil
	}
	defer l.Page.ReleaseFrame()

	l.Lock.Lock()
	defer l.Lock.Unlock()

	root := l.Page.Root()
	if root == word.NullPtr {
		return nil
	}

	layoutCtx := vm.NewContext(l.Page, vm.PassLayout, root, l.InstructionCap, l.BaseFontSize)
	lres, err := layoutpass.Run(layoutCtx, l.Dispatcher.Previous(), l.ViewportWidth, l.ViewportHeight)
	if err != nil {
		l.logAbort("layout", err)
		return nil
	}
	if lres.Root == nil {
		return nil
	}

	l.Dispatcher.Update(lres.Root, l.PointerX, l.PointerY, l.ButtonDown)

	paintCtx := vm.NewContext(l.Page, vm.PassPaint, root, l.InstructionCap, l.BaseFontSize)
	events, err := paintpass.Run(paintCtx, lres.Root, lres.ByID, l.Dispatcher.Current(), l.Canvas, l.Text)
	if err != nil {
		l.logAbort("paint", err)
		return nil
	}

	if l.EventSink != nil {
		if err := rpc.EmitEvents(l.EventSink, events); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) logAbort(pass string, err error) {
	var fe *vm.FrameError
	if errors.As(err, &fe) {
		l.Log.Warning("frame aborted", "pass", pass, "pc", fe.PC, "err", fe.Err)
		return
	}
	l.Log.Warning("frame aborted", "pass", pass, "err", err)
}
