// Command uibackendd is the rendering server process: it formats a
// session's shared page, serves the aloc/dealoc/set_root RPC over a Unix
// socket, spawns the client named on its argument vector, and drives the
// Layout/Paint render loop against a terminal-backed demo Canvas (SPEC_FULL.md
// §4.M) so the whole pipeline can be exercised by hand without a real
// windowing or 2D drawing stack.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tliron/commonlog"

	"github.com/waylayer/uibackend/internal/config"
	"github.com/waylayer/uibackend/internal/frame"
	"github.com/waylayer/uibackend/internal/input"
	"github.com/waylayer/uibackend/internal/logging"
	"github.com/waylayer/uibackend/internal/page"
	"github.com/waylayer/uibackend/internal/rpc"
	"github.com/waylayer/uibackend/internal/session"
	"github.com/waylayer/uibackend/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "uibackendd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	sessionID := flag.String("session", "", "fixed session id (random uuid if empty)")
	flag.Parse()
	argv := flag.Args()
	if len(argv) == 0 {
		return fmt.Errorf("usage: uibackendd [-config FILE] [-session ID] -- CLIENT [ARGS...]")
	}

	log := logging.New("uibackendd")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	id := *sessionID
	if id == "" {
		id = cfg.SessionName
	}
	names := session.New(id)

	pg, err := page.Create(names.ID, cfg.PageSize, log)
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	defer pg.Close()

	ln, err := listenSocket(names.SocketPath)
	if err != nil {
		return err
	}
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frameLock := &sync.Mutex{}
	handlers := rpc.NewHandlers(pg)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveClients(ctx, ln, handlers, frameLock, log)
	}()

	exitCode := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		code, err := supervisor.Run(ctx, names, argv)
		if err != nil {
			log.Warning("client process failed to run", "err", err)
		}
		exitCode = code
	}()

	if err := runDisplay(ctx, pg, frameLock, cfg, log); err != nil {
		log.Warning("display loop exited", "err", err)
	}

	cancel()
	wg.Wait()
	if exitCode != 0 {
		return fmt.Errorf("client exited with status %d", exitCode)
	}
	return nil
}

// listenSocket unlinks any stale socket left by a crashed prior run under
// this session id before binding, the same stale-object cleanup spec.md
// §4.J asks of the shared page and its semaphores (internal/page.Create).
func listenSocket(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale socket %s: %w", path, err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", path, err)
	}
	return ln, nil
}

// serveClients accepts a single client connection at a time and serves
// RPC asks against it until ctx is canceled. A client that disconnects
// (crash or exit) simply ends that Serve call; a fresh connection is
// accepted if one arrives before shutdown.
func serveClients(ctx context.Context, ln net.Listener, h rpc.Dispatcher, lock rpc.FrameLock, log commonlog.Logger) {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warning("accept failed", "err", err)
			return
		}
		server := rpc.NewServer(conn, h, lock, log)
		eventSinks.set(conn)
		if err := server.Serve(); err != nil {
			log.Info("client connection closed", "err", err)
		}
		eventSinks.clear(conn)
		conn.Close()
	}
}

// eventSinks hands the render loop the live client connection to
// flush events onto, without the display loop owning socket-accept logic
// itself. There is at most one connection at a time (spec.md §6 assumes a
// single client per session).
var eventSinks = &connRegistry{}

type connRegistry struct {
	mu   sync.Mutex
	conn net.Conn
}

func (r *connRegistry) set(c net.Conn) {
	r.mu.Lock()
	r.conn = c
	r.mu.Unlock()
}

func (r *connRegistry) clear(c net.Conn) {
	r.mu.Lock()
	if r.conn == c {
		r.conn = nil
	}
	r.mu.Unlock()
}

func (r *connRegistry) current() net.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn
}

// runDisplay owns the terminal: raw mode, alt screen, mouse reporting, and
// the render loop that drives layoutpass/paintpass against the demo
// TermCanvas every time Ready is posted.
func runDisplay(ctx context.Context, pg *page.Page, frameLock *sync.Mutex, cfg config.Config, log commonlog.Logger) error {
	inFd, outFd := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	cols, rows, err := terminalSize(outFd)
	if err != nil {
		cols, rows = 80, 24
	}

	rawState, err := enableRawMode(inFd)
	if err != nil {
		log.Warning("raw mode unavailable, input will be line-buffered", "err", err)
	}
	defer disableRawMode(inFd, rawState)

	setup := newEscBuilder(64)
	setup.enterAltScreen()
	setup.hideCursor()
	setup.enableMouse()
	os.Stdout.Write(setup.Bytes())
	defer func() {
		teardown := newEscBuilder(64)
		teardown.disableMouse()
		teardown.showCursor()
		teardown.exitAltScreen()
		os.Stdout.Write(teardown.Bytes())
	}()

	canvas := NewTermCanvas(os.Stdout, cols, rows)
	if err := canvas.Clear(); err != nil {
		return err
	}

	pointer := &pointerState{}
	go readInput(ctx, os.Stdin, pointer, cancelOnCtrlC)

	loop := &frame.Loop{
		Page:           pg,
		Lock:           frameLock,
		Dispatcher:     input.NewDispatcher(),
		Canvas:         canvas,
		Text:           canvas,
		Log:            log,
		InstructionCap: cfg.InstructionCap,
		BaseFontSize:   float32(cfg.BaseFontSize),
		ViewportWidth:  float32(cols),
		ViewportHeight: float32(rows),
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			return nil
		default:
		}

		ok, err := pg.WaitReady(cfg.ReadyWait())
		if err != nil {
			return fmt.Errorf("waiting for ready: %w", err)
		}
		if !ok {
			continue
		}

		x, y, down := pointer.get()
		loop.PointerX, loop.PointerY, loop.ButtonDown = x, y, down
		if conn := eventSinks.current(); conn != nil {
			loop.EventSink = conn
		} else {
			loop.EventSink = nil
		}

		if err := loop.RunFrame(); err != nil {
			return err
		}
		if err := canvas.Flush(); err != nil {
			return err
		}
	}
}

// cancelOnCtrlC lets readInput recognize a raw-mode Ctrl+C (0x03) as a
// shutdown request, since ISIG is disabled by enableRawMode and the
// terminal will no longer turn it into a SIGINT itself.
const cancelOnCtrlC = 0x03

func readInput(ctx context.Context, in *os.File, pointer *pointerState, quitByte byte) {
	buf := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := in.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		for _, b := range buf[:n] {
			if b == quitByte {
				return
			}
		}
		feedMouse(pointer, buf[:n])
	}
}
