package main

import (
	"strconv"
	"unicode/utf8"
)

// escBuilder accumulates ANSI escape sequences in a reusable buffer, the
// same shape as the teacher's terminal writer: one Reset/Bytes cycle per
// flush keeps allocations out of the per-frame hot path.
type escBuilder struct {
	buf []byte
}

func newEscBuilder(capacity int) *escBuilder {
	return &escBuilder{buf: make([]byte, 0, capacity)}
}

func (e *escBuilder) Reset()        { e.buf = e.buf[:0] }
func (e *escBuilder) Bytes() []byte { return e.buf }
func (e *escBuilder) Len() int      { return len(e.buf) }

func (e *escBuilder) csi() { e.buf = append(e.buf, '\x1b', '[') }

func (e *escBuilder) int(n int) { e.buf = strconv.AppendInt(e.buf, int64(n), 10) }

// moveTo positions the cursor at 0-indexed (x, y).
func (e *escBuilder) moveTo(x, y int) {
	e.csi()
	e.int(y + 1)
	e.buf = append(e.buf, ';')
	e.int(x + 1)
	e.buf = append(e.buf, 'H')
}

func (e *escBuilder) clearScreen() {
	e.csi()
	e.buf = append(e.buf, '2', 'J')
}

func (e *escBuilder) hideCursor() {
	e.csi()
	e.buf = append(e.buf, '?', '2', '5', 'l')
}

func (e *escBuilder) showCursor() {
	e.csi()
	e.buf = append(e.buf, '?', '2', '5', 'h')
}

func (e *escBuilder) enterAltScreen() {
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '4', '9', 'h')
}

func (e *escBuilder) exitAltScreen() {
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '4', '9', 'l')
}

func (e *escBuilder) enableMouse() {
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '0', '0', 'h')
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '0', '6', 'h')
}

func (e *escBuilder) disableMouse() {
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '0', '6', 'l')
	e.csi()
	e.buf = append(e.buf, '?', '1', '0', '0', '0', 'l')
}

func (e *escBuilder) resetStyle() {
	e.csi()
	e.buf = append(e.buf, '0', 'm')
}

// setBG sets only the background color (the demo canvas only ever fills
// solid rects and prints monochrome text over them).
func (e *escBuilder) setBG(r, g, b uint8) {
	e.csi()
	e.buf = append(e.buf, '4', '8', ';', '2', ';')
	e.int(int(r))
	e.buf = append(e.buf, ';')
	e.int(int(g))
	e.buf = append(e.buf, ';')
	e.int(int(b))
	e.buf = append(e.buf, 'm')
}

func (e *escBuilder) writeRune(r rune) {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], r)
	e.buf = append(e.buf, b[:n]...)
}
