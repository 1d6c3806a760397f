package main

import "sync"

// pointerState is the latest pointer position and button state the mouse
// reader has observed, read by the frame loop once per frame.
type pointerState struct {
	mu         sync.Mutex
	x, y       float32
	buttonDown bool
}

func (p *pointerState) set(x, y float32, down bool) {
	p.mu.Lock()
	p.x, p.y, p.buttonDown = x, y, down
	p.mu.Unlock()
}

func (p *pointerState) get() (x, y float32, down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y, p.buttonDown
}

// feedMouse scans data for SGR-1006 mouse sequences (ESC [ < b ; x ; y M/m)
// and applies any it finds to state. Adapted from the teacher's own SGR
// mouse parser (parse.go's parseMouseSGR) down to the single button/motion
// bit this demo cares about: is a button currently held.
func feedMouse(state *pointerState, data []byte) {
	for i := 0; i < len(data); i++ {
		if data[i] != 0x1b {
			continue
		}
		ev, n := parseMouseSGR(data[i:])
		if n == 0 {
			continue
		}
		if ev.ok {
			state.set(float32(ev.x), float32(ev.y), ev.down)
		}
		i += n - 1
	}
}

type mouseEvent struct {
	x, y int
	down bool
	ok   bool
}

func parseMouseSGR(data []byte) (mouseEvent, int) {
	if len(data) < 9 || data[0] != 0x1b || data[1] != '[' || data[2] != '<' {
		return mouseEvent{}, 0
	}

	i := 3
	button, x, y := 0, 0, 0
	stage := 0 // 0=button, 1=x, 2=y

	for i < len(data) {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			switch stage {
			case 0:
				button = button*10 + int(b-'0')
			case 1:
				x = x*10 + int(b-'0')
			case 2:
				y = y*10 + int(b-'0')
			}
			i++
		case b == ';':
			stage++
			if stage > 2 {
				return mouseEvent{}, 0
			}
			i++
		case b == 'M' || b == 'm':
			if stage != 2 {
				return mouseEvent{}, 0
			}
			buttonNum := button & 3
			down := b == 'M' && buttonNum != 3
			return mouseEvent{x: x - 1, y: y - 1, down: down, ok: true}, i + 1
		default:
			return mouseEvent{}, 0
		}
	}
	return mouseEvent{}, 0
}
