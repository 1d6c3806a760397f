package vm

import (
	"github.com/waylayer/uibackend/internal/word"
)

// Run decodes and dispatches ctx's bytecode from ctx.PC until the element
// opened by the program's first Enter is closed by its matching Leave
// (spec.md §3 invariant 2: "the first tagged word reached from root_ptr
// must be Enter"). It returns a *FrameError on any mid-frame abort
// condition; the caller is responsible for discarding ctx and keeping the
// previous frame on screen (spec.md §7).
func Run(ctx *Context, hooks Hooks) error {
	for {
		pc := ctx.PC
		tw, err := ctx.Page.ReadTagged(pc)
		if err != nil {
			return abortf(pc, "decode tagged word: %w", err)
		}
		ctx.PC += word.TaggedSize
		if err := ctx.checkInstrCap(); err != nil {
			return abortf(pc, "%w", err)
		}

		if tw.Tag.IsValue() {
			return abortf(pc, "%w: %s", ErrValueAtTopLevel, tw.Tag)
		}

		done, err := dispatch(ctx, hooks, pc, tw)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// dispatch executes the side effect of one instruction tag. done is true
// once the root element's matching Leave has been processed.
func dispatch(ctx *Context, hooks Hooks, pc uint64, tw word.Tagged) (done bool, err error) {
	switch tw.Tag {
	case word.Enter:
		id := ctx.nextElementID
		ctx.nextElementID++
		ctx.pushScope(id)
		ctx.Pen = defaultPen()
		hooks.OnEnter(ctx, id)
		return false, nil

	case word.Leave:
		id, ok := ctx.popScope()
		if !ok {
			return false, abortf(pc, "%w", ErrUnbalancedScope)
		}
		hooks.OnLeave(ctx, id)
		return ctx.ScopeDepth() == 0, nil

	case word.Width:
		l, err := ctx.fetchLength()
		if err != nil {
			return false, err
		}
		hooks.OnWidth(ctx, l)
		return false, nil

	case word.Height:
		l, err := ctx.fetchLength()
		if err != nil {
			return false, err
		}
		hooks.OnHeight(ctx, l)
		return false, nil

	case word.Padding:
		e, err := ctx.fetchEdges()
		if err != nil {
			return false, err
		}
		hooks.OnPadding(ctx, e)
		return false, nil

	case word.Margin:
		e, err := ctx.fetchEdges()
		if err != nil {
			return false, err
		}
		hooks.OnMargin(ctx, e)
		return false, nil

	case word.Display:
		d, err := ParseDisplay(tw.AsUint())
		if err != nil {
			return false, abortf(pc, "%w", err)
		}
		hooks.OnDisplay(ctx, d)
		return false, nil

	case word.Gap:
		h, err := ctx.fetchLength()
		if err != nil {
			return false, err
		}
		v, err := ctx.fetchLength()
		if err != nil {
			return false, err
		}
		hooks.OnGap(ctx, h, v)
		return false, nil

	case word.ColorAttr:
		c, err := ctx.fetchColor()
		if err != nil {
			return false, err
		}
		ctx.Pen.Color = c
		hooks.OnColor(ctx, c)
		return false, nil

	case word.Rect:
		x, y, w, h, err := ctx.fetch4Lengths()
		if err != nil {
			return false, err
		}
		hooks.OnRect(ctx, x, y, w, h)
		return false, nil

	case word.BeginPath:
		hooks.OnBeginPath(ctx)
		return false, nil

	case word.EndPath:
		hooks.OnEndPath(ctx)
		return false, nil

	case word.MoveTo:
		x, y, err := ctx.fetch2Lengths()
		if err != nil {
			return false, err
		}
		hooks.OnMoveTo(ctx, x, y)
		return false, nil

	case word.LineTo:
		x, y, err := ctx.fetch2Lengths()
		if err != nil {
			return false, err
		}
		hooks.OnLineTo(ctx, x, y)
		return false, nil

	case word.QuadTo:
		cx, cy, x, y, err := ctx.fetch4Lengths()
		if err != nil {
			return false, err
		}
		hooks.OnQuadTo(ctx, cx, cy, x, y)
		return false, nil

	case word.CubicTo:
		vals, err := ctx.fetchNLengths(6)
		if err != nil {
			return false, err
		}
		hooks.OnCubicTo(ctx, vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
		return false, nil

	case word.ArcTo:
		vals, err := ctx.fetchNLengths(5)
		if err != nil {
			return false, err
		}
		hooks.OnArcTo(ctx, vals[0], vals[1], vals[2], vals[3], vals[4])
		return false, nil

	case word.ClosePath:
		hooks.OnClosePath(ctx)
		return false, nil

	case word.FontSize:
		size, err := ctx.fetchLength()
		if err != nil {
			return false, err
		}
		ctx.Pen.FontSize = size.Resolve(0, ctx.BaseFontSize, ctx.Pen.FontSize)
		hooks.OnFontSize(ctx, size)
		return false, nil

	case word.FontAlignment:
		align, err := ParseTextAlign(tw.AsUint())
		if err != nil {
			return false, abortf(pc, "%w", err)
		}
		ctx.Pen.FontAlign = align
		hooks.OnFontAlignment(ctx, align)
		return false, nil

	case word.FontFamily:
		family, err := ctx.fetchTextPtr()
		if err != nil {
			return false, err
		}
		ctx.Pen.FontFamily = family
		hooks.OnFontFamily(ctx, family)
		return false, nil

	case word.Text:
		x, y, err := ctx.fetch2Lengths()
		if err != nil {
			return false, err
		}
		text, err := ctx.fetchTextPtr()
		if err != nil {
			return false, err
		}
		hooks.OnText(ctx, x, y, text)
		return false, nil

	case word.CursorDefault:
		ctx.Pen.Cursor = CursorDefault
		hooks.OnCursorDefault(ctx)
		return false, nil

	case word.CursorPointer:
		ctx.Pen.Cursor = CursorPointer
		hooks.OnCursorPointer(ctx)
		return false, nil

	case word.Event:
		hooks.OnEvent(ctx, tw.AsUint())
		return false, nil

	case word.PushArg:
		v, err := ctx.fetchArg(ArgAny)
		if err != nil {
			return false, err
		}
		ctx.pushArg(v)
		return false, nil

	case word.Jmp, word.NoJmp, word.Hover, word.MousePressed, word.Clicked:
		return false, ctx.dispatchJump(hooks, pc, tw)

	default:
		return false, abortf(pc, "%w: %s", ErrUnknownTag, tw.Tag)
	}
}

func (c *Context) fetchEdges() (Edges, error) {
	vals, err := c.fetchNLengths(4)
	if err != nil {
		return Edges{}, err
	}
	return Edges{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
}

func (c *Context) fetch2Lengths() (a, b word.Length, err error) {
	vals, err := c.fetchNLengths(2)
	if err != nil {
		return word.Length{}, word.Length{}, err
	}
	return vals[0], vals[1], nil
}

func (c *Context) fetch4Lengths() (a, b, d, e word.Length, err error) {
	vals, err := c.fetchNLengths(4)
	if err != nil {
		return word.Length{}, word.Length{}, word.Length{}, word.Length{}, err
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func (c *Context) fetchNLengths(n int) ([]word.Length, error) {
	vals := make([]word.Length, n)
	for i := 0; i < n; i++ {
		l, err := c.fetchLength()
		if err != nil {
			return nil, err
		}
		vals[i] = l
	}
	return vals, nil
}

// dispatchJump handles Jmp/NoJmp/Hover/MousePressed/Clicked. tw's own word
// field is the signed relative offset (spec.md §4.D) — none of these read
// further argument words.
func (c *Context) dispatchJump(hooks Hooks, pc uint64, tw word.Tagged) error {
	offset := tw.AsInt()
	target, err := c.validateJumpTarget(offset)
	if err != nil {
		return abortf(pc, "%s %+d: %w", tw.Tag, offset, err)
	}

	switch tw.Tag {
	case word.Jmp:
		c.PC = target
		return nil
	case word.NoJmp:
		return nil
	}

	elementID, ok := c.CurrentElement()
	if !ok {
		return abortf(pc, "%s outside any element scope", tw.Tag)
	}
	var gated bool
	switch tw.Tag {
	case word.Hover:
		gated = hooks.IsHover(elementID)
	case word.MousePressed:
		gated = hooks.IsPressed(elementID)
	case word.Clicked:
		gated = hooks.IsClicked(elementID)
	}
	if !gated {
		c.PC = target
	}
	return nil
}

// validateJumpTarget resolves offset relative to the post-advance PC and
// checks it lands on a W-aligned offset within the page (spec.md §3
// invariant 3, §8 property 2). Tagged words are not globally 2*W-aligned —
// a root pointer from Allocator.Alloc or the tail of an odd-length Array
// payload (word.DecodeArray/EncodeArray pad to W, not 2*W) can leave every
// following tagged word sitting at an 8-mod-16 offset — so only plain
// W-alignment is checked here. Whether target actually lands on an
// instruction boundary rather than mid-tagged-word is left to the decode
// loop: a misaligned landing either fails Tag validation (ErrUnknownTag) or
// trips the value-at-top-level check.
func (c *Context) validateJumpTarget(offset int64) (uint64, error) {
	target := int64(c.PC) + offset
	if target < 0 {
		return 0, ErrBadJump
	}
	t := uint64(target)
	if !word.Aligned(t) || t >= uint64(len(c.Page.Bytes())) {
		return 0, ErrBadJump
	}
	return t, nil
}
