package vm

import (
	"github.com/waylayer/uibackend/internal/word"
)

// ArgKind is the shape an instruction demands of its next argument
// (spec.md §4.C).
type ArgKind int

const (
	ArgLength ArgKind = iota
	ArgColor
	ArgTextPtr
	ArgAny
)

func (k ArgKind) String() string {
	switch k {
	case ArgLength:
		return "length"
	case ArgColor:
		return "color"
	case ArgTextPtr:
		return "text_ptr"
	default:
		return "any"
	}
}

func matchesKind(tw word.Tagged, kind ArgKind) bool {
	switch kind {
	case ArgLength:
		return tw.Tag.IsLength()
	case ArgColor:
		return tw.Tag.IsColor()
	case ArgTextPtr:
		return tw.Tag == word.TextPtr
	default: // ArgAny
		return tw.Tag.IsValue()
	}
}

// fetchArg decodes the tagged word at c.PC, advances c.PC by 2*W, and
// resolves it to a value of the requested kind — recursing through
// PushArg/PullArg/PullArgOr/LoadReg/FromReg/FromRegOr exactly as spec.md
// §4.D describes. It returns a *FrameError on any mid-frame abort condition.
func (c *Context) fetchArg(kind ArgKind) (word.Tagged, error) {
	if err := c.checkInstrCap(); err != nil {
		return word.Tagged{}, abortf(c.PC, "%w", err)
	}
	pc := c.PC
	tw, err := c.Page.ReadTagged(pc)
	if err != nil {
		return word.Tagged{}, abortf(pc, "decode tagged word: %w", err)
	}
	c.PC += word.TaggedSize

	switch tw.Tag {
	case word.PushArg:
		v, err := c.fetchArg(ArgAny)
		if err != nil {
			return word.Tagged{}, err
		}
		c.pushArg(v)
		return c.fetchArg(kind)

	case word.PullArg:
		v, ok := c.popArg()
		if !ok {
			return word.Tagged{}, abortf(pc, "PullArg: %w", ErrStackUnderflow)
		}
		if !matchesKind(v, kind) {
			return word.Tagged{}, abortf(pc, "PullArg: %w", typeMismatch(kind, v.Tag))
		}
		return v, nil

	case word.PullArgOr:
		def, err := c.fetchArg(kind)
		if err != nil {
			return word.Tagged{}, err
		}
		if v, ok := c.popArg(); ok {
			if !matchesKind(v, kind) {
				return word.Tagged{}, abortf(pc, "PullArgOr: %w", typeMismatch(kind, v.Tag))
			}
			return v, nil
		}
		return def, nil

	case word.LoadReg:
		id := tw.AsUint()
		v, err := c.fetchArg(ArgAny)
		if err != nil {
			return word.Tagged{}, err
		}
		c.regs[id] = v
		return c.fetchArg(kind)

	case word.FromReg:
		id := tw.AsUint()
		v, ok := c.regs[id]
		if !ok {
			return word.Tagged{}, abortf(pc, "FromReg(%d): %w", id, ErrRegisterUnset)
		}
		if !matchesKind(v, kind) {
			return word.Tagged{}, abortf(pc, "FromReg(%d): %w", id, typeMismatch(kind, v.Tag))
		}
		return v, nil

	case word.FromRegOr:
		id := tw.AsUint()
		def, err := c.fetchArg(kind)
		if err != nil {
			return word.Tagged{}, err
		}
		if v, ok := c.regs[id]; ok {
			if !matchesKind(v, kind) {
				return word.Tagged{}, abortf(pc, "FromRegOr(%d): %w", id, typeMismatch(kind, v.Tag))
			}
			return v, nil
		}
		return def, nil

	default:
		if !matchesKind(tw, kind) {
			return word.Tagged{}, abortf(pc, "direct argument: %w", typeMismatch(kind, tw.Tag))
		}
		return tw, nil
	}
}

// fetchLength is a convenience wrapper resolving an argument to a
// word.Length, for the many instructions (Width, Rect's coordinates, ...)
// that take one.
func (c *Context) fetchLength() (word.Length, error) {
	tw, err := c.fetchArg(ArgLength)
	if err != nil {
		return word.Length{}, err
	}
	l, err := word.ParseLength(tw)
	if err != nil {
		return word.Length{}, abortf(c.PC, "%w", err)
	}
	return l, nil
}

func (c *Context) fetchColor() (word.Color, error) {
	tw, err := c.fetchArg(ArgColor)
	if err != nil {
		return word.Color{}, err
	}
	col, err := word.ParseColor(tw)
	if err != nil {
		return word.Color{}, abortf(c.PC, "%w", err)
	}
	return col, nil
}

// fetchTextPtr resolves a text_ptr argument and reads the Array it points
// at, returning the raw bytes (spec.md §4.F's Text/FontFamily operand).
func (c *Context) fetchTextPtr() (string, error) {
	tw, err := c.fetchArg(ArgTextPtr)
	if err != nil {
		return "", err
	}
	ptr := tw.AsUint()
	if !word.Aligned(ptr) {
		return "", abortf(c.PC, "text_ptr %d is not W-aligned", ptr)
	}
	data, _, err := c.Page.ReadArray(ptr)
	if err != nil {
		return "", abortf(c.PC, "text_ptr array at %d: %w", ptr, err)
	}
	return string(data), nil
}
