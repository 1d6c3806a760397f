package vm

import "fmt"

// Display is the element box-layout mode set by the Display instruction
// (spec.md §3's element attribute of the same name). Unlike Length/Color,
// Display has no dedicated value-tag family in the tagged-word model: its
// instruction's own word field carries the enum ordinal directly.
type Display uint32

const (
	DisplayBlock Display = iota
	DisplayFlexRow
	DisplayFlexCol
	DisplayGrid
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "Block"
	case DisplayFlexRow:
		return "FlexRow"
	case DisplayFlexCol:
		return "FlexCol"
	case DisplayGrid:
		return "Grid"
	case DisplayNone:
		return "None"
	default:
		return fmt.Sprintf("Display(%d)", uint32(d))
	}
}

// ParseDisplay validates a raw word value decoded from a Display
// instruction's word field.
func ParseDisplay(v uint64) (Display, error) {
	if v > uint64(DisplayNone) {
		return 0, fmt.Errorf("vm: %d is not a valid Display ordinal", v)
	}
	return Display(v), nil
}

// TextAlign mirrors Display's embedding: FontAlignment's word field carries
// this ordinal directly.
type TextAlign uint32

const (
	AlignStart TextAlign = iota
	AlignCenter
	AlignEnd
)

func ParseTextAlign(v uint64) (TextAlign, error) {
	if v > uint64(AlignEnd) {
		return 0, fmt.Errorf("vm: %d is not a valid TextAlign ordinal", v)
	}
	return TextAlign(v), nil
}

// CursorHint is the window cursor shape CursorDefault/CursorPointer select.
type CursorHint uint8

const (
	CursorDefault CursorHint = iota
	CursorPointer
)
