// Package word defines the tagged-word wire format shared by the client and
// the backend: the 2*W-byte unit that makes up every instruction and value
// in the bytecode stream, and the closed enumeration of tags that gives each
// word its meaning.
package word

import "fmt"

// Tag identifies the meaning of a tagged word's payload. The enumeration is
// closed at 0..=46; an unrecognized value is always a decode error.
type Tag uint64

const (
	Array Tag = 0
	Pxs   Tag = 1
	Rems  Tag = 2
	Frac  Tag = 3
	Auto  Tag = 4

	Rgb  Tag = 5
	Hsv  Tag = 6
	Rgba Tag = 7
	Hsva Tag = 8

	Enter Tag = 9
	Leave Tag = 10

	Rect      Tag = 11
	BeginPath Tag = 12
	EndPath   Tag = 13
	MoveTo    Tag = 14
	LineTo    Tag = 15
	QuadTo    Tag = 16
	CubicTo   Tag = 17
	ArcTo     Tag = 18
	ClosePath Tag = 19

	ColorAttr Tag = 20

	Width   Tag = 21
	Height  Tag = 22
	Padding Tag = 23
	Margin  Tag = 24
	Display Tag = 25
	Gap     Tag = 26

	Hover         Tag = 27
	MousePressed  Tag = 28
	Clicked       Tag = 29
	Jmp           Tag = 30
	NoJmp         Tag = 31
	ReservedTag32 Tag = 32 // unassigned by spec.md's closed enumeration; the interpreter aborts the frame on it (vm.ErrUnknownTag)

	PushArg   Tag = 33
	PullArg   Tag = 34
	PullArgOr Tag = 35
	LoadReg   Tag = 36
	FromReg   Tag = 37
	FromRegOr Tag = 38

	Event Tag = 39

	Text          Tag = 40
	TextPtr       Tag = 41
	FontSize      Tag = 42
	FontAlignment Tag = 43
	FontFamily    Tag = 44

	CursorDefault Tag = 45
	CursorPointer Tag = 46
)

// MaxTag is the highest valid tag value in the closed enumeration.
const MaxTag = 46

// Valid reports whether t falls within the closed tag enumeration.
func (t Tag) Valid() bool {
	return t <= MaxTag
}

// IsValue reports whether t is one of the self-describing value tags
// (0..=8): array headers, lengths, and colors. Value tags are only valid in
// argument position; encountering one at the top level of the program is an
// error (spec.md §4.D).
func (t Tag) IsValue() bool {
	return t <= Hsva
}

// IsLength reports whether t is one of the four length tags.
func (t Tag) IsLength() bool {
	switch t {
	case Pxs, Rems, Frac, Auto:
		return true
	default:
		return false
	}
}

// IsColor reports whether t is one of the four color tags.
func (t Tag) IsColor() bool {
	switch t {
	case Rgb, Hsv, Rgba, Hsva:
		return true
	default:
		return false
	}
}

var names = map[Tag]string{
	Array: "Array", Pxs: "Pxs", Rems: "Rems", Frac: "Frac", Auto: "Auto",
	Rgb: "Rgb", Hsv: "Hsv", Rgba: "Rgba", Hsva: "Hsva",
	Enter: "Enter", Leave: "Leave",
	Rect: "Rect", BeginPath: "BeginPath", EndPath: "EndPath", MoveTo: "MoveTo",
	LineTo: "LineTo", QuadTo: "QuadTo", CubicTo: "CubicTo", ArcTo: "ArcTo", ClosePath: "ClosePath",
	ColorAttr: "Color",
	Width: "Width", Height: "Height", Padding: "Padding", Margin: "Margin", Display: "Display", Gap: "Gap",
	Hover: "Hover", MousePressed: "MousePressed", Clicked: "Clicked", Jmp: "Jmp", NoJmp: "NoJmp",
	ReservedTag32: "Reserved32",
	PushArg:       "PushArg", PullArg: "PullArg", PullArgOr: "PullArgOr",
	LoadReg: "LoadReg", FromReg: "FromReg", FromRegOr: "FromRegOr",
	Event:         "Event",
	Text:          "Text", TextPtr: "TextPtr", FontSize: "FontSize", FontAlignment: "FontAlignment", FontFamily: "FontFamily",
	CursorDefault: "CursorDefault", CursorPointer: "CursorPointer",
}

// String returns the tag's instruction name, or "Tag(n)" for an
// out-of-range value.
func (t Tag) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", uint64(t))
}
