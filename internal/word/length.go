package word

import "fmt"

// LengthKind distinguishes the four ways a length value can be expressed.
type LengthKind uint8

const (
	LengthPxs LengthKind = iota
	LengthRems
	LengthFrac
	LengthAuto
)

// Length is one length value: {Pxs(f32), Rems(f32), Frac(f32), Auto}.
// Auto carries no value (its Value field is unused).
type Length struct {
	Kind  LengthKind
	Value float32
}

// ParseLength converts a decoded tagged word into a Length. It returns an
// error if t.Tag is not one of the four length tags.
func ParseLength(t Tagged) (Length, error) {
	switch t.Tag {
	case Pxs:
		return Length{Kind: LengthPxs, Value: t.AsFloat32()}, nil
	case Rems:
		return Length{Kind: LengthRems, Value: t.AsFloat32()}, nil
	case Frac:
		return Length{Kind: LengthFrac, Value: t.AsFloat32()}, nil
	case Auto:
		return Length{Kind: LengthAuto}, nil
	default:
		return Length{}, fmt.Errorf("word: tag %s is not a length value", t.Tag)
	}
}

// Resolve computes a length in pixels against a reference dimension
// (typically the parent's resolved size for Frac) and a base font size (for
// Rems). Auto resolves to fallback, letting the caller supply a
// content-derived size (spec.md §4.E: Auto defers to content).
func (l Length) Resolve(reference, baseFontSize, fallback float32) float32 {
	switch l.Kind {
	case LengthPxs:
		return l.Value
	case LengthRems:
		return l.Value * baseFontSize
	case LengthFrac:
		return l.Value * reference
	case LengthAuto:
		return fallback
	default:
		return fallback
	}
}

// IsAuto reports whether the length is Auto.
func (l Length) IsAuto() bool {
	return l.Kind == LengthAuto
}

func (l Length) String() string {
	switch l.Kind {
	case LengthPxs:
		return fmt.Sprintf("Pxs(%g)", l.Value)
	case LengthRems:
		return fmt.Sprintf("Rems(%g)", l.Value)
	case LengthFrac:
		return fmt.Sprintf("Frac(%g)", l.Value)
	default:
		return "Auto"
	}
}
