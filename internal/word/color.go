package word

import "fmt"

// ColorKind distinguishes the four ways a color value can be expressed.
type ColorKind uint8

const (
	ColorRgb ColorKind = iota
	ColorHsv
	ColorRgba
	ColorHsva
)

// Color is one color value: {Rgb, Hsv, Rgba, Hsva}. Components are packed
// little-endian into the word's low bytes as spec.md §3 requires; Rgb/Hsv
// use three bytes (A, B, C) and leave D at 0, Rgba/Hsva use all four.
type Color struct {
	Kind ColorKind
	A, B, C, D uint8 // Rgb: r,g,b. Hsv: h,s,v. Rgba/Hsva add the 4th component.
}

// ParseColor converts a decoded tagged word into a Color.
func ParseColor(t Tagged) (Color, error) {
	switch t.Tag {
	case Rgb:
		return Color{Kind: ColorRgb, A: t.Raw[0], B: t.Raw[1], C: t.Raw[2]}, nil
	case Hsv:
		return Color{Kind: ColorHsv, A: t.Raw[0], B: t.Raw[1], C: t.Raw[2]}, nil
	case Rgba:
		return Color{Kind: ColorRgba, A: t.Raw[0], B: t.Raw[1], C: t.Raw[2], D: t.Raw[3]}, nil
	case Hsva:
		return Color{Kind: ColorHsva, A: t.Raw[0], B: t.Raw[1], C: t.Raw[2], D: t.Raw[3]}, nil
	default:
		return Color{}, fmt.Errorf("word: tag %s is not a color value", t.Tag)
	}
}

// RGBA8 converts the color to straight 8-bit RGBA, the form consumers like
// the paint pass and the canvas interface want. HSV/HSVA components are
// treated as 0..255-scaled hue/saturation/value per the client encoding.
func (c Color) RGBA8() (r, g, b, a uint8) {
	switch c.Kind {
	case ColorRgb:
		return c.A, c.B, c.C, 0xff
	case ColorRgba:
		return c.A, c.B, c.C, c.D
	case ColorHsv:
		r, g, b = hsvToRGB(c.A, c.B, c.C)
		return r, g, b, 0xff
	case ColorHsva:
		r, g, b = hsvToRGB(c.A, c.B, c.C)
		return r, g, b, c.D
	default:
		return 0, 0, 0, 0xff
	}
}

func hsvToRGB(h, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}
	hf := float64(h) / 255.0 * 6.0
	sf := float64(s) / 255.0
	vf := float64(v) / 255.0

	i := int(hf)
	f := hf - float64(i)
	p := vf * (1 - sf)
	q := vf * (1 - sf*f)
	t := vf * (1 - sf*(1-f))

	var rf, gf, bf float64
	switch i % 6 {
	case 0:
		rf, gf, bf = vf, t, p
	case 1:
		rf, gf, bf = q, vf, p
	case 2:
		rf, gf, bf = p, vf, t
	case 3:
		rf, gf, bf = p, q, vf
	case 4:
		rf, gf, bf = t, p, vf
	default:
		rf, gf, bf = vf, p, q
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func (c Color) String() string {
	r, g, b, a := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}
