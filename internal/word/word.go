package word

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Size is the natural machine word W, in bytes. The shared page, every
// tagged word, and every jump target are aligned to this boundary.
const Size = 8

// TaggedSize is the size in bytes of one tagged word: [tag: uW][word: W].
const TaggedSize = 2 * Size

// NullPtr is the sentinel "null pointer" reserved at offset 0 of the page.
const NullPtr = 0

// AlignUp rounds n up to the next multiple of W.
func AlignUp(n uint64) uint64 {
	return (n + Size - 1) &^ (Size - 1)
}

// Aligned reports whether off is a W-aligned byte offset.
func Aligned(off uint64) bool {
	return off%Size == 0
}

// Tagged is a decoded tagged word: a tag plus its raw W-byte payload.
type Tagged struct {
	Tag  Tag
	Raw  [Size]byte
}

// DecodeTagged reads one tagged word from buf starting at off. It does not
// validate the tag against the closed enumeration; callers that care should
// check Tag.Valid().
func DecodeTagged(buf []byte, off uint64) (Tagged, error) {
	if off+TaggedSize > uint64(len(buf)) {
		return Tagged{}, fmt.Errorf("word: tagged word at %d exceeds page bounds (%d bytes)", off, len(buf))
	}
	tag := Tag(binary.LittleEndian.Uint64(buf[off : off+Size]))
	var raw [Size]byte
	copy(raw[:], buf[off+Size:off+TaggedSize])
	return Tagged{Tag: tag, Raw: raw}, nil
}

// EncodeTagged writes a tagged word into buf at off.
func EncodeTagged(buf []byte, off uint64, tag Tag, raw [Size]byte) error {
	if off+TaggedSize > uint64(len(buf)) {
		return fmt.Errorf("word: write at %d exceeds page bounds (%d bytes)", off, len(buf))
	}
	binary.LittleEndian.PutUint64(buf[off:off+Size], uint64(tag))
	copy(buf[off+Size:off+TaggedSize], raw[:])
	return nil
}

// AsUint interprets the payload as an unsigned W-byte integer (size, id,
// relative offset).
func (t Tagged) AsUint() uint64 {
	return binary.LittleEndian.Uint64(t.Raw[:])
}

// AsInt interprets the payload as a signed W-byte integer. Jump offsets are
// the only instruction whose word field must be read this way (spec.md §9,
// open question #1: the word is a signed relative displacement).
func (t Tagged) AsInt() int64 {
	return int64(binary.LittleEndian.Uint64(t.Raw[:]))
}

// AsFloat32 interprets the low 4 bytes of the payload as a little-endian
// single-precision float (length values).
func (t Tagged) AsFloat32() float32 {
	bits := binary.LittleEndian.Uint32(t.Raw[:4])
	return math.Float32frombits(bits)
}

// RawFromUint packs an unsigned integer into a word payload.
func RawFromUint(v uint64) [Size]byte {
	var raw [Size]byte
	binary.LittleEndian.PutUint64(raw[:], v)
	return raw
}

// RawFromInt packs a signed integer into a word payload.
func RawFromInt(v int64) [Size]byte {
	return RawFromUint(uint64(v))
}

// RawFromFloat32 packs a float32 into the low 4 bytes of a word payload; the
// remaining bytes are zero padding.
func RawFromFloat32(v float32) [Size]byte {
	var raw [Size]byte
	binary.LittleEndian.PutUint32(raw[:4], math.Float32bits(v))
	return raw
}
