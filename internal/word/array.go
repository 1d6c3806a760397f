package word

import "fmt"

// DecodeArray reads an Array header (tag 0, word = byte length n) at off and
// returns the raw bytes that follow it. The returned nextOff is the offset
// of the tagged word immediately after the array's data and alignment
// padding — spec.md §3: "followed by n raw bytes ... then padding to the
// next W boundary".
func DecodeArray(buf []byte, off uint64) (data []byte, nextOff uint64, err error) {
	t, err := DecodeTagged(buf, off)
	if err != nil {
		return nil, 0, err
	}
	if t.Tag != Array {
		return nil, 0, fmt.Errorf("word: expected Array header at %d, got %s", off, t.Tag)
	}
	n := t.AsUint()
	dataOff := off + TaggedSize
	if dataOff+n > uint64(len(buf)) {
		return nil, 0, fmt.Errorf("word: array at %d (len %d) exceeds page bounds", off, n)
	}
	data = buf[dataOff : dataOff+n]
	next := AlignUp(dataOff + n)
	return data, next, nil
}

// EncodeArraySize returns the total byte span (header + data + padding) an
// Array of n bytes occupies in the page — useful for the allocator-backed
// writer side (tests, fixtures) that lays out programs by hand.
func EncodeArraySize(n uint64) uint64 {
	return AlignUp(TaggedSize + n)
}

// EncodeArray writes an Array header and its payload at off, padding the
// tail to the next W boundary. Returns the offset immediately after the
// encoded array.
func EncodeArray(buf []byte, off uint64, data []byte) (nextOff uint64, err error) {
	if err := EncodeTagged(buf, off, Array, RawFromUint(uint64(len(data)))); err != nil {
		return 0, err
	}
	dataOff := off + TaggedSize
	end := dataOff + uint64(len(data))
	if end > uint64(len(buf)) {
		return 0, fmt.Errorf("word: array write at %d (len %d) exceeds page bounds", off, len(data))
	}
	copy(buf[dataOff:end], data)
	next := AlignUp(end)
	for i := end; i < next; i++ {
		buf[i] = 0
	}
	return next, nil
}
