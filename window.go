package smallz4

import "encoding/binary"

// window is the sliding window buffer (component A). It holds a contiguous
// byte range [dataZero, dataZero+len(data)) and lets the rest of the
// encoder address bytes by absolute stream offset instead of by pointer.
//
// This mirrors the source's raw-pointer-plus-dataZero design (see §9 of
// SPEC_FULL.md), but as an owned, growable slice with explicit bounds checks
// at the outer match walk rather than inside the inner byte comparisons.
type window struct {
	data     []byte
	dataZero int64
}

// extend appends more bytes to the end of the window.
func (w *window) extend(more []byte) {
	w.data = append(w.data, more...)
}

// end returns the absolute offset one past the last byte in the window.
func (w *window) end() int64 {
	return w.dataZero + int64(len(w.data))
}

// at returns the window-local index of the absolute offset p.
func (w *window) at(p int64) int {
	return int(p - w.dataZero)
}

// byteAt returns the byte at absolute offset p.
func (w *window) byteAt(p int64) byte {
	return w.data[w.at(p)]
}

// uint32At returns the 4-byte little-endian word starting at absolute
// offset p. p must leave at least 4 bytes in the window.
func (w *window) uint32At(p int64) uint32 {
	i := w.at(p)
	return binary.LittleEndian.Uint32(w.data[i:])
}

// slice returns the window-local byte slice covering [from, to).
func (w *window) slice(from, to int64) []byte {
	return w.data[w.at(from):w.at(to)]
}

// slide discards the prefix of the window older than MaxDistance bytes,
// so memory stays bounded by the window plus one block rather than by the
// whole stream. dataZero advances by however much was dropped.
func (w *window) slide() {
	if int64(len(w.data)) <= MaxDistance {
		return
	}
	drop := int64(len(w.data)) - MaxDistance
	w.data = append(w.data[:0], w.data[drop:]...)
	w.dataZero += drop
}
