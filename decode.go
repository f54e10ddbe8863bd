package smallz4

import "encoding/binary"

// decodeConfig holds the resolved options for one Decompress or
// DecompressChecksummed call.
type decodeConfig struct {
	dictionary          []byte
	dictionaryTruncated bool
	logger              Logger
}

func defaultDecodeConfig() decodeConfig {
	return decodeConfig{logger: noopLogger{}}
}

// DecodeOption configures a Decompress or DecompressChecksummed call.
type DecodeOption func(*decodeConfig)

// WithDecodeDictionary seeds the decoder's history with dict, the same
// bytes a matching WithDictionary(dict) gave the encoder. The dictionary
// itself is not part of the decoded output. dict is truncated to its last
// MaxDistance bytes, matching the encoder side's truncation.
func WithDecodeDictionary(dict []byte) DecodeOption {
	return func(c *decodeConfig) {
		prelude := newDictionaryPrelude(dict)
		c.dictionaryTruncated = len(prelude) < len(dict)
		c.dictionary = prelude
	}
}

// WithDecodeLogger attaches a Logger that receives one event per notable
// decoder decision (dictionary truncation, checksum mismatch). The
// default logger discards everything.
func WithDecodeLogger(l Logger) DecodeOption {
	return func(c *decodeConfig) { c.logger = l }
}

// historySize is the fixed decode history window: the most any
// back-reference can reach, per §5's resource model. Grounded on
// original_source/src/smallz4.cpp's unlz4, which keeps exactly one
// HISTORY_SIZE=65536 byte array and flushes it to the output sink (its
// dump()) each time the write position wraps back to zero, rather than
// retaining every decoded byte for the life of the call.
const historySize = MaxDistance + 1

// historyRing is that fixed 64 KiB ring buffer. Back-references read from
// buf; decoded bytes not yet flushed live only in buf until write causes a
// wraparound, at which point they're appended to the output sink and
// buf's capacity is reused. This keeps decoder footprint bounded at
// historySize bytes independent of total output length, instead of
// holding a second full copy of the decoded stream alongside the one the
// caller's dst already accumulates.
type historyRing struct {
	buf      [historySize]byte
	pos      int
	dumpFrom int
	total    int64
}

// newHistoryRing seeds a ring with a (possibly empty) dictionary prelude.
// Dictionary bytes are written into the ring so later matches can
// reference them, but are never flushed to an output sink themselves.
func newHistoryRing(dict []byte) *historyRing {
	r := &historyRing{}
	for _, b := range dict {
		r.buf[r.pos] = b
		r.pos++
		r.total++
		if r.pos == historySize {
			r.pos = 0
		}
	}
	r.dumpFrom = r.pos
	return r
}

// write appends one decoded byte to the ring, flushing buf to dst each
// time pos wraps back to zero.
func (r *historyRing) write(dst []byte, b byte) []byte {
	r.buf[r.pos] = b
	r.pos++
	r.total++
	if r.pos == historySize {
		dst = append(dst, r.buf[r.dumpFrom:historySize]...)
		r.pos = 0
		r.dumpFrom = 0
	}
	return dst
}

// flush appends whatever has accumulated in buf since the last
// wraparound dump. Call once after the last block of a frame.
func (r *historyRing) flush(dst []byte) []byte {
	dst = append(dst, r.buf[r.dumpFrom:r.pos]...)
	r.dumpFrom = r.pos
	return dst
}

// byteAt returns the byte written distance positions ago; distance 1 is
// the byte just written.
func (r *historyRing) byteAt(distance int) byte {
	idx := r.pos - distance
	if idx < 0 {
		idx += historySize
	}
	return r.buf[idx]
}

// Decompress is the frame decompressor (component G). It reads one
// complete LZ4 frame from src, appends its decoded content to dst, and
// returns the extended slice.
//
// It accepts any conformant LZ4 frame: independent or linked blocks, any
// block-size descriptor, and any combination of content size, content
// checksum, block checksum, or dictionary ID flags, not only frames this
// package's own Compress produces. Block and content checksums, if
// present, are skipped rather than verified; use DecompressChecksummed to
// verify them.
//
// Grounded on original_source/src/smallz4.cpp's unlz4 for the block loop,
// flag handling, and bounded-history ring structure.
func Decompress(dst []byte, src []byte, opts ...DecodeOption) ([]byte, error) {
	cfg := defaultDecodeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return decodeFrame(dst, src, cfg, false)
}

// DecompressChecksummed is Decompress with block and content checksums
// (when present in the frame) verified with a real xxHash32 implementation
// instead of merely skipped, returning ErrChecksumMismatch on the first
// mismatch found. It is additive: Decompress's default, unverified
// behavior is unchanged.
func DecompressChecksummed(dst []byte, src []byte, opts ...DecodeOption) ([]byte, error) {
	cfg := defaultDecodeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return decodeFrame(dst, src, cfg, true)
}

// decodeFrame does the actual frame parsing for both Decompress and
// DecompressChecksummed. Checksum bytes are always consumed from src so
// the stream stays aligned regardless of verifyChecksums; they are only
// compared against a freshly computed hash, and able to fail the call,
// when verifyChecksums is true.
func decodeFrame(dst []byte, src []byte, cfg decodeConfig, verifyChecksums bool) ([]byte, error) {
	if cfg.dictionaryTruncated {
		cfg.logger.Logf("dictionary truncated to %d bytes", len(cfg.dictionary))
	}

	if len(src) < 7 {
		return nil, ErrShortBuffer
	}
	if binary.LittleEndian.Uint32(src) != frameMagic {
		return nil, ErrInvalidSignature
	}
	src = src[4:]

	flags, bd := src[0], src[1]
	src = src[2:]
	if flags>>6 != 1 {
		return nil, ErrUnsupportedVersion
	}
	_ = bd // block-max-size is only a hint to the writer; the reader doesn't need it.

	hasContentChecksum := flags&0x04 != 0
	hasContentSize := flags&0x08 != 0
	hasBlockChecksum := flags&0x10 != 0
	hasDictionaryID := flags&0x01 != 0

	if hasContentSize {
		if len(src) < 8 {
			return nil, ErrShortBuffer
		}
		src = src[8:]
	}
	if hasDictionaryID {
		if len(src) < 4 {
			return nil, ErrShortBuffer
		}
		src = src[4:]
	}
	if len(src) < 1 {
		return nil, ErrShortBuffer
	}
	src = src[1:] // header checksum byte; writers that care already validated it.

	dstStart := len(dst)
	r := newHistoryRing(cfg.dictionary)

	for {
		if len(src) < 4 {
			return nil, ErrShortBuffer
		}
		rawSize := binary.LittleEndian.Uint32(src)
		src = src[4:]
		if rawSize == 0 {
			break
		}

		compressed := rawSize&0x80000000 == 0
		size := rawSize & 0x7fffffff
		if uint64(len(src)) < uint64(size) {
			return nil, ErrShortBuffer
		}
		blockBytes := src[:size]
		src = src[size:]

		if hasBlockChecksum {
			if len(src) < 4 {
				return nil, ErrShortBuffer
			}
			want := binary.LittleEndian.Uint32(src)
			src = src[4:]
			if verifyChecksums && xxHash32Sum(blockBytes) != want {
				cfg.logger.Logf("block checksum mismatch: got %#x, want %#x", xxHash32Sum(blockBytes), want)
				return nil, ErrChecksumMismatch
			}
		}

		if compressed {
			var err error
			dst, err = decodeBlock(dst, r, blockBytes)
			if err != nil {
				return nil, err
			}
		} else {
			for _, b := range blockBytes {
				dst = r.write(dst, b)
			}
		}
	}

	dst = r.flush(dst)

	if hasContentChecksum {
		if len(src) < 4 {
			return nil, ErrShortBuffer
		}
		want := binary.LittleEndian.Uint32(src)
		if verifyChecksums && xxHash32Sum(dst[dstStart:]) != want {
			cfg.logger.Logf("content checksum mismatch: got %#x, want %#x", xxHash32Sum(dst[dstStart:]), want)
			return nil, ErrChecksumMismatch
		}
	}

	return dst, nil
}

// decodeBlock appends one decoded LZ4 block to dst, reading and writing
// back-references through r, which carries the bounded decode history
// across block boundaries (linked blocks can reference the previous
// block's tail).
//
// Any malformed offset or truncated sequence panics; the recover below
// turns that into ErrInvalidOffset. This mirrors the vendored pierrec/lz4
// decoder's style of trusting slice-bounds panics instead of checking
// every copy by hand.
func decodeBlock(dst []byte, r *historyRing, block []byte) (out []byte, err error) {
	defer func() {
		if recover() != nil {
			out, err = nil, ErrInvalidOffset
		}
	}()

	out = dst
	i := 0
	for i < len(block) {
		token := block[i]
		i++

		literalLength := int(token >> 4)
		if literalLength == 15 {
			for {
				b := block[i]
				i++
				literalLength += int(b)
				if b != maxLengthCode {
					break
				}
			}
		}
		for k := 0; k < literalLength; k++ {
			out = r.write(out, block[i+k])
		}
		i += literalLength

		if i == len(block) {
			// Final sequence: literals only, no match follows.
			break
		}

		distance := int(binary.LittleEndian.Uint16(block[i:]))
		i += 2
		if distance == 0 || int64(distance) > r.total {
			panic(ErrInvalidOffset)
		}

		matchLength := int(token&0x0f) + MinMatch
		if token&0x0f == 15 {
			for {
				b := block[i]
				i++
				matchLength += int(b)
				if b != maxLengthCode {
					break
				}
			}
		}

		// Copied one byte at a time: r.byteAt(distance) always reads
		// relative to the ring's current write position, so a
		// self-overlapping match (distance < matchLength) keeps reading
		// bytes this same loop just wrote, which is exactly what LZ4
		// run-length-style back-references require.
		for k := 0; k < matchLength; k++ {
			out = r.write(out, r.byteAt(distance))
		}
	}

	return out, nil
}
