package smallz4

import (
	"encoding/binary"

	"github.com/pierrec/xxHash/xxHash32"
)

// config holds the resolved options for one Encoder.
type config struct {
	level               Level
	dictionary          []byte
	dictionaryTruncated bool
	contentChecksum     bool
	logger              Logger
}

func defaultConfig() config {
	return config{level: LevelDefault, logger: noopLogger{}}
}

// Option configures an Encoder.
type Option func(*config)

// WithLevel sets how hard the encoder looks for matches. The default is
// LevelDefault.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithDictionary seeds the encoder's match index with dict as if it were
// the tail of a previous block, without emitting dict itself into the
// compressed stream (component H). dict is truncated to its last
// MaxDistance bytes; anything further back could never be referenced.
func WithDictionary(dict []byte) Option {
	return func(c *config) {
		prelude := newDictionaryPrelude(dict)
		c.dictionaryTruncated = len(prelude) < len(dict)
		c.dictionary = prelude
	}
}

// WithContentChecksum enables the frame content checksum, an xxHash32 over
// the whole uncompressed stream stored after the end-of-stream marker.
// This changes the frame header's flag byte and is off by default, since
// the plain frame format this package targets carries no checksums.
func WithContentChecksum() Option {
	return func(c *config) { c.contentChecksum = true }
}

// WithLogger attaches a Logger that receives one event per notable
// encoder decision (raw-block fallback, dictionary truncation). The
// default logger discards everything.
func WithLogger(l Logger) Option {
	return func(c *config) { c.logger = l }
}

// Encoder is a reusable LZ4 frame encoder (component F). It owns the
// sliding window, match index, and running content hash across repeated
// Encode calls, the way the teacher's FrameEncoder/BlockEncoder carry
// their buffers across repeated Encode calls instead of rebuilding them
// per call.
type Encoder struct {
	cfg    config
	w      *window
	mi     *matchIndex
	hasher hash32Writer

	started                  bool
	nextPos                  int64
	dictionaryLen            int64
	firstBlockWithDictionary bool
}

// NewEncoder builds an Encoder from opts. Level defaults to LevelDefault.
func NewEncoder(opts ...Option) *Encoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{cfg: cfg, w: &window{}, mi: newMatchIndex()}
}

// Encode appends more of src to the frame e is building, writing the
// frame header on the first call. When last is true it also writes the
// end-of-stream marker and, if enabled, the content checksum, finishing
// the frame.
func (e *Encoder) Encode(dst []byte, src []byte, last bool) []byte {
	if !e.started {
		e.started = true
		dst = append(dst, e.cfg.frameHeader()...)

		if e.cfg.contentChecksum {
			e.hasher = xxHash32.New(0)
		}
		if e.cfg.dictionaryTruncated {
			e.cfg.logger.Logf("dictionary truncated to %d bytes", len(e.cfg.dictionary))
		}

		e.firstBlockWithDictionary = len(e.cfg.dictionary) > 0
		if e.firstBlockWithDictionary {
			e.w.extend(e.cfg.dictionary)
		}
		e.dictionaryLen = int64(len(e.cfg.dictionary))
		e.nextPos = e.w.end()
	}

	offset := 0
	for offset < len(src) {
		end := offset + MaxBlockSize
		if end > len(src) {
			end = len(src)
		}
		blockData := src[offset:end]
		e.w.extend(blockData)

		lastBlock := e.nextPos
		nextBlock := e.nextPos + int64(end-offset)

		dst = e.cfg.encodeOneBlock(dst, e.w, e.mi, lastBlock, nextBlock, e.dictionaryLen, e.firstBlockWithDictionary)
		e.firstBlockWithDictionary = false

		if e.hasher != nil {
			e.hasher.Write(blockData)
		}

		e.w.slide()
		e.nextPos = nextBlock
		offset = end
	}

	if last {
		dst = append(dst, 0, 0, 0, 0) // end-of-stream marker
		if e.hasher != nil {
			dst = binary.LittleEndian.AppendUint32(dst, e.hasher.Sum32())
		}
	}

	return dst
}

// Compress encodes src as a complete LZ4 frame and appends it to dst,
// returning the extended slice. It is a one-shot convenience wrapper
// around a fresh Encoder; callers making repeated calls that should share
// one window/match index (and one running content hash) should build an
// Encoder directly instead.
func Compress(dst []byte, src []byte, opts ...Option) []byte {
	return NewEncoder(opts...).Encode(dst, src, true)
}

// CompressChecksummed is Compress with the content checksum forced on,
// regardless of whether WithContentChecksum was passed. It is additive:
// Compress's default, checksum-free behavior is unchanged.
func CompressChecksummed(dst []byte, src []byte, opts ...Option) []byte {
	e := NewEncoder(opts...)
	e.cfg.contentChecksum = true
	return e.Encode(dst, src, true)
}

// hash32Writer is the subset of hash.Hash32 the Encoder needs; it lets
// frame.go hold the running xxHash32 digest without importing "hash" just
// for this.
type hash32Writer interface {
	Write(p []byte) (int, error)
	Sum32() uint32
}

// frameHeader returns the 7-byte frame header for cfg: the fixed
// no-checksum header by default, or one with the content-checksum flag
// bit set and a recomputed header checksum when WithContentChecksum was
// given.
func (cfg config) frameHeader() []byte {
	if !cfg.contentChecksum {
		return frameHeader[:]
	}
	flags := byte(0x40 | 0x04) // version 1, linked blocks, content checksum
	bd := byte(MaxBlockSizeID << 4)
	return []byte{
		0x04, 0x22, 0x4D, 0x18,
		flags,
		bd,
		headerChecksum(flags, bd),
	}
}

// encodeOneBlock runs components C/D/E over [lastBlock, nextBlock) and
// appends the resulting LZ4 frame block (4-byte size, high bit set if
// stored raw, then the block bytes) to dst.
func (cfg config) encodeOneBlock(dst []byte, w *window, mi *matchIndex, lastBlock, nextBlock int64, dictionaryLen int64, firstBlockWithDictionary bool) []byte {
	blockData := w.slice(lastBlock, nextBlock)

	if cfg.level == LevelStore {
		return appendRawBlock(dst, blockData)
	}

	matches := findMatches(w, mi, lastBlock, nextBlock, cfg.level, dictionaryLen, firstBlockWithDictionary)

	// The backward DP is only worth running for the lazy/optimal tiers and
	// blocks big enough to have a real parse to optimize; smallz4's
	// compress() gates its estimateCosts call the same way, leaving
	// greedy levels (and tiny trailing blocks) with whatever findMatches
	// already chose via its skip-ahead policy.
	if cfg.level > shortChainsGreedy && len(matches.length) > blockEndNoMatch {
		estimateCosts(matches)
	}

	encoded := encodeBlock(nil, blockData, matches)
	if len(encoded) >= len(blockData) {
		cfg.logger.Logf("raw-block fallback: compressed %d bytes did not beat raw %d bytes", len(encoded), len(blockData))
		return appendRawBlock(dst, blockData)
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(encoded)))
	return append(dst, encoded...)
}

// appendRawBlock appends a block stored uncompressed, per the frame format
// the high bit of the block-size field marks as "not compressed".
func appendRawBlock(dst []byte, blockData []byte) []byte {
	const uncompressedFlag = 0x80000000
	dst = binary.LittleEndian.AppendUint32(dst, uncompressedFlag|uint32(len(blockData)))
	return append(dst, blockData...)
}
