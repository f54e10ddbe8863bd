// Package smallz4 implements an LZ4-compatible compressor with optimal
// parsing, and a frame decompressor to go with it.
//
// The encoder combines a dual-chain hash index of the sliding window with a
// backward dynamic-programming cost model, so it spends more CPU than a
// greedy LZ4 encoder in exchange for a noticeably better compression ratio.
// Its output is bit-exact with the LZ4 Block format and is readable by any
// conformant LZ4 frame decoder; the decoder here reads any frame written by
// a conformant encoder configured with no checksums.
//
// Dictionaries, optional per-block/content checksums and structured logging
// are layered on top of that core as ambient features; none of them change
// the wire format of a plain Compress/Decompress round trip.
package smallz4

const (
	// MinMatch is the shortest back-reference the format allows.
	MinMatch = 4
	// MaxDistance is the largest back-reference distance, and the size of
	// the sliding window / decode history ring.
	MaxDistance = 65535
	// MaxBlockSize is the size of an LZ4 frame block at descriptor id 7,
	// the only block size this package emits.
	MaxBlockSize = 4 * 1024 * 1024
	// MaxBlockSizeID is the block-size-descriptor nibble for MaxBlockSize.
	MaxBlockSizeID = 7

	// blockEndLiterals is the number of trailing bytes of the whole
	// stream that must always be encoded as literals.
	blockEndLiterals = 5
	// blockEndNoMatch is how close to the end of the stream a match may
	// start.
	blockEndNoMatch = 12

	// maxLengthCode is the largest value a single length-overflow byte
	// can hold; a run of overflow bytes ends at the first byte that is
	// not 255.
	maxLengthCode = 255

	// maxSameLetter is the match length at which the cost engine stops
	// trying every sub-length for a distance-1 (single repeated byte)
	// match and instead takes the whole run in one token.
	maxSameLetter = 19 + 255*256

	// hashBits is the width of the match index's hash function.
	hashBits = 20
	hashSize = 1 << hashBits
	// hashMultiplier is a Park-Miller LCG multiplier; its high bits are
	// reasonably well mixed for 4-byte inputs.
	hashMultiplier = 48271

	// endOfChain marks "no earlier candidate" in the match index's rings.
	endOfChain = 0

	// justLiteral is the match-table sentinel meaning "position i is a
	// literal", not a match.
	justLiteral = 1
)

// Level selects how hard the encoder looks for matches. It is the
// maxChainLength cap handed to the longest-match finder: 0 disables
// matching entirely (raw blocks only), 1-3 is greedy, 4-6 is lazy, and
// anything higher runs full optimal parsing.
type Level uint16

const (
	// LevelStore disables compression; every block is emitted raw.
	LevelStore Level = 0
	// LevelFastest is the cheapest compressing level (greedy, 1 candidate).
	LevelFastest Level = 1
	// LevelDefault balances speed and ratio for most callers.
	LevelDefault Level = 6
	// LevelOptimal runs unlimited optimal parsing within the 64 KiB window.
	LevelOptimal Level = MaxDistance
)

// shortChainsGreedy is the highest level that uses the greedy skip-ahead
// policy from §4.3.
const shortChainsGreedy = 3

// shortChainsLazy is the highest level that uses the lazy skip-ahead
// policy; above it the cost engine runs unconstrained optimal parsing.
const shortChainsLazy = 6

// frame header bytes for the fixed, no-checksum, linked-block, 4 MiB
// block-size, no-dictionary-ID frame this package's default encoder emits.
var frameHeader = [7]byte{
	0x04, 0x22, 0x4D, 0x18, // magic 0x184D2204, little-endian
	0x40,                    // flags: version 1, linked blocks, no checksums
	MaxBlockSizeID << 4,     // block-max-size descriptor
	0xDF,                    // precomputed xxHash32 byte for exactly the two bytes above
}

// frameMagic is the 4-byte little-endian magic number of an LZ4 frame.
const frameMagic = 0x184D2204
