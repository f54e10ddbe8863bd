package smallz4

// matchIndex is the dual-chain hash index (component B). For every
// position in window-local order it maintains two parallel chains over the
// active 64 KiB window:
//
//   - previousHash, a dense chain keyed by a lossy 20-bit hash of the next
//     four bytes, cheap to walk but full of collisions;
//   - previousExact, a sparser chain that previousHash's walk collapses
//     onto: it only links positions whose first four bytes are actually
//     identical, so the longest-match finder never has to re-read input
//     just to reject a hash collision.
//
// Both chains are rings of MaxDistance+1 slots addressed by position modulo
// 65536, so their memory is bounded by the window size rather than by the
// length of the stream. A chain entry holds the *distance* back to the
// previous same-hash (or same-four-bytes) position, not the position
// itself; 0 is reserved as endOfChain, which is safe because two distinct
// positions are never zero bytes apart.
//
// This is adapted from smallz4's lastHash/previousHash/previousExact
// design; github.com/andybalholm/pack's HashChain (chain.go) is the nearest
// Go idiom for a hash-chained match index, but it keeps only a single
// chain plus a previous-block fallback, which isn't enough to reproduce
// the exact/collision split the cost engine in optimal.go depends on.
type matchIndex struct {
	// lastHash[h] is the absolute offset of the most recent 4-byte
	// sequence hashing to h, or -1 if none has been seen.
	lastHash []int64

	previousHash  []uint16
	previousExact []uint16
}

func newMatchIndex() *matchIndex {
	mi := &matchIndex{
		lastHash:      make([]int64, hashSize),
		previousHash:  make([]uint16, MaxDistance+1),
		previousExact: make([]uint16, MaxDistance+1),
	}
	mi.reset()
	return mi
}

func (mi *matchIndex) reset() {
	for i := range mi.lastHash {
		mi.lastHash[i] = -1
	}
	for i := range mi.previousHash {
		mi.previousHash[i] = endOfChain
		mi.previousExact[i] = endOfChain
	}
}

// hash32 maps the 32-bit little-endian word x to a HashBits-wide bucket, a
// Park-Miller LCG multiply-shift: the top HashBits bits of (x*48271) mod
// 2^32 are reasonably well distributed for 4-byte English/binary input.
func hash32(x uint32) uint32 {
	return (x * hashMultiplier) >> (32 - hashBits) & (hashSize - 1)
}

// update runs the §4.1 index-update protocol at absolute position pos:
// it records pos in the hash chain, then walks that chain to find the
// nearest earlier position with identical first four bytes and records it
// in the exact chain. w must have at least 4 bytes available at pos.
func (mi *matchIndex) update(w *window, pos int64) {
	x := w.uint32At(pos)
	h := hash32(x)

	prev := mi.lastHash[h]
	mi.lastHash[h] = pos

	ring := uint16(pos & MaxDistance)

	if prev < 0 || pos-prev > MaxDistance {
		mi.previousHash[ring] = endOfChain
		mi.previousExact[ring] = endOfChain
		return
	}

	distance := pos - prev
	mi.previousHash[ring] = uint16(distance)

	// Walk the hash chain, collapsing hash collisions until we find a
	// candidate whose first four bytes are byte-identical to x, or give
	// up because the chain drifted onto an older unrelated chain, ran
	// past MaxDistance, or fell out of the window.
	candidate := prev
	cumulative := distance
	for {
		cf := w.uint32At(candidate)
		if cf == x {
			break
		}
		if hash32(cf) != h {
			candidate = -1
			break
		}
		next := mi.previousHash[uint16(candidate&MaxDistance)]
		if next == endOfChain {
			candidate = -1
			break
		}
		cumulative += int64(next)
		if cumulative > MaxDistance {
			candidate = -1
			break
		}
		candidate -= int64(next)
		if candidate < w.dataZero {
			candidate = -1
			break
		}
	}

	if candidate < 0 {
		mi.previousExact[ring] = endOfChain
	} else {
		mi.previousExact[ring] = uint16(cumulative)
	}
}
