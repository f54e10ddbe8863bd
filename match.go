package smallz4

// checkAtOnce is how many bytes findLongestMatch compares per step when it
// isn't down to the last 1-3 bytes; matching the teacher's extendMatch
// idiom (github.com/andybalholm/pack/quickmatch.go), four bytes is also
// what the index's exact chain already guarantees identical, so phase 1 below
// only has to re-verify bytes beyond the hashed prefix.
const checkAtOnce = 4

// match4 reports whether the four bytes at absolute offsets a and b are
// identical.
func match4(w *window, a, b int64) bool {
	return w.uint32At(a) == w.uint32At(b)
}

// findLongestMatch is the longest-match finder (component C). It walks
// mi's exact chain starting at pos, looking for the longest run of
// identical bytes starting at pos and some earlier candidate, never
// reading at or past stop. It stops once maxChainLength candidates have
// each produced a new longest match; candidates rejected in phase 1 do not
// count against that cap.
//
// It returns length=1 (justLiteral) if no match of at least MinMatch bytes
// was found, or a length>=MinMatch and its distance otherwise.
//
// Ported from smallz4's findLongestMatch: a two-phase comparison per
// candidate. Phase 1 scans backward from the tail of the best-known match
// so far, because two similar byte runs are most likely to diverge near
// the end the candidate hasn't been verified against yet; only a candidate
// that survives phase 1 gets the (more expensive) forward scan in phase 2
// that can actually extend the result.
func findLongestMatch(w *window, mi *matchIndex, pos int64, stop int64, maxChainLength uint16) (length uint32, distance uint16) {
	length = justLiteral
	stepsLeft := maxChainLength

	chainDistance := mi.previousExact[uint16(pos&MaxDistance)]
	var totalDistance int64

	for chainDistance != endOfChain {
		totalDistance += int64(chainDistance)
		if totalDistance > MaxDistance {
			break
		}

		// Prepare the next hop before doing any work on this one.
		chainDistance = mi.previousExact[uint16((pos-totalDistance)&MaxDistance)]

		atLeast := pos + int64(length) + 1
		if atLeast > stop {
			break
		}

		// Phase 1: backward verification. All bytes between pos and
		// atLeast must match before a forward scan is worthwhile.
		phase1 := atLeast - checkAtOnce
		for phase1 > pos && match4(w, phase1, phase1-totalDistance) {
			phase1 -= checkAtOnce
		}
		if phase1 > pos {
			// Mismatch: this candidate can't beat the current best.
			continue
		}

		// Phase 2: forward extension from the verified prefix.
		phase2 := atLeast
		for phase2+checkAtOnce <= stop && match4(w, phase2, phase2-totalDistance) {
			phase2 += checkAtOnce
		}
		for phase2 < stop && w.byteAt(phase2) == w.byteAt(phase2-totalDistance) {
			phase2++
		}

		length = uint32(phase2 - pos)
		distance = uint16(totalDistance)

		stepsLeft--
		if stepsLeft == 0 {
			break
		}
	}

	return length, distance
}
