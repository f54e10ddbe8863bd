package smallz4

// matchTable is the per-block match table shared by components C and D
// (§3 "Match table"). Before estimateCosts runs, length[i] is the longest
// match found starting at block-relative position i (or justLiteral if
// none was found, or if the greedy/lazy policy skipped the search there),
// and distance[i] its distance. After estimateCosts, length[i] is
// the emission length the optimal parser actually chose for position i;
// positions that are "inside" a chosen match are never visited by the
// serializer (it skips length[i] bytes forward), so their stale entries
// are harmless.
type matchTable struct {
	length   []uint32
	distance []uint16
}

func newMatchTable(blockSize int) *matchTable {
	return &matchTable{
		length:   make([]uint32, blockSize),
		distance: make([]uint16, blockSize),
	}
}

// lookback returns how many bytes before the current block the match
// finder should still update hash chains for, without recording match
// decisions, so that matches which start in the previous block's tail can
// still be found. It is capped at blockEndNoMatch bytes of ordinary
// history, or at the full dictionary prelude on the very first block.
func lookback(w *window, dictionaryLen int64, firstBlockWithDictionary bool) int64 {
	if firstBlockWithDictionary {
		return dictionaryLen
	}
	if w.dataZero < blockEndNoMatch {
		return w.dataZero
	}
	return blockEndNoMatch
}

// findMatches populates a matchTable for the block [lastBlock, nextBlock)
// of w (component B+C, §4.1 cross-block boundary and §4.2). level is both
// the compression-level knob and the maxChainLength cap handed to the
// longest-match finder (§4.2 "complexity knob").
//
// level == LevelStore returns an empty table; the caller is expected to
// emit the block raw without calling estimateCosts or the serializer.
func findMatches(w *window, mi *matchIndex, lastBlock, nextBlock int64, level Level, dictionaryLen int64, firstBlockWithDictionary bool) *matchTable {
	blockSize := nextBlock - lastBlock
	if level == LevelStore {
		return newMatchTable(0)
	}

	isGreedy := level <= shortChainsGreedy
	isLazy := !isGreedy && level <= shortChainsLazy

	var skipMatches uint32
	lazyEvaluation := false

	start := -lookback(w, dictionaryLen, firstBlockWithDictionary)

	matches := newMatchTable(int(blockSize))

	var i int64
	for i = start; i+blockEndNoMatch <= blockSize; i++ {
		pos := lastBlock + i
		mi.update(w, pos)

		if i < 0 {
			// Lookback region: chains are updated but no match is
			// recorded here, matching §4.1's cross-block boundary rule.
			continue
		}

		if skipMatches > 0 {
			skipMatches--
			if !lazyEvaluation {
				matches.length[i] = justLiteral
				continue
			}
			lazyEvaluation = false
		}

		length, distance := findLongestMatch(w, mi, pos, nextBlock-blockEndLiterals, uint16(level))
		matches.length[i] = length
		matches.distance[i] = distance

		if (isGreedy || isLazy) && length != justLiteral {
			// Greedy skips the next length-1 positions outright; lazy
			// searches i+1 once, then skips the length-2 positions after it.
			lazyEvaluation = isLazy && skipMatches == 0
			skipMatches = length - 1
		}
	}
	for ; i < blockSize; i++ {
		matches.length[i] = justLiteral
	}

	return matches
}

// estimateCosts is the backward dynamic-programming cost engine
// (component D, §4.3). It overwrites matches.length in place with the
// emission length that minimizes the total number of encoded bytes for
// the block, accounting for the extra length-overflow bytes the token
// format needs once a literal run or match length crosses the 15/19 +
// k*255 thresholds.
//
// Ported directly from smallz4's estimateCosts; see DESIGN.md for the
// rationale behind the "<=" tie-break between equal-cost literal and
// match candidates.
func estimateCosts(matches *matchTable) {
	blockEnd := int64(len(matches.length))
	cost := make([]uint32, blockEnd+1)

	numLiterals := uint32(blockEndLiterals)

	for i := blockEnd - (1 + blockEndLiterals); i >= 0; i-- {
		numLiterals++

		bestLength := uint32(justLiteral)
		minCost := cost[i+1] + 1

		if numLiterals >= 15 {
			if numLiterals == 15 || (numLiterals >= 15+maxLengthCode && (numLiterals-15)%maxLengthCode == 0) {
				minCost++
			}
		}

		matchLength := matches.length[i]
		matchDistance := matches.distance[i]

		if matchLength >= maxSameLetter && matchDistance == 1 {
			// Long self-referencing run: assume the longest match is
			// also the cheapest, and skip the O(matchLength) search
			// below that would otherwise make highly repetitive input
			// quadratic.
			bestLength = matchLength
			minCost = cost[i+int64(matchLength)] + 1 + 2 + 1 + (matchLength-19)/255
		} else if matchLength >= MinMatch {
			extraCost := uint32(1 + 2)
			nextCostIncrease := uint32(18)

			for length := uint32(MinMatch); length <= matchLength; length++ {
				currentCost := cost[i+int64(length)] + extraCost
				if currentCost <= minCost {
					// "<=" deliberately prefers the longer match: a run
					// of literals at equal cost may still need its own
					// extra length byte further back, so breaking the
					// run with a same-cost match can save a byte later.
					minCost = currentCost
					bestLength = length
				}
				if length == nextCostIncrease {
					extraCost++
					nextCostIncrease += maxLengthCode
				}
			}
		}

		cost[i] = minCost
		matches.length[i] = bestLength

		if bestLength != justLiteral {
			numLiterals = 0
		}
	}
}
