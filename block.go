package smallz4

// encodeBlock serializes one block's chosen matches into LZ4 Block format
// (component E). blockData is the block's raw bytes; matches comes from
// findMatches and, above the greedy levels, has also been run through
// estimateCosts, so matches.length[i] is either justLiteral (byte i is a
// literal) or a match length >= MinMatch starting at i.
//
// This is adapted from github.com/andybalholm/pack's lz4/block.go
// BlockEncoder.Encode, which walks a []pack.Match list instead of a
// per-position table; the token/length-overflow encoding itself is the
// same either way.
func encodeBlock(dst []byte, blockData []byte, matches *matchTable) []byte {
	n := len(blockData)
	literalStart := 0

	i := 0
	for i < n {
		length := matches.length[i]
		if length < MinMatch {
			i++
			continue
		}

		dst = appendSequence(dst, blockData[literalStart:i], length, matches.distance[i])
		i += int(length)
		literalStart = i
	}

	return appendFinalLiterals(dst, blockData[literalStart:n])
}

// appendSequence appends one literal-run-plus-match token.
func appendSequence(dst []byte, literals []byte, matchLength uint32, distance uint16) []byte {
	literalCode := len(literals)
	if literalCode > 15 {
		literalCode = 15
	}
	matchCode := int(matchLength) - MinMatch
	tokenMatchCode := matchCode
	if tokenMatchCode > 15 {
		tokenMatchCode = 15
	}

	dst = append(dst, byte(literalCode<<4|tokenMatchCode))

	if len(literals) >= 15 {
		dst = appendLengthOverflow(dst, len(literals)-15)
	}
	dst = append(dst, literals...)

	dst = append(dst, byte(distance), byte(distance>>8))

	if matchCode >= 15 {
		dst = appendLengthOverflow(dst, matchCode-15)
	}
	return dst
}

// appendFinalLiterals appends the trailing literal-only sequence that ends
// every LZ4 block (no match follows the last blockEndLiterals bytes).
func appendFinalLiterals(dst []byte, literals []byte) []byte {
	literalCode := len(literals)
	if literalCode > 15 {
		literalCode = 15
	}
	dst = append(dst, byte(literalCode<<4))
	if len(literals) >= 15 {
		dst = appendLengthOverflow(dst, len(literals)-15)
	}
	return append(dst, literals...)
}

// appendLengthOverflow appends the 0-or-more 255 bytes and the final
// non-255 byte that encode extra beyond a token nibble's 15.
func appendLengthOverflow(dst []byte, extra int) []byte {
	for extra >= maxLengthCode {
		dst = append(dst, maxLengthCode)
		extra -= maxLengthCode
	}
	return append(dst, byte(extra))
}
