package smallz4

// newDictionaryPrelude implements component H: a caller-supplied
// dictionary is truncated to its last MaxDistance bytes, the most any
// back-reference could ever reach, before it is spliced into the window
// (encoder) or history (decoder) as lookback-only content for the first
// block. Anything further back than that could never be referenced, so
// keeping it around would just be memory nobody reads.
func newDictionaryPrelude(dict []byte) []byte {
	if len(dict) > MaxDistance {
		return dict[len(dict)-MaxDistance:]
	}
	return dict
}
