package smallz4

import "testing"

func TestFindLongestMatch(t *testing.T) {
	w := &window{}
	w.extend([]byte("The quick brown fox. The quick brown fox jumps."))

	mi := newMatchIndex()
	stop := int64(len(w.data))
	for pos := int64(0); pos+4 <= stop; pos++ {
		mi.update(w, pos)
		if pos < 21 {
			continue
		}
		length, distance := findLongestMatch(w, mi, pos, stop, uint16(LevelOptimal))
		if pos == 21 {
			// "The quick brown fox" repeats starting here, distance 21
			// back to offset 0, diverging where "fox." meets "fox " (a
			// period versus a space) after 19 identical bytes.
			if distance != 21 {
				t.Fatalf("at pos 21: distance = %d, want 21", distance)
			}
			if length != 19 {
				t.Fatalf("at pos 21: length = %d, want 19", length)
			}
		}
	}
}

func TestFindLongestMatchNoCandidate(t *testing.T) {
	w := &window{}
	w.extend([]byte("abcdefgh"))

	mi := newMatchIndex()
	mi.update(w, 0)

	length, _ := findLongestMatch(w, mi, 4, int64(len(w.data)), uint16(LevelOptimal))
	if length != justLiteral {
		t.Fatalf("length = %d, want justLiteral (no match expected)", length)
	}
}
