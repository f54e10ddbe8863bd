package smallz4

import (
	"bytes"
	"strings"
	"testing"
)

func TestFindMatchesAndEstimateCostsRoundTrip(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50)
	data := []byte(text)

	w := &window{}
	w.extend(data)
	mi := newMatchIndex()

	matches := findMatches(w, mi, 0, int64(len(data)), LevelOptimal, 0, false)
	estimateCosts(matches)

	encoded := encodeBlock(nil, data, matches)
	if len(encoded) >= len(data) {
		t.Fatalf("encoded size %d did not beat raw size %d on highly repetitive input", len(encoded), len(data))
	}

	decoded, err := decodeOneBlock(encoded)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(decoded), len(data))
	}
}

func TestFindMatchesLevelStoreIsEmpty(t *testing.T) {
	w := &window{}
	w.extend([]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	mi := newMatchIndex()

	matches := findMatches(w, mi, 0, int64(len(w.data)), LevelStore, 0, false)
	if len(matches.length) != 0 {
		t.Fatalf("LevelStore should produce an empty match table, got %d entries", len(matches.length))
	}
}

func TestEstimateCostsPrefersLongSelfRunShortcut(t *testing.T) {
	data := bytes.Repeat([]byte{'z'}, maxSameLetter+50)

	w := &window{}
	w.extend(data)
	mi := newMatchIndex()

	matches := findMatches(w, mi, 0, int64(len(data)), LevelOptimal, 0, false)
	estimateCosts(matches)

	// Position 1 holds a distance-1 match running up to the literal tail,
	// longer than maxSameLetter, so the shortcut keeps it whole.
	wantLength := uint32(len(data) - 1 - blockEndLiterals)
	if matches.length[1] != wantLength || matches.distance[1] != 1 {
		t.Fatalf("position 1: got length=%d distance=%d, want length=%d distance=1",
			matches.length[1], matches.distance[1], wantLength)
	}

	encoded := encodeBlock(nil, data, matches)
	decoded, err := decodeOneBlock(encoded)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch on long same-byte run: got %d bytes, want %d", len(decoded), len(data))
	}
}
