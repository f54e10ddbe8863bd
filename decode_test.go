package smallz4

import (
	"bytes"
	"strings"
	"testing"
)

// decodeOneBlock decodes a single LZ4 block with no preceding history,
// the shape the rest of the test suite's block-level tests want; it's a
// thin wrapper over decodeBlock's ring-based signature.
func decodeOneBlock(block []byte) ([]byte, error) {
	r := newHistoryRing(nil)
	out, err := decodeBlock(nil, r, block)
	if err != nil {
		return nil, err
	}
	return r.flush(out), nil
}

func TestHistoryRingFlushesOnWraparound(t *testing.T) {
	r := newHistoryRing(nil)
	var dst []byte

	// Write exactly historySize+100 bytes; the ring must flush the first
	// historySize bytes as soon as pos wraps, rather than growing buf
	// unbounded, and its own footprint (the buf array) stays fixed
	// regardless of how much has been written.
	total := historySize + 100
	for i := 0; i < total; i++ {
		dst = r.write(dst, byte(i))
	}
	dst = r.flush(dst)

	if len(dst) != total {
		t.Fatalf("got %d flushed bytes, want %d", len(dst), total)
	}
	for i := 0; i < total; i++ {
		if dst[i] != byte(i) {
			t.Fatalf("byte %d: got %#x, want %#x", i, dst[i], byte(i))
		}
	}
	if r.pos != 100 {
		t.Fatalf("ring pos after wraparound = %d, want 100", r.pos)
	}
}

func TestHistoryRingDictionaryPreludeNotFlushed(t *testing.T) {
	dict := []byte("dictionary prelude bytes")
	r := newHistoryRing(dict)

	var dst []byte
	dst = r.write(dst, 'X')
	dst = r.flush(dst)

	if !bytes.Equal(dst, []byte("X")) {
		t.Fatalf("dictionary prelude leaked into output: got %q", dst)
	}
	if r.byteAt(1) != 'X' {
		t.Fatalf("byteAt(1) after one write = %q, want 'X'", r.byteAt(1))
	}
	if r.byteAt(2) != dict[len(dict)-1] {
		t.Fatalf("byteAt(2) = %q, want last dictionary byte %q", r.byteAt(2), dict[len(dict)-1])
	}
}

// TestCompressHelloWorldByteLayout pins down the exact compressed block
// bytes for the "Hello World. Hello World!" scenario: a single compressed
// block whose second "Hello World" is a match back to the first.
//
// The match's distance is 13, not 11 (the literal length of "Hello
// World"): the ". " separator between the two occurrences adds 2 bytes.
// Its length is capped at 7 ("Hello W"), not the full 11-byte common run,
// because findLongestMatch's stop parameter (nextBlock-blockEndLiterals)
// always reserves the block's last blockEndLiterals(5) bytes as literals,
// so "orld!" is re-emitted as a literal tail rather than folded into the
// match.
func TestCompressHelloWorldByteLayout(t *testing.T) {
	data := []byte("Hello World. Hello World!")
	if len(data) != 25 {
		t.Fatalf("test fixture length = %d, want 25", len(data))
	}

	w := &window{}
	w.extend(data)
	mi := newMatchIndex()

	matches := findMatches(w, mi, 0, int64(len(data)), LevelOptimal, 0, false)
	estimateCosts(matches)

	if matches.distance[13] != 13 || matches.length[13] != 7 {
		t.Fatalf("match at position 13: got length=%d distance=%d, want length=7 distance=13",
			matches.length[13], matches.distance[13])
	}

	encoded := encodeBlock(nil, data, matches)

	want := []byte{0xD3}
	want = append(want, []byte("Hello World. ")...)
	want = append(want, 0x0D, 0x00)
	want = append(want, 0x50)
	want = append(want, []byte("orld!")...)

	if !bytes.Equal(encoded, want) {
		t.Fatalf("encoded bytes:\n got  % x\nwant  % x", encoded, want)
	}

	decoded, err := decodeOneBlock(encoded)
	if err != nil {
		t.Fatalf("decodeOneBlock: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch: got %q, want %q", decoded, data)
	}
}

// TestEncodeSelfOverlapRunByteLayout pins down the exact token/offset
// bytes for a 1,024-byte run of a single repeated byte: one leading
// literal, then a single self-overlapping match at distance 1 whose
// length needs a length-overflow byte sequence (token 0x1F: literal
// nibble 1, match nibble 15), followed by a short literal tail forced by
// the same blockEndLiterals margin as the Hello World scenario above.
func TestEncodeSelfOverlapRunByteLayout(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1024)

	w := &window{}
	w.extend(data)
	mi := newMatchIndex()

	matches := findMatches(w, mi, 0, int64(len(data)), LevelOptimal, 0, false)
	estimateCosts(matches)

	if matches.distance[1] != 1 {
		t.Fatalf("match at position 1: got distance=%d, want 1", matches.distance[1])
	}

	encoded := encodeBlock(nil, data, matches)

	if encoded[0] != 0x1F {
		t.Fatalf("token byte = %#x, want 0x1f", encoded[0])
	}
	if encoded[1] != 0x41 {
		t.Fatalf("leading literal byte = %#x, want 0x41", encoded[1])
	}
	if encoded[2] != 0x01 || encoded[3] != 0x00 {
		t.Fatalf("offset bytes = %#x %#x, want 01 00", encoded[2], encoded[3])
	}
	if encoded[4] != 0xFF {
		t.Fatalf("first length-overflow byte = %#x, want 0xff", encoded[4])
	}

	decoded, err := decodeOneBlock(encoded)
	if err != nil {
		t.Fatalf("decodeOneBlock: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch on self-overlap run")
	}
}

func TestDecompressBoundedMemoryAcrossManyBlocks(t *testing.T) {
	// A large, repetitive multi-block input: exercises decodeFrame's ring
	// flushing across several MaxBlockSize-sized blocks, not just one.
	data := []byte(strings.Repeat("ring buffer flush regression test. ", 250000))

	compressed := Compress(nil, data, WithLevel(LevelDefault))
	decompressed, err := Decompress(nil, compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(decompressed), len(data))
	}
}
