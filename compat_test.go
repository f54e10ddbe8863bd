package smallz4

import (
	"bytes"
	"io"
	"strings"
	"testing"

	pierrec "github.com/pierrec/lz4/v4"
)

// These tests cross-check against github.com/pierrec/lz4/v4, the same
// reference decoder github.com/andybalholm/pack's lz4_test.go validates
// its own encoder against.

func TestPierrecDecodesOurFrame(t *testing.T) {
	data := []byte(strings.Repeat("grounding every piece of this in the corpus. ", 300))

	compressed := Compress(nil, data, WithLevel(LevelOptimal))

	decompressed, err := io.ReadAll(pierrec.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatalf("pierrec/lz4 failed to read our frame: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("pierrec/lz4 decoded our frame to different content")
	}
}

func TestWeDecodePierrecFrame(t *testing.T) {
	data := []byte(strings.Repeat("the reference writer's framing, our reader. ", 300))

	var buf bytes.Buffer
	w := pierrec.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("pierrec/lz4 write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("pierrec/lz4 close: %v", err)
	}

	decompressed, err := Decompress(nil, buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress(pierrec frame): %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("our decoder read pierrec/lz4's frame to different content")
	}
}

func TestPierrecUncompressBlockMatchesOurBlockEncoder(t *testing.T) {
	data := []byte(strings.Repeat("abcdefgh", 200))

	w := &window{}
	w.extend(data)
	mi := newMatchIndex()
	matches := findMatches(w, mi, 0, int64(len(data)), LevelOptimal, 0, false)
	estimateCosts(matches)
	encoded := encodeBlock(nil, data, matches)

	decoded := make([]byte, len(data))
	n, err := pierrec.UncompressBlock(encoded, decoded)
	if err != nil {
		t.Fatalf("pierrec/lz4 UncompressBlock: %v", err)
	}
	if n != len(data) {
		t.Fatalf("got %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(decoded, data) {
		t.Fatal("pierrec/lz4 decoded our block to different content")
	}
}
