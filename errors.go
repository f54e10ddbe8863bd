package smallz4

import "errors"

// Sentinel errors returned by Decompress, comparable with errors.Is the way
// github.com/woozymasta/lzo's errors.go and the grafana/loki lz4 wrapper
// (other_examples/grafana-loki__lz4.go) name theirs.
var (
	// ErrInvalidSignature is returned when the input doesn't start with
	// the LZ4 frame magic number.
	ErrInvalidSignature = errors.New("smallz4: invalid frame signature")
	// ErrUnsupportedVersion is returned when the frame descriptor's
	// version bits aren't the only version this format defines.
	ErrUnsupportedVersion = errors.New("smallz4: unsupported frame version")
	// ErrShortBuffer is returned when the input ends before a complete
	// header, block, or checksum could be read.
	ErrShortBuffer = errors.New("smallz4: truncated frame")
	// ErrInvalidOffset is returned when a block references a match
	// distance that reaches before the start of the decoded history.
	ErrInvalidOffset = errors.New("smallz4: match offset out of range")
	// ErrChecksumMismatch is returned when a block or content checksum
	// doesn't match the decoded bytes.
	ErrChecksumMismatch = errors.New("smallz4: checksum mismatch")
)
