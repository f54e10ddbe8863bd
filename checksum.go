package smallz4

import "github.com/pierrec/xxHash/xxHash32"

// xxHash32Sum hashes data with the fixed seed 0, the same convention
// github.com/andybalholm/pack's lz4.FrameEncoder uses for its content
// checksum (lz4/frame.go) and that the LZ4 frame format requires.
func xxHash32Sum(data []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(data)
	return h.Sum32()
}

// ContentChecksum returns the xxHash32 checksum (seed 0) that
// CompressChecksummed stores after the end-of-stream marker and
// DecompressChecksummed verifies data against. It's exported so callers
// can compute or spot-check it independently of a full frame.
func ContentChecksum(data []byte) uint32 {
	return xxHash32Sum(data)
}

// headerChecksum computes the frame header checksum byte: the second byte
// of xxHash32(flags, bd), per the LZ4 frame format.
func headerChecksum(flags, bd byte) byte {
	return byte(xxHash32Sum([]byte{flags, bd}) >> 8)
}
