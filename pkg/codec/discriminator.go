// Package codec implements the fixed-offset little-endian wire encoding for
// every persisted record, field by field, in the style of the teacher
// package's WhirlpoolPool.Decode: each field is sliced out of the buffer at
// an explicit byte range and decoded with gagliardetto/binary.
package codec

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// DiscriminatorSize is the 8-byte account-type tag prefixing every
// persisted record (spec §6).
const DiscriminatorSize = 8

func decodeAt(data []byte, lo, hi int, dst interface{}) error {
	if hi > len(data) {
		return fmt.Errorf("codec: range [%d:%d] exceeds buffer of length %d", lo, hi, len(data))
	}
	return bin.NewBinDecoder(data[lo:hi]).Decode(dst)
}

// sliceWriter is the minimal io.Writer that appends to a caller-owned byte
// slice, used so bin.Encoder can write directly into a pre-sized buffer.
type sliceWriter struct {
	buf *[]byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
