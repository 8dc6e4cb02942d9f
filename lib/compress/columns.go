/*package compress writes and reads binned particle counts to disk.

Histograms are stored as a small header followed by the counts. The counts are
split into eight one-byte "columns", least significant first, and each column
is compressed separately with zstd. Bin counts are small compared to 2^64, so
the upper columns are almost all zeros and compress to almost nothing.
*/
package compress

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

const (
	// Columns is the number of byte columns a uint64 is split into.
	Columns = 8
	// Level is the zstd compression level used for each column.
	Level = 1
)

// uintToByte transfers a one-byte "column" from u64 to b. The bytes are
// indexed from least to most significant.
func uintToByte(u64 []uint64, b []byte, col int) {
	for i := range u64 {
		b[i] = byte((u64[i] >> (8*col)) & 0xff)
	}
}

// byteToUint adds a one-byte column to u64.
func byteToUint(b []byte, u64 []uint64, col int) {
	for i := range u64 {
		u64[i] |= uint64(b[i]) << (8*col)
	}
}

// resizeBytes resizes a byte buffer to have length n.
func resizeBytes(b []byte, n int) []byte {
	if cap(b) >= n {
		b = b[:n]
	} else {
		b = b[:cap(b)]
		b = append(b, make([]byte, n - len(b))...)
	}

	return b
}

// WriteCompressedUintsZStd writes an array of uints, u, to an io.Writer using
// column-ordered zstd blocks. Each block is preceded by its length as an
// int64 in the given byte order. b and buf are internal buffers which will be
// resized as needed. The resized versions are returned so that they can be
// reused on the next call.
func WriteCompressedUintsZStd(
	u []uint64, b, buf []byte, wr io.Writer, order binary.ByteOrder,
) (bOut, bufOut []byte, err error) {
	b = resizeBytes(b, len(u))

	for i := 0; i < Columns; i++ {
		uintToByte(u, b, i)

		buf, err = zstd.CompressLevel(buf, b, Level)
		if err != nil { return nil, nil, err }

		err = binary.Write(wr, order, int64(len(buf)))
		if err != nil { return nil, nil, err }

		_, err = wr.Write(buf)
		if err != nil { return nil, nil, err }
	}

	return b[:0], buf[:0], nil
}

// ReadCompressedUintsZStd reads an array of uints, u, from an io.Reader which
// was written by WriteCompressedUintsZStd. u must already have the correct
// length. b and buf are internal buffers which will be resized as needed and
// returned.
func ReadCompressedUintsZStd(
	rd io.Reader, b, buf []byte, u []uint64, order binary.ByteOrder,
) (bOut, bufOut []byte, err error) {
	for i := range u { u[i] = 0 }

	for i := 0; i < Columns; i++ {
		nBuf := int64(0)
		err = binary.Read(rd, order, &nBuf)
		if err != nil { return nil, nil, err }
		if nBuf < 0 {
			return nil, nil, fmt.Errorf("column %d has negative length %d.",
				i, nBuf)
		}

		buf = resizeBytes(buf, int(nBuf))
		_, err = io.ReadFull(rd, buf)
		if err != nil { return nil, nil, err }

		b, err = zstd.Decompress(resizeBytes(b, len(u)), buf)
		if err != nil { return nil, nil, err }
		if len(b) != len(u) {
			return nil, nil, fmt.Errorf("column %d decompressed to %d bytes, " +
				"but %d were expected.", i, len(b), len(u))
		}

		byteToUint(b, u, i)
	}

	return b[:0], buf[:0], nil
}
