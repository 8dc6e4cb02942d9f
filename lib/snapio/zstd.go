package snapio

import (
	"encoding/binary"
	"os"

	"github.com/DataDog/zstd"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// MemFile is a Snapshot whose positions live in an ordinary heap-allocated
// array. It is used for formats that can't be mapped directly.
type MemFile struct {
	x []float64
}

var _ Snapshot = &MemFile{ }

func (f *MemFile) Coords() []float64 { return f.x }
func (f *MemFile) Len() int { return len(f.x) }
func (f *MemFile) Close() error {
	f.x = nil
	return nil
}

// OpenZStd reads a zstd-compressed raw file of doubles. offset is applied to
// the decompressed data.
func OpenZStd(
	fname string, offset int64, order binary.ByteOrder,
) (*MemFile, error) {
	b, err := os.ReadFile(fname)
	if err != nil { return nil, g_error.IOf(err, "could not read %s", fname) }

	raw, err := zstd.Decompress(nil, b)
	if err != nil {
		return nil, g_error.IOf(err, "could not decompress %s", fname)
	}

	if offset < 0 || int64(len(raw)) < offset {
		return nil, g_error.Invalid("offset %d is outside of %s, which " +
			"decompresses to %d bytes.", offset, fname, len(raw))
	}

	x, err := floatView(fname, raw[offset:], order)
	if err != nil { return nil, err }
	return &MemFile{ x }, nil
}
