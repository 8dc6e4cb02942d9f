//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd,!dragonfly

package snapio

import (
	"encoding/binary"
	"os"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// MappedFile is a Snapshot holding a raw file of doubles. On this platform
// the file is read into memory instead of being mapped.
type MappedFile struct {
	x []float64
}

var _ Snapshot = &MappedFile{ }

// OpenMapped reads the file fname into memory. The first offset bytes are
// skipped and the rest are interpreted as doubles with the given byte order.
func OpenMapped(
	fname string, offset int64, order binary.ByteOrder,
) (*MappedFile, error) {
	b, err := os.ReadFile(fname)
	if err != nil { return nil, g_error.IOf(err, "could not read %s", fname) }

	if offset < 0 || int64(len(b)) < offset {
		return nil, g_error.Invalid("offset %d is outside of %s, which has " +
			"%d bytes.", offset, fname, len(b))
	}

	x, err := floatView(fname, b[offset:], order)
	if err != nil { return nil, err }
	return &MappedFile{ x }, nil
}

func (mf *MappedFile) Coords() []float64 { return mf.x }
func (mf *MappedFile) Len() int { return len(mf.x) }
func (mf *MappedFile) Close() error {
	mf.x = nil
	return nil
}
