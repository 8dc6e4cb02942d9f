//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly
// +build linux darwin freebsd netbsd openbsd dragonfly

package snapio

import (
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// MappedFile is a Snapshot backed by a read-only memory mapping of a raw
// file of doubles.
type MappedFile struct {
	fname string
	f *os.File
	mapped []byte // The full mapping, including the offset. nil if empty.
	x []float64
}

var _ Snapshot = &MappedFile{ }

// OpenMapped maps the file fname into memory. The first offset bytes are
// skipped and the rest are interpreted as doubles with the given byte order.
// The file stays open and mapped until Close is called.
func OpenMapped(
	fname string, offset int64, order binary.ByteOrder,
) (*MappedFile, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, g_error.IOf(err, "could not open %s", fname) }

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, g_error.IOf(err, "could not stat %s", fname)
	}
	bytes := info.Size()

	if offset < 0 || bytes < offset {
		f.Close()
		return nil, g_error.Invalid("offset %d is outside of %s, which has " +
			"%d bytes.", offset, fname, bytes)
	}

	mf := &MappedFile{ fname: fname, f: f, x: []float64{ } }

	// Zero-length mappings are an error, so empty files aren't mapped.
	if bytes - offset == 0 { return mf, nil }

	mf.mapped, err = unix.Mmap(
		int(f.Fd()), 0, int(bytes), unix.PROT_READ, mapFlags,
	)
	if err != nil {
		f.Close()
		return nil, g_error.IOf(err, "could not mmap %s", fname)
	}

	// We intend to read all of this, front to back.
	for _, advice := range []int{ unix.MADV_WILLNEED, unix.MADV_SEQUENTIAL } {
		if err := unix.Madvise(mf.mapped, advice); err != nil {
			mf.Close()
			return nil, g_error.IOf(err, "madvise failed on %s", fname)
		}
	}

	mf.x, err = floatView(fname, mf.mapped[offset:], order)
	if err != nil {
		mf.Close()
		return nil, err
	}

	return mf, nil
}

func (mf *MappedFile) Coords() []float64 { return mf.x }
func (mf *MappedFile) Len() int { return len(mf.x) }

// Close unmaps and closes the file. It is safe to call Close more than once.
func (mf *MappedFile) Close() error {
	var err error
	if mf.mapped != nil {
		if e := unix.Munmap(mf.mapped); e != nil {
			err = g_error.IOf(e, "could not munmap %s", mf.fname)
		}
		mf.mapped = nil
	}
	mf.x = nil

	if mf.f != nil {
		if e := mf.f.Close(); e != nil && err == nil {
			err = g_error.IOf(e, "could not close %s", mf.fname)
		}
		mf.f = nil
	}
	return err
}
