/*package snapio contains functions for acquiring the particle positions of a
snapshot as a flat []float64 buffer, x[3*i : 3*i+3] being the position of
particle i.

The main format is a raw file of doubles (e.g. written with MPI-IO), which is
memory mapped rather than read. zstd-compressed raw files and whitespace
separated text files are also supported. Adding support for a new format
requires writing a function that returns a Snapshot.
*/
package snapio

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"
	"unsafe"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// Snapshot is a read-only view of the positions in a snapshot file. The
// slice returned by Coords belongs to the Snapshot and must not be used
// after Close is called.
type Snapshot interface {
	// Coords returns the positions as a flat array of x, y, z triples.
	Coords() []float64
	// Len returns the number of values in Coords().
	Len() int
	// Close releases the file, mapping, and any buffers.
	Close() error
}

// Format is the name of an input file format.
type Format string

const (
	Raw Format = "raw"
	ZStd Format = "zstd"
	Text Format = "text"
)

// ParseFormat converts a user-supplied format name to a Format. An empty
// string means the format should be inferred from the file name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "": return "", nil
	case "raw", "binary": return Raw, nil
	case "zstd", "zst": return ZStd, nil
	case "text", "ascii", "txt": return Text, nil
	}
	return "", g_error.Invalid("'%s' is not a valid input format. Only " +
		"'raw', 'zstd', and 'text' are valid.", s)
}

// InferFormat guesses the Format of a file from its extension. Anything
// unrecognized is assumed to be Raw.
func InferFormat(fname string) Format {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".zst", ".zstd": return ZStd
	case ".txt", ".ascii": return Text
	}
	return Raw
}

// ParseByteOrder converts "little", "big", or "native" (or "") to a byte
// order.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "", "native", "system": return SystemByteOrder(), nil
	case "little", "littleendian": return binary.LittleEndian, nil
	case "big", "bigendian": return binary.BigEndian, nil
	}
	return nil, g_error.Invalid("'%s' is not a valid byte order. Only " +
		"'little', 'big', and 'native' are valid.", s)
}

// Open opens a snapshot file. Binary formats skip offset bytes at the start
// of the (decompressed) file and are interpreted with the given byte order.
// Text files ignore offset and order. If format is "", it's inferred from
// the file name.
func Open(
	fname string, format Format, offset int64, order binary.ByteOrder,
) (Snapshot, error) {
	if format == "" { format = InferFormat(fname) }
	if order == nil { order = SystemByteOrder() }

	var (
		f Snapshot
		err error
	)
	switch format {
	case Raw: f, err = OpenMapped(fname, offset, order)
	case ZStd: f, err = OpenZStd(fname, offset, order)
	case Text: f, err = OpenText(fname, DefaultTextConfig)
	default:
		return nil, g_error.Invalid("'%s' is not a valid input format.",
			format)
	}

	// Don't hand back a typed nil.
	if err != nil { return nil, err }
	return f, nil
}

// SystemByteOrder returns the byte order of the machine this is running on.
func SystemByteOrder() binary.ByteOrder {
	// See https://stackoverflow.com/questions/51332658/any-better-way-to-check-endianness-in-go/51332762
	b := [2]byte{ }
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	} else {
		return binary.LittleEndian
	}
}

// floatView interprets b as an array of float64s with the given byte order.
// If possible the returned slice aliases b. Otherwise, a new array is
// allocated. len(b) must be a multiple of 8.
func floatView(
	fname string, b []byte, order binary.ByteOrder,
) ([]float64, error) {
	if len(b) % 8 != 0 {
		return nil, g_error.Invalid("%s has %d bytes of particle data, which " +
			"isn't a multiple of 8. It's either not a file of doubles or " +
			"the offset is wrong.", fname, len(b))
	}

	n := len(b) / 8
	if n == 0 { return []float64{ }, nil }

	aligned := uintptr(unsafe.Pointer(&b[0])) % unsafe.Alignof(float64(0)) == 0
	if aligned && order == SystemByteOrder() {
		return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), n), nil
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = math.Float64frombits(order.Uint64(b[8*i: 8*i+8]))
	}
	return x, nil
}
