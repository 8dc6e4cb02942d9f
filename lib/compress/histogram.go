package compress

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
)

const (
	// MagicNumber is an arbirary number at the start of all imba histogram
	// files which should help identify when the code is run on something else
	// by accident.
	MagicNumber = 0x1ba0ba11
	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber = 0x11baa01b
	Version = 1
)

// FixedWidthHeader is the part of the header which has the same size for
// every histogram.
type FixedWidthHeader struct {
	// NBins gives the number of bins along each dimension.
	NBins [3]int64
	// L gives the width of the box along each dimension.
	L [3]float64
	// Total is the number of particles in the histogram and NValues is the
	// number of coordinate values they were read from.
	Total, NValues uint64
}

// Header describes a histogram file.
type Header struct {
	FixedWidthHeader
	// Files lists the snapshot files that were binned.
	Files []string
}

// NewHeader creates a Header describing g. nValues is the number of
// coordinate values that were read to create g.
func NewHeader(g *bins.Grid, nValues int, files []string) *Header {
	hd := &Header{ Files: append([]string{ }, files...) }
	for k := 0; k < 3; k++ {
		hd.NBins[k] = int64(g.NBins[k])
		hd.L[k] = g.Box[k]
	}
	hd.Total, hd.NValues = g.Total(), uint64(nValues)
	return hd
}

// Grid creates an empty bins.Grid with the shape given by the header.
func (hd *Header) Grid() (*bins.Grid, error) {
	nBins := dims.Grid{ }
	for k := range nBins { nBins[k] = int(hd.NBins[k]) }
	return bins.NewGrid(nBins, bins.Box(hd.L))
}

func (hd *Header) read(rd io.Reader, order binary.ByteOrder) error {
	err := binary.Read(rd, order, &hd.FixedWidthHeader)
	if err != nil { return err }

	var nFiles uint32
	if err := binary.Read(rd, order, &nFiles); err != nil { return err }

	nNames := make([]uint32, nFiles)
	if err := binary.Read(rd, order, nNames); err != nil { return err }

	hd.Files = make([]string, nFiles)
	for i := range hd.Files {
		b := make([]byte, nNames[i])
		if _, err := io.ReadFull(rd, b); err != nil { return err }
		hd.Files[i] = string(b)
	}

	return nil
}

func (hd *Header) write(wr io.Writer, order binary.ByteOrder) error {
	err := binary.Write(wr, order, &hd.FixedWidthHeader)
	if err != nil { return err }

	nFiles := uint32(len(hd.Files))
	if err := binary.Write(wr, order, nFiles); err != nil { return err }

	nNames := make([]uint32, nFiles)
	for i := range nNames { nNames[i] = uint32(len(hd.Files[i])) }
	if err := binary.Write(wr, order, nNames); err != nil { return err }

	for i := range hd.Files {
		if _, err := io.WriteString(wr, hd.Files[i]); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes a histogram to wr using the given byte order.
func Encode(
	wr io.Writer, hd *Header, counts []uint64, order binary.ByteOrder,
) error {
	n := hd.NBins[0]*hd.NBins[1]*hd.NBins[2]
	if n != int64(len(counts)) {
		return g_error.Invalid("header describes %d bins, but %d counts " +
			"were given.", n, len(counts))
	}

	err := binary.Write(wr, order, []uint32{ MagicNumber, Version })
	if err != nil { return err }
	if err = hd.write(wr, order); err != nil { return err }

	_, _, err = WriteCompressedUintsZStd(counts, nil, nil, wr, order)
	return err
}

// Decode reads a histogram written by Encode.
func Decode(rd io.Reader) (*Header, []uint64, error) {
	order, err := checkHeader(rd)
	if err != nil { return nil, nil, err }

	hd := &Header{ }
	if err = hd.read(rd, order); err != nil { return nil, nil, err }

	n := hd.NBins[0]*hd.NBins[1]*hd.NBins[2]
	if hd.NBins[0] <= 0 || hd.NBins[1] <= 0 || hd.NBins[2] <= 0 {
		return nil, nil, fmt.Errorf("the header has %d bins.", hd.NBins)
	}

	counts := make([]uint64, n)
	_, _, err = ReadCompressedUintsZStd(rd, nil, nil, counts, order)
	if err != nil { return nil, nil, err }

	return hd, counts, nil
}

// WriteHistogram writes the histogram g to the file fname. nValues and files
// are stored in the header.
func WriteHistogram(
	fname string, g *bins.Grid, nValues int, files []string,
	order binary.ByteOrder,
) error {
	buf := &bytes.Buffer{ }
	hd := NewHeader(g, nValues, files)
	if err := Encode(buf, hd, g.Counts, order); err != nil {
		return g_error.IOf(err, "could not encode histogram for '%s'", fname)
	}

	if err := os.WriteFile(fname, buf.Bytes(), 0644); err != nil {
		return g_error.IOf(err, "could not write histogram file")
	}
	return nil
}

// ReadHistogram reads a histogram file written by WriteHistogram.
func ReadHistogram(fname string) (*Header, *bins.Grid, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, g_error.IOf(err, "could not open histogram file")
	}
	defer f.Close()

	hd, counts, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, nil, g_error.IOf(err, "could not read '%s'", fname)
	}

	g, err := hd.Grid()
	if err != nil { return nil, nil, err }
	copy(g.Counts, counts)

	if g.Total() != hd.Total {
		return nil, nil, g_error.Inconsistent("'%s' says it contains %d " +
			"particles, but its bins sum to %d.", fname, hd.Total, g.Total())
	}

	return hd, g, nil
}

// checkHeader reads in the magic number and version number and makes sure
// that imba can actually read the histogram. If it can, the byte order is
// returned. Otherwise an error is returned.
func checkHeader(rd io.Reader) (binary.ByteOrder, error) {
	var magicNumber, version uint32

	order := binary.ByteOrder(binary.LittleEndian)
	err := binary.Read(rd, order, &magicNumber)
	if err != nil { return nil, err }

	switch magicNumber {
	case MagicNumber:
	case ReverseMagicNumber: order = binary.BigEndian
	default:
		return nil, fmt.Errorf("this is not an imba histogram. All " +
			"histograms begin with either the 32-bit integer %x or %x. This " +
			"file begins with %x.", MagicNumber, ReverseMagicNumber,
			magicNumber)
	}

	err = binary.Read(rd, order, &version)
	if err != nil { return nil, err }
	if version > Version {
		return nil, fmt.Errorf("the histogram was written by version %d of " +
			"the format, but this is version %d.", version, Version)
	}

	return order, nil
}
