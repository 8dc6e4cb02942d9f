package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/dims"
	"github.com/phil-mansfield/imba/lib/eq"
	g_error "github.com/phil-mansfield/imba/lib/error"
)

func TestColumns(t *testing.T) {
	u := []uint64{ 0, 1, 0xff, 0x100, 0xdeadbeef, 1<<63 + 7 }
	b := make([]byte, len(u))
	out := make([]uint64, len(u))

	for col := 0; col < Columns; col++ {
		uintToByte(u, b, col)
		byteToUint(b, out, col)
	}

	if !eq.Uint64s(u, out) {
		t.Errorf("Expected byte columns to reassemble %x, got %x.", u, out)
	}

	uintToByte(u, b, 1)
	exp := []byte{ 0, 0, 0, 1, 0xbe, 0 }
	if !eq.Bytes(b, exp) {
		t.Errorf("Expected column 1 of %x to be %x, got %x.", u, exp, b)
	}
}

func TestCompressedUintsZStd(t *testing.T) {
	tests := [][]uint64{
		{ 0 },
		{ 1, 2, 3 },
		{ 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3 },
		{ 1<<40, 0, 1<<20, 1<<63 },
	}

	orders := []binary.ByteOrder{ binary.LittleEndian, binary.BigEndian }
	var b, buf []byte

	for i := range tests {
		for _, order := range orders {
			var err error
			wr := &bytes.Buffer{ }
			b, buf, err = WriteCompressedUintsZStd(tests[i], b, buf, wr, order)
			if err != nil {
				t.Errorf("%d) Got error '%s' while writing.", i, err.Error())
				continue
			}

			out := make([]uint64, len(tests[i]))
			for j := range out { out[j] = 17 }
			b, buf, err = ReadCompressedUintsZStd(wr, b, buf, out, order)
			if err != nil {
				t.Errorf("%d) Got error '%s' while reading.", i, err.Error())
			} else if !eq.Uint64s(out, tests[i]) {
				t.Errorf("%d) Expected %d, got %d.", i, tests[i], out)
			}
		}
	}
}

func TestReadCompressedUintsShort(t *testing.T) {
	wr := &bytes.Buffer{ }
	u := []uint64{ 1, 2, 3, 4 }
	_, _, err := WriteCompressedUintsZStd(u, nil, nil, wr, binary.LittleEndian)
	if err != nil { t.Fatal(err) }

	out := make([]uint64, 5)
	rd := bytes.NewReader(wr.Bytes())
	_, _, err = ReadCompressedUintsZStd(rd, nil, nil, out, binary.LittleEndian)
	if err == nil {
		t.Errorf("Expected error when reading 4 values into 5 slots.")
	}

	rd = bytes.NewReader(wr.Bytes()[:wr.Len()/2])
	out = make([]uint64, 4)
	_, _, err = ReadCompressedUintsZStd(rd, nil, nil, out, binary.LittleEndian)
	if err == nil {
		t.Errorf("Expected error when reading a truncated buffer.")
	}
}

func testGrid(t *testing.T) *bins.Grid {
	g, err := bins.NewGrid(dims.Grid{ 3, 2, 2 }, bins.Box{ 6, 4, 4 })
	if err != nil { t.Fatal(err) }
	for i := range g.Counts { g.Counts[i] = uint64(i*i) }
	return g
}

func TestEncodeDecode(t *testing.T) {
	g := testGrid(t)
	files := []string{ "snap.0", "snap.1", "" }

	for _, order := range []binary.ByteOrder{
		binary.LittleEndian, binary.BigEndian,
	} {
		buf := &bytes.Buffer{ }
		hd := NewHeader(g, 3*int(g.Total()), files)
		if err := Encode(buf, hd, g.Counts, order); err != nil {
			t.Fatalf("Got error '%s' while encoding.", err.Error())
		}

		hd2, counts, err := Decode(buf)
		if err != nil {
			t.Fatalf("Got error '%s' while decoding.", err.Error())
		}

		if hd2.FixedWidthHeader != hd.FixedWidthHeader {
			t.Errorf("Expected header %v, got %v.",
				hd.FixedWidthHeader, hd2.FixedWidthHeader)
		}
		if !eq.Strings(hd2.Files, files) {
			t.Errorf("Expected files %s, got %s.", files, hd2.Files)
		}
		if !eq.Uint64s(counts, g.Counts) {
			t.Errorf("Expected counts %d, got %d.", g.Counts, counts)
		}
	}
}

func TestEncodeMismatch(t *testing.T) {
	g := testGrid(t)
	hd := NewHeader(g, 0, nil)
	err := Encode(&bytes.Buffer{ }, hd, g.Counts[1:], binary.LittleEndian)
	if !errors.Is(err, g_error.InvalidArgument) {
		t.Errorf("Expected invalid argument error, got %v.", err)
	}
}

func TestDecodeNotHistogram(t *testing.T) {
	rd := bytes.NewReader([]byte{ 1, 2, 3, 4, 5, 6, 7, 8, 9, 10 })
	if _, _, err := Decode(rd); err == nil {
		t.Errorf("Expected error when decoding garbage.")
	}

	buf := &bytes.Buffer{ }
	binary.Write(buf, binary.LittleEndian, []uint32{ MagicNumber, Version+1 })
	if _, _, err := Decode(buf); err == nil {
		t.Errorf("Expected error when decoding a newer version.")
	}
}

func TestHistogramFile(t *testing.T) {
	g := testGrid(t)
	fname := filepath.Join(t.TempDir(), "hist.imba")
	files := []string{ "a.dat", "b.dat" }

	err := WriteHistogram(fname, g, 3*int(g.Total()), files,
		binary.LittleEndian)
	if err != nil { t.Fatal(err) }

	hd, g2, err := ReadHistogram(fname)
	if err != nil { t.Fatal(err) }

	if g2.NBins != g.NBins || g2.Box != g.Box {
		t.Errorf("Expected grid shape %d over %g, got %d over %g.",
			g.NBins, g.Box, g2.NBins, g2.Box)
	}
	if !eq.Uint64s(g2.Counts, g.Counts) {
		t.Errorf("Expected counts %d, got %d.", g.Counts, g2.Counts)
	}
	if hd.NValues != 3*g.Total() || !eq.Strings(hd.Files, files) {
		t.Errorf("Expected NValues = %d and files %s, got %d and %s.",
			3*g.Total(), files, hd.NValues, hd.Files)
	}

	_, _, err = ReadHistogram(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, g_error.IO) {
		t.Errorf("Expected I/O error for a missing file, got %v.", err)
	}
}
