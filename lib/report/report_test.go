package report

import (
	"bytes"
	"testing"

	"github.com/phil-mansfield/imba/lib"
	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/dims"
	"github.com/phil-mansfield/imba/lib/stats"
)

func TestPrint(t *testing.T) {
	g, err := bins.NewGrid(dims.Grid{ 3, 1, 1 }, bins.Box{ 30, 10, 10 })
	if err != nil { t.Fatal(err) }
	copy(g.Counts, []uint64{ 2, 4, 6 })

	s, err := stats.Summarize(g.Counts)
	if err != nil { t.Fatal(err) }

	res := &lib.Result{
		FileFormat: "snap.{%d,0..1}", Files: []string{ "snap.0", "snap.1" },
		NProc: 3, Grid: g.NBins, Box: g.Box,
		Values: 36, Histogram: g, Summary: s,
	}

	buf := &bytes.Buffer{ }
	if err := Print(buf, res); err != nil { t.Fatal(err) }

	exp := `File : snap.{%d,0..1}
NProc: 3 = 3 x 1 x 1
Box  : 30 10 10

File has 36 elements.
Binned   12 particles.

Min: 2
Max: 6
Mean: 4
SDev: 1.63299 ( = 40.8 %)
`
	if buf.String() != exp {
		t.Errorf("Expected output:\n%s\ngot:\n%s", exp, buf.String())
	}
}

func TestPrintHistogram(t *testing.T) {
	g, err := bins.NewGrid(dims.Grid{ 2, 1, 2 }, bins.Box{ 1, 1, 1 })
	if err != nil { t.Fatal(err) }
	copy(g.Counts, []uint64{ 1, 2, 3, 4 })

	buf := &bytes.Buffer{ }
	if err := PrintHistogram(buf, g); err != nil { t.Fatal(err) }

	exp := "#    i    j    k        count\n" +
		"     0    0    0            1\n" +
		"     1    0    0            2\n" +
		"     0    0    1            3\n" +
		"     1    0    1            4\n"
	if buf.String() != exp {
		t.Errorf("Expected output:\n%s\ngot:\n%s", exp, buf.String())
	}
}
