/*package report formats the results of an evaluation for humans.*/
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/phil-mansfield/imba/lib"
	"github.com/phil-mansfield/imba/lib/bins"
)

// Print writes a summary of res to w in the form:
//
//   File : snap.dat
//   NProc: 12 = 3 x 2 x 2
//   Box  : 100 100 100
//
//   File has 3000 elements.
//   Binned   1000 particles.
//
//   Min: 71
//   Max: 95
//   Mean: 83.3333
//   SDev: 7.10243 ( = 8.5 %)
func Print(w io.Writer, res *lib.Result) error {
	bw := bufio.NewWriter(w)
	s := res.Summary

	fmt.Fprintf(bw, "File : %s\n", res.FileFormat)
	fmt.Fprintf(bw, "NProc: %d = %d x %d x %d\n",
		res.NProc, res.Grid[0], res.Grid[1], res.Grid[2])
	fmt.Fprintf(bw, "Box  : %s %s %s\n\n",
		num(res.Box[0]), num(res.Box[1]), num(res.Box[2]))

	fmt.Fprintf(bw, "File has %d elements.\n", res.Values)
	fmt.Fprintf(bw, "Binned   %d particles.\n\n", s.Total)

	fmt.Fprintf(bw, "Min: %d\n", s.Min)
	fmt.Fprintf(bw, "Max: %d\n", s.Max)
	fmt.Fprintf(bw, "Mean: %s\n", num(s.Mean))
	fmt.Fprintf(bw, "SDev: %s ( = %s %%)\n", num(s.StdDev), num(s.RatioPercent))

	return bw.Flush()
}

// PrintHistogram writes one line per bin of g to w, giving the bin's index
// along each axis followed by its count.
func PrintHistogram(w io.Writer, g *bins.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %4s %4s %4s %12s\n", "i", "j", "k", "count")
	for i, n := range g.Counts {
		idx := g.BinIndex(i)
		fmt.Fprintf(bw, "  %4d %4d %4d %12d\n", idx[0], idx[1], idx[2], n)
	}
	return bw.Flush()
}

// num prints x with six significant figures and no trailing zeros.
func num(x float64) string {
	return fmt.Sprintf("%.6g", x)
}
