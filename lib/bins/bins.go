/*package bins counts how many particles fall into each cell of a regular grid
laid over a periodic simulation box.

A Grid is the histogram itself. Points are folded into the box with a Folder,
converted to a per-axis bin index, and mapped to a slot in the flat count
array by a Hasher. The x index varies fastest.
*/
package bins

import (
	"math"

	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
)

// Box gives the width of the periodic simulation box along each axis.
type Box [3]float64

// Index is the per-axis index of a bin.
type Index [3]int

// Folder wraps points back into a periodic box.
type Folder struct {
	L Box
}

// NewFolder returns a Folder for the box L. Every width must be positive and
// finite.
func NewFolder(L Box) (Folder, error) {
	if err := checkBox(L); err != nil { return Folder{ }, err }
	return Folder{ L }, nil
}

func checkBox(L Box) error {
	for k := range L {
		if !validWidth(L[k]) {
			return g_error.Invalid(
				"box width along axis %d must be positive and finite, got %g.",
				k, L[k],
			)
		}
	}
	return nil
}

func validWidth(L float64) bool { return L > 0 && !math.IsInf(L, 0) }

// Fold folds every axis of p into [0, L). A Folder that wasn't created by
// NewFolder (e.g. Folder{ }) is an error and p is left unchanged.
func (f Folder) Fold(p *[3]float64) error {
	if err := checkBox(f.L); err != nil { return err }
	f.fold(p)
	return nil
}

// fold is Fold without the check on f.L.
func (f Folder) fold(p *[3]float64) {
	for k := range p {
		p[k] = fold(p[k], f.L[k])
	}
}

// Fold returns x folded into [0, L). L must be positive and finite. Values
// already in range are returned unchanged, so Fold(-1, 10) = 9 and
// Fold(25, 10) = 5.
func Fold(x, L float64) (float64, error) {
	if !validWidth(L) {
		return 0, g_error.Invalid(
			"box width must be positive and finite, got %g.", L,
		)
	}
	return fold(x, L), nil
}

func fold(x, L float64) float64 {
	if x >= 0 && x < L { return x }

	x -= math.Floor(x / L) * L
	// Negative subnormals underflow x/L to -0 and come through unchanged.
	if x < 0 { x += L }
	// Tiny negative values round up to exactly L.
	if x >= L { x = math.Nextafter(L, 0) }
	return x
}

// Hasher converts between bin indices and slots in a flat array with x
// varying fastest.
type Hasher struct {
	NBins dims.Grid
	stride [3]int
}

// NewHasher returns a Hasher for a grid with the given number of bins on
// each axis.
func NewHasher(nBins dims.Grid) (Hasher, error) {
	h := Hasher{ NBins: nBins }
	for k := range nBins {
		if nBins[k] <= 0 {
			return Hasher{ }, g_error.Invalid(
				"axis %d of the grid has %d bins, but must be positive.",
				k, nBins[k],
			)
		}
	}

	h.stride[0] = 1
	for k := 1; k < len(h.stride); k++ {
		h.stride[k] = h.stride[k-1] * nBins[k-1]
	}
	return h, nil
}

// Len returns the number of slots in the grid.
func (h Hasher) Len() int { return h.NBins.Product() }

// Hash returns the slot of idx.
func (h Hasher) Hash(idx Index) int {
	i := 0
	for k := range idx {
		i += idx[k] * h.stride[k]
	}
	return i
}

// Unhash returns the index of slot i. It is the inverse of Hash.
func (h Hasher) Unhash(i int) Index {
	idx := Index{ }
	for k := len(idx) - 1; k >= 0; k-- {
		idx[k] = i / h.stride[k]
		i -= idx[k] * h.stride[k]
	}
	return idx
}

// Grid is a histogram of particle counts over the cells of a periodic box.
// A Grid is not safe for concurrent use. See InsertAllParallel for the
// parallel version.
type Grid struct {
	NBins dims.Grid
	Box, BinSize Box
	Counts []uint64

	fold Folder
	hash Hasher
}

// NewGrid creates an empty Grid with nBins cells along each axis of box.
func NewGrid(nBins dims.Grid, box Box) (*Grid, error) {
	fold, err := NewFolder(box)
	if err != nil { return nil, err }
	hash, err := NewHasher(nBins)
	if err != nil { return nil, err }

	g := &Grid{
		NBins: nBins, Box: box,
		Counts: make([]uint64, hash.Len()),
		fold: fold, hash: hash,
	}
	for k := range box {
		g.BinSize[k] = box[k] / float64(nBins[k])
	}

	return g, nil
}

// BinAll creates a Grid and inserts every point in x into it. See InsertAll.
func BinAll(nBins dims.Grid, box Box, x []float64) (*Grid, error) {
	g, err := NewGrid(nBins, box)
	if err != nil { return nil, err }
	if err = g.InsertAll(x); err != nil { return nil, err }
	return g, nil
}

// Index returns the index of the bin containing p.
func (g *Grid) Index(p [3]float64) Index {
	g.fold.fold(&p)

	idx := Index{ }
	for k := range p {
		f := p[k] / g.BinSize[k]
		// Points just below the upper edge can round into a bin that doesn't
		// exist. NaN fails both comparisons and goes to bin 0.
		switch {
		case f >= float64(g.NBins[k]): idx[k] = g.NBins[k] - 1
		case f >= 0: idx[k] = int(f)
		}
	}
	return idx
}

// Insert adds p to the grid. p does not need to be inside the box. Insert
// doesn't check p: a NaN or infinite coordinate is counted in bin 0 along that
// axis. InsertAll rejects such points.
func (g *Grid) Insert(p [3]float64) {
	g.Counts[g.hash.Hash(g.Index(p))]++
}

// InsertAll adds every point in x to the grid. x is a flat array of points,
// x[3*i : 3*i+3] being the i-th point, so len(x) must be a multiple of three.
// Points with NaN or infinite coordinates are an error. Points before the
// offending one will have already been inserted.
func (g *Grid) InsertAll(x []float64) error {
	if len(x) % 3 != 0 {
		return g_error.Invalid(
			"coordinate buffer has %d values, which isn't a multiple of 3.",
			len(x),
		)
	}

	return g.insertAll(x, 0)
}

// insertAll is InsertAll for a buffer whose first particle is particle
// number base of the full input. len(x) must be a multiple of 3.
func (g *Grid) insertAll(x []float64, base int) error {
	for i := 0; i < len(x); i += 3 {
		p := [3]float64{ x[i], x[i+1], x[i+2] }
		if !finite(p) {
			return g_error.Invalid("particle %d has position %g.",
				base + i/3, p)
		}
		g.Insert(p)
	}
	return nil
}

func finite(p [3]float64) bool {
	for k := range p {
		if math.IsNaN(p[k]) || math.IsInf(p[k], 0) { return false }
	}
	return true
}

// Count returns the number of particles in the bin idx.
func (g *Grid) Count(idx Index) uint64 {
	return g.Counts[g.hash.Hash(idx)]
}

// BinIndex returns the index of slot i of Counts.
func (g *Grid) BinIndex(i int) Index {
	return g.hash.Unhash(i)
}

// Total returns the number of particles in the grid.
func (g *Grid) Total() uint64 {
	sum := uint64(0)
	for _, n := range g.Counts { sum += n }
	return sum
}

// Reset sets every count to zero.
func (g *Grid) Reset() {
	for i := range g.Counts { g.Counts[i] = 0 }
}

// Add adds the counts of g2 to g. The two grids must have the same shape.
func (g *Grid) Add(g2 *Grid) error {
	if g.NBins != g2.NBins || g.Box != g2.Box {
		return g_error.Invalid(
			"can't add a %d grid over box %g to a %d grid over box %g.",
			g2.NBins, g2.Box, g.NBins, g.Box,
		)
	}
	for i := range g.Counts {
		g.Counts[i] += g2.Counts[i]
	}
	return nil
}

// CheckConsistency returns an error if the grid doesn't contain exactly one
// particle for every three values in a buffer of nValues coordinates.
func (g *Grid) CheckConsistency(nValues int) error {
	total := g.Total()
	if 3*total != uint64(nValues) {
		return g_error.Inconsistent(
			"binned %d particles, but the input had %d values (%d particles). " +
				"Particles disappeared.", total, nValues, nValues/3,
		)
	}
	return nil
}
