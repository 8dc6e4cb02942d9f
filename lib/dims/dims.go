/*package dims splits a number of processes into a three dimensional grid of
process domains.

The grid is built greedily: the prime factors of the process count are
handed out from largest to smallest, and each one multiplies whichever axis
is currently smallest. This is the same heuristic used by many simple
MPI_Dims_create replacements. It does not find the most cube-like grid in
general, and process counts with large prime factors give long, thin grids
(e.g. 97 processes gives a 97 x 1 x 1 grid).
*/
package dims

import (
	g_error "github.com/phil-mansfield/imba/lib/error"
)

// Grid is the number of process domains along each axis.
type Grid [3]int

// Product returns the total number of domains in the grid.
func (g Grid) Product() int {
	return g[0] * g[1] * g[2]
}

// PrimeFactors returns the prime factors of n in ascending order, with
// repeated factors repeated. PrimeFactors(1) is empty.
func PrimeFactors(n int) ([]int, error) {
	if n <= 0 {
		return nil, g_error.Invalid(
			"can only factor positive integers, got %d.", n,
		)
	}

	fs := []int{ }
	for p := 2; n > 1; p++ {
		// Anything left over after p > n/p is prime.
		if p > n/p {
			fs = append(fs, n)
			break
		}
		for n % p == 0 {
			fs = append(fs, p)
			n /= p
		}
	}
	return fs, nil
}

// Create returns a grid of process domains whose product is nProc.
func Create(nProc int) (Grid, error) {
	if nProc <= 0 {
		return Grid{ }, g_error.Invalid(
			"the number of processes must be positive, got %d.", nProc,
		)
	}

	fs, err := PrimeFactors(nProc)
	if err != nil { return Grid{ }, err }

	g := Grid{ 1, 1, 1 }
	// fs is ascending, so walk it backwards.
	for i := len(fs) - 1; i >= 0; i-- {
		g[minIndex(g)] *= fs[i]
	}
	return g, nil
}

// minIndex returns the index of the smallest element of g. Ties go to the
// lowest index.
func minIndex(g Grid) int {
	j := 0
	for i := 1; i < len(g); i++ {
		if g[i] < g[j] { j = i }
	}
	return j
}
