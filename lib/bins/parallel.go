package bins

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
)

const (
	// ChunkPoints is the number of points a worker bins between checks for
	// cancellation.
	ChunkPoints = 1<<16
)

// BinAllParallel creates a Grid and inserts every point in x into it using
// workers goroutines. See InsertAllParallel.
func BinAllParallel(
	ctx context.Context, nBins dims.Grid, box Box, x []float64, workers int,
) (*Grid, error) {
	g, err := NewGrid(nBins, box)
	if err != nil { return nil, err }
	if err = g.InsertAllParallel(ctx, x, workers); err != nil {
		return nil, err
	}
	return g, nil
}

// InsertAllParallel is identical to InsertAll, but splits x into workers
// contiguous pieces which are binned into private grids and summed into g
// once every worker finishes. If any worker fails or ctx is cancelled, g is
// left unchanged.
func (g *Grid) InsertAllParallel(
	ctx context.Context, x []float64, workers int,
) error {
	if len(x) % 3 != 0 {
		return g_error.Invalid(
			"coordinate buffer has %d values, which isn't a multiple of 3.",
			len(x),
		)
	} else if workers <= 0 {
		return g_error.Invalid("need a positive number of workers, got %d.",
			workers)
	}

	starts, ends := splitPoints(len(x)/3, workers)
	local := make([]*Grid, len(starts))
	for i := range local {
		var err error
		local[i], err = NewGrid(g.NBins, g.Box)
		if err != nil { return err }
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range local {
		i := i
		eg.Go(func() error {
			return local[i].insertChunked(
				ctx, x[3*starts[i]: 3*ends[i]], starts[i],
			)
		})
	}
	if err := eg.Wait(); err != nil { return err }

	for i := range local {
		if err := g.Add(local[i]); err != nil { return err }
	}
	return nil
}

// insertChunked inserts x in pieces of ChunkPoints, checking ctx in between.
// base is the number of the first particle in x within the full input.
func (g *Grid) insertChunked(
	ctx context.Context, x []float64, base int,
) error {
	for start := 0; start < len(x); start += 3*ChunkPoints {
		if err := ctx.Err(); err != nil { return err }

		end := start + 3*ChunkPoints
		if end > len(x) { end = len(x) }
		err := g.insertAll(x[start: end], base + start/3)
		if err != nil { return err }
	}
	return nil
}

// splitPoints splits n points into at most workers contiguous ranges
// [starts[i], ends[i]) whose sizes differ by at most one. Empty ranges are
// dropped.
func splitPoints(n, workers int) (starts, ends []int) {
	if workers > n { workers = n }
	if workers == 0 { return []int{ }, []int{ } }

	starts, ends = make([]int, workers), make([]int, workers)
	size, extra := n / workers, n % workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < extra { end++ }
		starts[i], ends[i] = start, end
		start = end
	}
	return starts, ends
}
