package snapio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/DataDog/zstd"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

const (
	// generateBlock is the number of particles generated per write.
	generateBlock = 1<<14
)

// Generate writes n particles uniformly distributed through the box
// [0, L[0]) x [0, L[1]) x [0, L[2]) to wr as raw doubles. The same seed
// always gives the same particles.
func Generate(
	wr io.Writer, n int, L [3]float64, seed uint64, order binary.ByteOrder,
) error {
	if n < 0 {
		return g_error.Invalid("can't generate %d particles.", n)
	}
	for k := range L {
		if !(L[k] > 0) {
			return g_error.Invalid("box width along axis %d must be " +
				"positive, got %g.", k, L[k])
		}
	}

	gen := NewRNG(seed)
	buf := make([]float64, 3*generateBlock)
	for start := 0; start < n; start += generateBlock {
		m := n - start
		if m > generateBlock { m = generateBlock }

		x := buf[:3*m]
		gen.UniformSequence(x)
		for i := range x { x[i] *= L[i % 3] }

		if err := binary.Write(wr, order, x); err != nil { return err }
	}
	return nil
}

// GenerateFile writes the output of Generate to the file fname. If format is
// ZStd, the file is compressed. Text output is not supported.
func GenerateFile(
	fname string, format Format, n int, L [3]float64,
	seed uint64, order binary.ByteOrder,
) error {
	if format == "" { format = InferFormat(fname) }
	if format != Raw && format != ZStd {
		return g_error.Invalid("can only generate 'raw' and 'zstd' files, " +
			"not '%s'.", format)
	}

	f, err := os.Create(fname)
	if err != nil { return g_error.IOf(err, "could not create %s", fname) }
	defer f.Close()

	var wr io.WriteCloser
	if format == ZStd {
		wr = zstd.NewWriter(f)
	} else {
		wr = nopCloser{ bufio.NewWriter(f) }
	}

	if err := Generate(wr, n, L, seed, order); err != nil {
		wr.Close()
		return err
	}
	if err := wr.Close(); err != nil {
		return g_error.IOf(err, "could not write %s", fname)
	}
	return f.Close()
}

type nopCloser struct {
	*bufio.Writer
}

func (wr nopCloser) Close() error { return wr.Flush() }
