/*package stats reduces a histogram of particle counts to the numbers used to
judge how well balanced a domain decomposition is.
*/
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// Summary holds the distribution statistics of a histogram.
type Summary struct {
	Bins int // Number of cells in the histogram.
	Total uint64 // Number of particles in the histogram.
	Min, Max uint64
	Mean float64
	// Var is the population variance: it is not Bessel-corrected.
	Var float64
	StdDev float64
	// RatioPercent is StdDev/Mean as a percentage, truncated (not rounded)
	// to one decimal place.
	RatioPercent float64
}

// Summarize computes the Summary of counts, which must be non-empty.
func Summarize(counts []uint64) (*Summary, error) {
	if len(counts) == 0 {
		return nil, g_error.Invalid("can't compute statistics of an empty " +
			"histogram.")
	}

	x := toFloats(counts)
	s := &Summary{ Bins: len(counts) }
	for _, n := range counts { s.Total += n }

	// Counts above 2^53 don't survive the trip through float64.
	s.Min, s.Max = counts[0], counts[0]
	for _, n := range counts[1:] {
		if n < s.Min { s.Min = n }
		if n > s.Max { s.Max = n }
	}
	s.Mean = float64(s.Total) / float64(len(counts))
	s.Var = variance(x, s.Mean)
	s.StdDev = math.Sqrt(s.Var)
	s.RatioPercent = RatioPercent(s.StdDev, s.Mean)

	return s, nil
}

// Mean returns the mean of counts, which must be non-empty.
func Mean(counts []uint64) (float64, error) {
	if len(counts) == 0 {
		return 0, g_error.Invalid("can't compute the mean of an empty " +
			"histogram.")
	}
	return floats.Sum(toFloats(counts)) / float64(len(counts)), nil
}

// Var returns the population variance of counts, which must be non-empty.
// It is computed as <x^2> - <x>^2.
func Var(counts []uint64) (float64, error) {
	mean, err := Mean(counts)
	if err != nil { return 0, err }
	return variance(toFloats(counts), mean), nil
}

func variance(x []float64, mean float64) float64 {
	v := floats.Dot(x, x) / float64(len(x)) - mean*mean
	// Cancellation can leave identical counts with a tiny negative variance.
	if v < 0 { v = 0 }
	return v
}

// RatioPercent returns 100*stdDev/mean truncated to one decimal place. An
// empty box has no imbalance, so a mean of zero gives zero.
func RatioPercent(stdDev, mean float64) float64 {
	if mean == 0 { return 0 }
	return math.Floor(stdDev / mean * 1000) / 10
}

func toFloats(counts []uint64) []float64 {
	x := make([]float64, len(counts))
	for i := range counts { x[i] = float64(counts[i]) }
	return x
}
