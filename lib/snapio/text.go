package snapio

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// TextConfig contains the information needed to parse a text file of
// particle positions.
type TextConfig struct {
	Separator byte // Character separating fields. 0 means any whitespace.
	Comment byte // Character used to start comments.
	SkipLines int // Number of lines to skip at the start of file.
	Columns [3]int // Columns holding x, y, and z.
	MaxLineSize int // Largest possible line size.
}

// DefaultTextConfig reads files whose first three whitespace-separated
// columns are x, y, and z. Lines starting with '#' are ignored.
var DefaultTextConfig = TextConfig{
	Separator: 0,
	Comment: '#',
	SkipLines: 0,
	Columns: [3]int{0, 1, 2},
	MaxLineSize: 1<<20,
}

// OpenText reads the particle positions in a text file.
func OpenText(fname string, config TextConfig) (*MemFile, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, g_error.IOf(err, "could not open %s", fname) }
	defer f.Close()

	maxCol := 0
	for _, c := range config.Columns {
		if c < 0 {
			return nil, g_error.Invalid("column %d is negative.", c)
		}
		if c > maxCol { maxCol = c }
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<12), config.MaxLineSize)

	x := []float64{ }
	for line := 1; sc.Scan(); line++ {
		if line <= config.SkipLines { continue }

		text := strings.TrimSpace(sc.Text())
		if config.Comment != 0 {
			if i := strings.IndexByte(text, config.Comment); i >= 0 {
				text = strings.TrimSpace(text[:i])
			}
		}
		if len(text) == 0 { continue }

		var tok []string
		if config.Separator == 0 {
			tok = strings.Fields(text)
		} else {
			tok = strings.Split(text, string(config.Separator))
		}

		if len(tok) <= maxCol {
			return nil, g_error.IOf(errShortLine, "line %d of %s has %d " +
				"columns, but column %d is needed", line, fname, len(tok),
				maxCol)
		}

		for _, c := range config.Columns {
			v, err := strconv.ParseFloat(strings.TrimSpace(tok[c]), 64)
			if err != nil {
				return nil, g_error.IOf(err, "line %d of %s", line, fname)
			}
			x = append(x, v)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, g_error.IOf(err, "could not read %s", fname)
	}

	return &MemFile{ x }, nil
}

var errShortLine = errors.New("too few columns")
