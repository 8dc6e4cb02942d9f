/*package format handles imba's miniature formatting language for naming
snapshots that are split across many files, e.g:

   File = "snapdir_100/positions.{%03d,0..511}.dat"
   File = "sheet{%d,0..3}{%d,0..3}{%d,0..3}.dat"
   File = "out/rank_{%04d,0..127 - 63}.bin"

File format strings are a combination of fixed text and variables. Variables
are written as {verb,sequence}. "verb" is a printf() verb (e.g. %03d) that
specifies how the variable should be printed and "sequence" is a sequence
format giving the values that the variable takes on. If there are several
variables, every combination is generated, with the last variable changing
fastest. A string without variables expands to itself.

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of tokens separated by "+" or "-".
Each token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous, inclusive ranges. Every addition is applied before any
removal, so "-3 + 3..5" is the same as "3..5 - 3". Removing a number that was
never added is an error. All spaces around "-", "+", and ","
symbols are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1<<20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil { return nil, err }
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil { return nil, err }

	set := map[int]bool{ }
	for _, t := range adds {
		lo, hi := sequenceTokenBounds(t)
		if len(set) + (hi - lo + 1) > BigNumber {
			return nil, g_error.Invalid("the sequence '%s' has more than %d " +
				"elements, which is almost certainly a bug.", format, BigNumber)
		}
		for n := lo; n <= hi; n++ {
			if set[n] {
				return nil, g_error.Invalid("the number %d is added to '%s' " +
					"more than once.", n, format)
			}
			set[n] = true
		}
	}

	for _, t := range subs {
		lo, hi := sequenceTokenBounds(t)
		for n := lo; n <= hi; n++ {
			if !set[n] {
				return nil, g_error.Invalid("the number %d is removed from " +
					"'%s' without being added first.", n, format)
			}
			delete(set, n)
		}
	}

	out := make([]int, 0, len(set))
	for n := range set { out = append(out, n) }
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format into numbers, ranges, and
// operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	spaced := strings.ReplaceAll(format, "+", " + ")
	spaced = strings.ReplaceAll(spaced, "-", " - ")

	tok := strings.Fields(spaced)
	if len(tok) == 0 {
		return nil, g_error.Invalid("the sequence format is empty.")
	}
	return tok, nil
}

// addsSubsSequenceFormat sorts the tokens of a sequence into the ones which
// are added and the ones which are removed. A leading "+" is optional.
func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if tok[0] != "+" && tok[0] != "-" {
		tok = append([]string{ "+" }, tok...)
	}

	for i := 0; i < len(tok); i += 2 {
		op := tok[i]
		if op != "+" && op != "-" {
			return nil, nil, g_error.Invalid("element number %d of the " +
				"sequence, '%s', should be a '-' or '+', but isn't.", i, op)
		} else if i + 1 >= len(tok) {
			return nil, nil, g_error.Invalid("the sequence ends in a " +
				"trailing '%s'.", op)
		}

		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, g_error.Invalid("element number %d of the " +
				"sequence, '%s', can't be parsed because %s", i+1,
				tok[i+1], err.Error())
		}

		if op == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid number or range
// and an error describing the problem otherwise. The error message assumes it
// is printed after a trailing "because".
func isSequenceFormatToken(tok string) error {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		if _, err := strconv.Atoi(bounds[0]); err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		lo, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		hi, err := strconv.Atoi(bounds[1])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if hi < lo {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				lo, hi)
		}
		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// sequenceTokenBounds returns the inclusive range described by a token which
// has already passed isSequenceFormatToken.
func sequenceTokenBounds(tok string) (lo, hi int) {
	bounds := strings.Split(tok, "..")
	lo, _ = strconv.Atoi(bounds[0])
	hi = lo
	if len(bounds) == 2 { hi, _ = strconv.Atoi(bounds[1]) }
	return lo, hi
}

// fileVar is a single {verb,sequence} variable in a file format.
type fileVar struct {
	verb string
	values []int
}

// ExpandFileFormat expands a file format string into the list of file names
// it describes.
func ExpandFileFormat(format string) ([]string, error) {
	seps, vars, err := parseFileFormat(format)
	if err != nil { return nil, err }

	total := 1
	for _, v := range vars {
		total *= len(v.values)
		if total > BigNumber {
			return nil, g_error.Invalid("the file format '%s' expands to " +
				"more than %d files, which is almost certainly a bug.",
				format, BigNumber)
		}
	}

	names := make([]string, 0, total)
	idx := make([]int, len(vars))
	for i := 0; i < total; i++ {
		sb := &strings.Builder{ }
		for j := range vars {
			sb.WriteString(seps[j])
			fmt.Fprintf(sb, vars[j].verb, vars[j].values[idx[j]])
		}
		sb.WriteString(seps[len(vars)])
		names = append(names, sb.String())

		// Odometer increment, last variable fastest.
		for j := len(idx) - 1; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(vars[j].values) { break }
			idx[j] = 0
		}
	}

	return names, nil
}

// parseFileFormat splits a file format into the fixed text between
// variables and the variables themselves. len(seps) = len(vars) + 1.
func parseFileFormat(format string) (seps []string, vars []fileVar, err error) {
	ending := " Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	start := 0
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '}':
			return nil, nil, g_error.Invalid("the file format '%s' has a '}' " +
				"at index %d that doesn't come after a '{'." + ending,
				format, i)
		case '{':
			end := strings.IndexAny(format[i+1:], "{}")
			if end == -1 {
				return nil, nil, g_error.Invalid("the file format '%s' has a " +
					"'{' at index %d without a matching '}'." + ending,
					format, i)
			} else if format[i+1+end] == '{' {
				return nil, nil, g_error.Invalid("the file format '%s' has " +
					"nested '{' characters at indices %d and %d." + ending,
					format, i, i+1+end)
			}
			end += i + 1

			v, err := parseFileVar(format[i+1: end])
			if err != nil {
				return nil, nil, g_error.Invalid("the file format '%s' has " +
					"an invalid variable, '%s': %s", format,
					format[i: end+1], err.Error())
			}

			seps = append(seps, format[start: i])
			vars = append(vars, v)
			start, i = end+1, end
		}
	}
	seps = append(seps, format[start:])

	return seps, vars, nil
}

// parseFileVar parses the body of a {verb,sequence} variable.
func parseFileVar(body string) (fileVar, error) {
	tok := strings.SplitN(body, ",", 2)
	if len(tok) != 2 {
		return fileVar{ }, fmt.Errorf("variables should contain a " +
			"formatting verb (e.g. '%%03d'), a comma, and a sequence " +
			"(e.g. '0..511').")
	}

	verb := strings.TrimSpace(tok[0])
	if !strings.HasPrefix(verb, "%") || !strings.HasSuffix(verb, "d") ||
		strings.Count(verb, "%") != 1 {
		return fileVar{ }, fmt.Errorf("'%s' is not an integer printf verb.",
			verb)
	}

	values, err := ExpandSequenceFormat(tok[1])
	if err != nil { return fileVar{ }, err }

	return fileVar{ verb, values }, nil
}
