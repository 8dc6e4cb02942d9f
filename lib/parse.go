package lib

import (
	"encoding/binary"
	"math"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
	"github.com/phil-mansfield/imba/lib/format"
	"github.com/phil-mansfield/imba/lib/snapio"
)

// ExampleConfig is an annotated config file which can be used as a starting
// point by users.
const ExampleConfig = `[Imba]

#####################
# Required variables #
#####################

# File is the snapshot to evaluate. It can be a single file or a file format
# that expands to several files, e.g. snap.{%03d,0..7}, which are binned
# together. See the documentation of lib/format for the full syntax.
File = snap.dat

# Box gives the width of the periodic simulation box along each dimension.
Box = 100, 100, 100

# NProc is the number of processes the snapshot would be decomposed over.
NProc = 64

#####################
# Optional variables #
#####################

# InputFormat is the format of the snapshot: "raw" (flat array of doubles),
# "zstd" (zstd-compressed raw file), or "text" (x y z columns). If not set,
# it's inferred from the file extension.
# InputFormat = raw

# ByteOrder is the byte order of binary snapshots: "little", "big", or
# "native". Defaults to native.
# ByteOrder = native

# Offset is the number of bytes to skip at the start of binary snapshots.
# Offset = 0

# Workers is the number of goroutines that bin particles. 1 is serial, -1 is
# one worker per core. Defaults to 1.
# Workers = 1

# Threads is the number of OS threads used. -1 is one per core, which is
# also the default.
# Threads = -1

# HistogramFile is a file that the full histogram is written to. If not set,
# it isn't written.
# HistogramFile = hist.imba

# Strictness tells the check command what to do when it finds a problem:
# "crash" or "warn". Defaults to crash.
# Strictness = crash
`

// RawArgs stores the unprocessed values which the user assigned to each config
// variable.
type RawArgs struct {
	File, Box string
	NProc int
	InputFormat, ByteOrder string
	Offset int64
	Workers, Threads int
	HistogramFile string
	Strictness string
}

// configFile is the layout that gcfg reads config files into.
type configFile struct {
	Imba RawArgs
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	// FileFormat is the unexpanded File variable and Files is its expansion.
	FileFormat string
	Files []string
	Box bins.Box
	NProc int
	Grid dims.Grid

	Format snapio.Format
	Order binary.ByteOrder
	Offset int64

	Workers, Threads int
	RunMode RunMode

	HistogramFile string
	Strictness CheckStrictness
}

// ParseConfigFile parses arguements from a config file.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	cfg := &configFile{ }
	if err := gcfg.ReadFileInto(cfg, fileName); err != nil {
		return nil, g_error.Invalid("could not parse config file '%s': %s",
			fileName, err.Error())
	}
	return &cfg.Imba, nil
}

// ParseConfigString parses arguments from the text of a config file.
func ParseConfigString(text string) (*RawArgs, error) {
	cfg := &configFile{ }
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, g_error.Invalid("could not parse config: %s", err.Error())
	}
	return &cfg.Imba, nil
}

// Overwrite arguments in arg1 which have been set to non-default values in
// arg2.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	if arg2.File != "" { arg1.File = arg2.File }
	if arg2.Box != "" { arg1.Box = arg2.Box }
	if arg2.NProc != 0 { arg1.NProc = arg2.NProc }
	if arg2.InputFormat != "" { arg1.InputFormat = arg2.InputFormat }
	if arg2.ByteOrder != "" { arg1.ByteOrder = arg2.ByteOrder }
	if arg2.Offset != 0 { arg1.Offset = arg2.Offset }
	if arg2.Workers != 0 { arg1.Workers = arg2.Workers }
	if arg2.Threads != 0 { arg1.Threads = arg2.Threads }
	if arg2.HistogramFile != "" { arg1.HistogramFile = arg2.HistogramFile }
	if arg2.Strictness != "" { arg1.Strictness = arg2.Strictness }
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files.
func (raw *RawArgs) Process() (*Args, error) {
	args := &Args{ FileFormat: raw.File, HistogramFile: raw.HistogramFile }
	var err error

	if raw.File == "" {
		return nil, g_error.Invalid("the File variable wasn't set.")
	}
	args.Files, err = format.ExpandFileFormat(raw.File)
	if err != nil { return nil, err }

	if args.Box, err = ParseBox(raw.Box); err != nil { return nil, err }

	if raw.NProc <= 0 {
		return nil, g_error.Invalid("NProc must be set to a positive " +
			"number, but is %d.", raw.NProc)
	}
	args.NProc = raw.NProc
	if args.Grid, err = dims.Create(raw.NProc); err != nil { return nil, err }

	args.Format, err = snapio.ParseFormat(raw.InputFormat)
	if err != nil { return nil, err }
	args.Order, err = snapio.ParseByteOrder(raw.ByteOrder)
	if err != nil { return nil, err }

	if raw.Offset < 0 {
		return nil, g_error.Invalid("Offset must be non-negative, but is %d.",
			raw.Offset)
	}
	args.Offset = raw.Offset

	switch {
	case raw.Workers == 0: args.Workers = 1
	case raw.Workers == -1: args.Workers = runtime.NumCPU()
	case raw.Workers < 0:
		return nil, g_error.Invalid("Workers must be positive or -1, but " +
			"is %d.", raw.Workers)
	default: args.Workers = raw.Workers
	}
	if args.Workers == 1 {
		args.RunMode = SerialMode
	} else {
		args.RunMode = ParallelMode
	}

	args.Threads = raw.Threads
	if args.Threads == 0 { args.Threads = -1 }
	if args.Threads, err = ResolveThreads(args.Threads); err != nil {
		return nil, err
	}

	switch strings.ToLower(raw.Strictness) {
	case "", "crash": args.Strictness = CrashOnError
	case "warn": args.Strictness = WarnOnError
	default:
		return nil, g_error.Invalid("'%s' is not a valid Strictness. Only " +
			"'crash' and 'warn' are valid.", raw.Strictness)
	}

	return args, nil
}

// ParseBox parses a box given as three comma-separated widths, e.g.
// "100, 100, 50".
func ParseBox(s string) (bins.Box, error) {
	box := bins.Box{ }
	tok := strings.Split(s, ",")
	if len(tok) != 3 {
		return box, g_error.Invalid("Box must be three comma-separated " +
			"widths, but is '%s'.", s)
	}

	for k := range tok {
		L, err := strconv.ParseFloat(strings.TrimSpace(tok[k]), 64)
		if err != nil {
			return box, g_error.Invalid("Box width '%s' isn't a number.",
				strings.TrimSpace(tok[k]))
		} else if !(L > 0) || math.IsInf(L, 0) {
			return box, g_error.Invalid("Box widths must be positive and " +
				"finite, but Box = '%s'.", s)
		}
		box[k] = L
	}

	return box, nil
}
