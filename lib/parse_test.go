package lib

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/dims"
	"github.com/phil-mansfield/imba/lib/eq"
	g_error "github.com/phil-mansfield/imba/lib/error"
	"github.com/phil-mansfield/imba/lib/snapio"
)

func TestExampleConfig(t *testing.T) {
	raw, err := ParseConfigString(ExampleConfig)
	if err != nil { t.Fatalf("Could not parse example config: %s", err) }

	args, err := raw.Process()
	if err != nil { t.Fatalf("Could not process example config: %s", err) }

	if !eq.Strings(args.Files, []string{ "snap.dat" }) {
		t.Errorf("Expected Files = [snap.dat], got %s.", args.Files)
	}
	if args.Box != (bins.Box{ 100, 100, 100 }) {
		t.Errorf("Expected Box = [100 100 100], got %g.", args.Box)
	}
	if args.NProc != 64 || args.Grid != (dims.Grid{ 4, 4, 4 }) {
		t.Errorf("Expected NProc = 64 = 4 x 4 x 4, got %d = %d.",
			args.NProc, args.Grid)
	}
	if args.Workers != 1 || args.RunMode != SerialMode {
		t.Errorf("Expected one serial worker, got %d %s workers.",
			args.Workers, args.RunMode)
	}
	if args.Threads != runtime.NumCPU() {
		t.Errorf("Expected Threads = %d, got %d.",
			runtime.NumCPU(), args.Threads)
	}
	if args.Order != snapio.SystemByteOrder() || args.Format != "" {
		t.Errorf("Expected native byte order and inferred format.")
	}
	if args.Strictness != CrashOnError {
		t.Errorf("Expected Strictness = CrashOnError.")
	}
}

func TestParseConfigFile(t *testing.T) {
	text := `[Imba]
File = snap.{%d,0..3}
Box = 30, 10, 10
NProc = 12
InputFormat = zstd
ByteOrder = big
Offset = 16
Workers = 3
HistogramFile = hist.imba
Strictness = warn
`
	fname := filepath.Join(t.TempDir(), "imba.config")
	if err := os.WriteFile(fname, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	raw, err := ParseConfigFile(fname)
	if err != nil { t.Fatalf("Could not parse config: %s", err) }
	args, err := raw.Process()
	if err != nil { t.Fatalf("Could not process config: %s", err) }

	files := []string{ "snap.0", "snap.1", "snap.2", "snap.3" }
	if !eq.Strings(args.Files, files) || args.FileFormat != raw.File {
		t.Errorf("Expected Files = %s, got %s.", files, args.Files)
	}
	if args.Grid != (dims.Grid{ 3, 2, 2 }) {
		t.Errorf("Expected Grid = [3 2 2], got %d.", args.Grid)
	}
	if args.Format != snapio.ZStd || args.Order != binary.BigEndian ||
		args.Offset != 16 {
		t.Errorf("Expected big endian zstd files with offset 16, got " +
			"%s %s files with offset %d.", args.Order, args.Format,
			args.Offset)
	}
	if args.Workers != 3 || args.RunMode != ParallelMode {
		t.Errorf("Expected three parallel workers, got %d %s workers.",
			args.Workers, args.RunMode)
	}
	if args.HistogramFile != "hist.imba" || args.Strictness != WarnOnError {
		t.Errorf("Expected HistogramFile = hist.imba and warnings, got " +
			"%s and %d.", args.HistogramFile, args.Strictness)
	}

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.config"))
	if err == nil {
		t.Errorf("Expected error when parsing a missing file.")
	}
	_, err = ParseConfigString("[Imba]\nNotAVariable = 1\n")
	if !errors.Is(err, g_error.InvalidArgument) {
		t.Errorf("Expected unknown variables to be invalid, got %v.", err)
	}
}

func TestOverwrite(t *testing.T) {
	arg1 := &RawArgs{ File: "a", Box: "1,1,1", NProc: 8, Workers: 2 }
	arg2 := &RawArgs{ File: "b", NProc: 16, Offset: 4 }
	arg1.Overwrite(arg2)

	exp := RawArgs{ File: "b", Box: "1,1,1", NProc: 16, Workers: 2, Offset: 4 }
	if *arg1 != exp {
		t.Errorf("Expected %+v, got %+v.", exp, *arg1)
	}
}

func TestProcessInvalid(t *testing.T) {
	valid := RawArgs{ File: "snap.dat", Box: "1, 2, 3", NProc: 4 }
	if _, err := valid.Process(); err != nil {
		t.Fatalf("Expected %+v to be valid, got '%s'.", valid, err)
	}

	tests := []RawArgs{
		{ Box: "1, 2, 3", NProc: 4 },
		{ File: "snap.{%d,0..}", Box: "1, 2, 3", NProc: 4 },
		{ File: "snap.dat", NProc: 4 },
		{ File: "snap.dat", Box: "1, 2", NProc: 4 },
		{ File: "snap.dat", Box: "1, 2, a", NProc: 4 },
		{ File: "snap.dat", Box: "1, 0, 3", NProc: 4 },
		{ File: "snap.dat", Box: "1, -2, 3", NProc: 4 },
		{ File: "snap.dat", Box: "1, NaN, 3", NProc: 4 },
		{ File: "snap.dat", Box: "1, +Inf, 3", NProc: 4 },
		{ File: "snap.dat", Box: "1, 2, 3" },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: -4 },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, InputFormat: "hdf5" },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, ByteOrder: "middle" },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, Offset: -8 },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, Workers: -2 },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, Threads: -2 },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, Threads: 1<<20 },
		{ File: "snap.dat", Box: "1, 2, 3", NProc: 4, Strictness: "maybe" },
	}

	for i := range tests {
		_, err := tests[i].Process()
		if !errors.Is(err, g_error.InvalidArgument) {
			t.Errorf("%d) Expected %+v to be invalid, got error %v.",
				i, tests[i], err)
		}
	}
}

func TestParseBox(t *testing.T) {
	tests := []struct{
		s string
		box bins.Box
		valid bool
	} {
		{"1,2,3", bins.Box{ 1, 2, 3 }, true},
		{" 30 , 10,10 ", bins.Box{ 30, 10, 10 }, true},
		{"1e3, 0.5, 2.25", bins.Box{ 1000, 0.5, 2.25 }, true},
		{"", bins.Box{ }, false},
		{"1,2,3,4", bins.Box{ }, false},
		{"1 2 3", bins.Box{ }, false},
		{"1,,3", bins.Box{ }, false},
	}

	for i := range tests {
		box, err := ParseBox(tests[i].s)
		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected '%s' to be valid, got error '%s'.",
				i, tests[i].s, err)
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected '%s' to be invalid.", i, tests[i].s)
		} else if tests[i].valid && box != tests[i].box {
			t.Errorf("%d) Expected '%s' to parse to %g, got %g.",
				i, tests[i].s, tests[i].box, box)
		}
	}
}

func TestResolveThreads(t *testing.T) {
	cpus := runtime.NumCPU()

	if n, err := ResolveThreads(-1); err != nil || n != cpus {
		t.Errorf("Expected -1 threads to resolve to %d, got %d, %v.",
			cpus, n, err)
	}
	if n, err := ResolveThreads(1); err != nil || n != 1 {
		t.Errorf("Expected 1 thread to resolve to 1, got %d, %v.", n, err)
	}
	for _, n := range []int{ 0, -2, cpus + 1 } {
		if _, err := ResolveThreads(n); err == nil {
			t.Errorf("Expected %d threads to be invalid.", n)
		}
	}

	prev := runtime.GOMAXPROCS(0)
	defer runtime.GOMAXPROCS(prev)
	if err := SetThreads(1); err != nil || runtime.GOMAXPROCS(0) != 1 {
		t.Errorf("Expected SetThreads(1) to set GOMAXPROCS to 1.")
	}
}
