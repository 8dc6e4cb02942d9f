package lib

/* eval.go contains the pipeline behind imba's "eval" mode. */

import (
	"context"
	"encoding/binary"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/phil-mansfield/imba/lib/bins"
	"github.com/phil-mansfield/imba/lib/compress"
	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
	"github.com/phil-mansfield/imba/lib/snapio"
	"github.com/phil-mansfield/imba/lib/stats"
)

// Opener opens a snapshot file. snapio.Open is the standard Opener.
type Opener func(
	fname string, format snapio.Format, offset int64, order binary.ByteOrder,
) (snapio.Snapshot, error)

var openSnapshot Opener = snapio.Open

// Result is the output of a single evaluation.
type Result struct {
	FileFormat string
	Files []string
	NProc int
	Grid dims.Grid
	Box bins.Box

	// Values is the number of coordinate values read across all files.
	Values int
	Histogram *bins.Grid
	Summary *stats.Summary
}

// Evaluate bins every particle in the files listed in args over the process
// grid and summarizes how evenly they're spread across processes.
func Evaluate(ctx context.Context, args *Args) (*Result, error) {
	return EvaluateWith(ctx, args, openSnapshot)
}

// EvaluateWith is identical to Evaluate, but opens files with open.
func EvaluateWith(
	ctx context.Context, args *Args, open Opener,
) (*Result, error) {
	log.WithFields(log.Fields{
		"nproc": args.NProc,
		"grid": args.Grid,
		"box": args.Box,
		"files": len(args.Files),
		"mode": args.RunMode,
		"workers": args.Workers,
	}).Info("Chose process grid.")

	g, err := bins.NewGrid(args.Grid, args.Box)
	if err != nil { return nil, err }

	res := &Result{
		FileFormat: args.FileFormat, Files: args.Files,
		NProc: args.NProc, Grid: args.Grid, Box: args.Box,
		Histogram: g,
	}

	t0 := time.Now()
	for _, fname := range args.Files {
		n, err := binFile(ctx, args, fname, open, g)
		if err != nil { return nil, err }
		res.Values += n
	}

	log.WithFields(log.Fields{
		"particles": g.Total(),
		"values": res.Values,
		"time": time.Since(t0),
	}).Info("Binned particles.")

	if err = g.CheckConsistency(res.Values); err != nil { return nil, err }

	if res.Summary, err = stats.Summarize(g.Counts); err != nil {
		return nil, err
	}

	if args.HistogramFile != "" {
		err = compress.WriteHistogram(args.HistogramFile, g, res.Values,
			args.Files, snapio.SystemByteOrder())
		if err != nil { return nil, err }
		log.WithField("file", args.HistogramFile).Info("Wrote histogram.")
	}

	return res, nil
}

// binFile adds the particles in a single file to g and returns the number of
// values that were read. The file is closed before binFile returns.
func binFile(
	ctx context.Context, args *Args, fname string, open Opener, g *bins.Grid,
) (n int, err error) {
	if err = ctx.Err(); err != nil { return 0, err }

	f, err := open(fname, args.Format, args.Offset, args.Order)
	if err != nil { return 0, err }
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			n, err = 0, g_error.IOf(cerr, "could not close '%s'", fname)
		}
	}()

	x := f.Coords()
	log.WithFields(log.Fields{
		"file": fname,
		"values": len(x),
	}).Debug("Opened file.")

	switch args.RunMode {
	case SerialMode: err = g.InsertAll(x)
	case ParallelMode: err = g.InsertAllParallel(ctx, x, args.Workers)
	}
	if err != nil { return 0, err }

	return len(x), nil
}
