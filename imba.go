package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phil-mansfield/imba/lib"
	"github.com/phil-mansfield/imba/lib/dims"
	g_error "github.com/phil-mansfield/imba/lib/error"
	"github.com/phil-mansfield/imba/lib/report"
	"github.com/phil-mansfield/imba/lib/snapio"
)

var (
	// cmdArgs holds the config variables set on the command line. These
	// overwrite the ones in the config file.
	cmdArgs = &lib.RawArgs{ }
	verbose bool
	printBins bool

	seed uint64
	genOrder, genFormat string
)

// Root is the main command.
var Root = &cobra.Command{
	Use: "imba",
	Short: "Evaluate the load imbalance of a domain decomposition.",
	Long: `imba evaluates how evenly a regular domain decomposition would spread
the particles of a snapshot across processes. The process count is factored
into a 3D process grid, every particle is binned into the cell of the grid
that owns it under periodic boundary conditions, and statistics of the cell
counts are reported.

Configuration is read from an optional config file (see example-config)
and can be overwritten with command-line flags.`,
	SilenceUsage: true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose { log.SetLevel(log.DebugLevel) }
	},
}

var evalCmd = &cobra.Command{
	Use: "eval [config]",
	Short: "Bin a snapshot and report its load imbalance.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, cmdLine []string) error {
		args, err := loadArgs(cmdLine)
		if err != nil { return err }
		if err = lib.SetThreads(args.Threads); err != nil { return err }

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := lib.Evaluate(ctx, args)
		if err != nil { return err }

		if err = report.Print(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if printBins {
			fmt.Fprintln(cmd.OutOrStdout())
			return report.PrintHistogram(cmd.OutOrStdout(), res.Histogram)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use: "check [config]",
	Short: "Check a configuration and its input files without binning.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, cmdLine []string) error {
		args, err := loadArgs(cmdLine)
		if err != nil { return err }

		ok, err := lib.Check(args)
		if err != nil { return err }
		if ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No errors detected.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Errors detected.")
		}
		return nil
	},
}

var dimsCmd = &cobra.Command{
	Use: "dims <nproc>...",
	Short: "Print the process grid chosen for each process count.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, cmdLine []string) error {
		for _, s := range cmdLine {
			n, err := strconv.Atoi(s)
			if err != nil {
				return g_error.Invalid("'%s' is not an integer.", s)
			}
			g, err := dims.Create(n)
			if err != nil { return err }
			fmt.Fprintf(cmd.OutOrStdout(), "%d = %d x %d x %d\n",
				n, g[0], g[1], g[2])
		}
		return nil
	},
}

var exampleConfigCmd = &cobra.Command{
	Use: "example-config",
	Short: "Print an annotated example config file.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		io.WriteString(cmd.OutOrStdout(), lib.ExampleConfig)
	},
}

var generateCmd = &cobra.Command{
	Use: "generate <file> <n> <Lx,Ly,Lz>",
	Short: "Write a snapshot of uniformly distributed particles.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, cmdLine []string) error {
		n, err := strconv.Atoi(cmdLine[1])
		if err != nil {
			return g_error.Invalid("'%s' is not an integer.", cmdLine[1])
		}
		box, err := lib.ParseBox(cmdLine[2])
		if err != nil { return err }
		order, err := snapio.ParseByteOrder(genOrder)
		if err != nil { return err }
		format, err := snapio.ParseFormat(genFormat)
		if err != nil { return err }

		err = snapio.GenerateFile(cmdLine[0], format, n, box, seed, order)
		if err != nil { return err }

		log.WithFields(log.Fields{
			"file": cmdLine[0],
			"particles": n,
			"box": box,
		}).Info("Generated snapshot.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use: "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "imba v%s\n", lib.Version)
	},
}

// loadArgs reads the config file (if there is one), overwrites it with
// command-line flags, and processes the result.
func loadArgs(cmdLine []string) (*lib.Args, error) {
	raw := &lib.RawArgs{ }
	if len(cmdLine) == 1 {
		var err error
		raw, err = lib.ParseConfigFile(cmdLine[0])
		if err != nil { return nil, err }
	}
	raw.Overwrite(cmdArgs)
	return raw.Process()
}

// addConfigFlags adds a flag for every config variable to fs.
func addConfigFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cmdArgs.File, "file", "",
		"snapshot file or file format, e.g. snap.{%03d,0..7}")
	fs.StringVar(&cmdArgs.Box, "box", "",
		"width of the periodic box, e.g. 100,100,100")
	fs.IntVar(&cmdArgs.NProc, "nproc", 0, "number of processes")
	fs.StringVar(&cmdArgs.InputFormat, "format", "",
		"input format: raw, zstd, or text (default: from extension)")
	fs.StringVar(&cmdArgs.ByteOrder, "order", "",
		"byte order of binary input: little, big, or native")
	fs.Int64Var(&cmdArgs.Offset, "offset", 0,
		"bytes to skip at the start of binary input")
	fs.IntVar(&cmdArgs.Workers, "workers", 0,
		"goroutines used for binning, -1 for one per core (default 1)")
	fs.IntVar(&cmdArgs.Threads, "threads", 0,
		"OS threads, -1 for one per core (default -1)")
	fs.StringVar(&cmdArgs.HistogramFile, "histogram", "",
		"file to write the full histogram to")
	fs.StringVar(&cmdArgs.Strictness, "strictness", "",
		"what check does on problems: crash or warn")
}

func init() {
	Root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log debugging information")

	addConfigFlags(evalCmd.Flags())
	addConfigFlags(checkCmd.Flags())
	evalCmd.Flags().BoolVar(&printBins, "bins", false,
		"print the count of every bin")

	generateCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	generateCmd.Flags().StringVar(&genOrder, "order", "",
		"byte order: little, big, or native")
	generateCmd.Flags().StringVar(&genFormat, "format", "",
		"output format: raw or zstd (default: from extension)")

	Root.AddCommand(evalCmd, checkCmd, dimsCmd, exampleConfigCmd,
		generateCmd, versionCmd)
}

func main() {
	if err := Root.Execute(); err != nil {
		g_error.Report(err)
	}
}
