// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/clibase"
	"github.com/quim0/nvbio-benchmarks/internal/cliutil"
	"github.com/quim0/nvbio-benchmarks/internal/device"
	"github.com/quim0/nvbio-benchmarks/internal/runutil"
)

// Synopsis is the positional contract of the benchmark.
const Synopsis = "<file> <max_seq_len> <num_alignments> [<batch_size=50000>]"

// Options holds all CLI flags and arguments.
type Options struct {
	clibase.Common

	// Positionals
	File          string
	MaxSeqLen     int
	NumAlignments int
	BatchSize     int

	// Alignment
	Band int

	// Device
	Lanes        int
	Scheduler    device.Scheduler
	MemoryLimit  uint64
	ReuseBuffers bool

	// Output
	Output   string // text|json|jsonl
	Header   bool   // true unless --no-header
	Progress bool
	Record   string
	History  int // recent ledger runs to list after recording
}

// NewFlagSet returns a FlagSet (ContinueOnError) with the benchmark's help text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "batched banded edit-distance throughput benchmark", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] %s\n", name, Synopsis)
		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "  file                        Alternating '>PATTERN' / '<TEXT' lines; gzip/snappy auto-detected, '-' for STDIN")
		_, _ = fmt.Fprintln(out, "  max_seq_len                 Bytes reserved per sequence (longer lines are truncated)")
		_, _ = fmt.Fprintln(out, "  num_alignments              Pattern/text pairs to read and align")
		_, _ = fmt.Fprintf(out, "  batch_size                  Pairs per device invocation [%d]\n", runutil.DefaultBatchSize)

		_, _ = fmt.Fprintln(out, "\nAlignment:")
		_, _ = fmt.Fprintf(out, "      --band int              Band width in diagonals (0=unbanded) [%s]\n", def("band"))

		_, _ = fmt.Fprintln(out, "\nDevice:")
		_, _ = fmt.Fprintf(out, "  -t, --lanes int             Parallel lanes (0=all logical CPUs) [%s]\n", def("lanes"))
		_, _ = fmt.Fprintf(out, "      --scheduler string      Pair scheduler: parallel | sequential [%s]\n", def("scheduler"))
		_, _ = fmt.Fprintf(out, "      --device-memory size    Device memory limit, e.g. 8GiB (0=unlimited) [%s]\n", def("device-memory"))
		_, _ = fmt.Fprintf(out, "      --reuse-buffers         Pool host packing buffers across batches [%s]\n", def("reuse-buffers"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "  -o, --output string         Output: text | json | jsonl [%s]\n", def("output"))
		_, _ = fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
		_, _ = fmt.Fprintf(out, "      --progress              Progress bar on STDERR instead of per-batch lines [%s]\n", def("progress"))
		_, _ = fmt.Fprintln(out, "      --record file           Append the run to a SQLite history")
		_, _ = fmt.Fprintf(out, "      --history int           List the last N recorded runs (needs --record) [%s]\n", def("history"))
		_, _ = fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
	})
	return fs
}

// PrintExamples prints a short quickstart.
func PrintExamples(out io.Writer, name string) {
	clibase.PrintExamples(out, name, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Generate 100k pairs of 150 bp at 5% divergence, then benchmark them:")
		_, _ = fmt.Fprintln(w, "\n  pairgen --error-rate 0.05 pairs.txt.gz 100000 150")
		_, _ = fmt.Fprintf(w, "  %s pairs.txt.gz 150 100000 25000\n", name)
		_, _ = fmt.Fprintln(w, "\nKeep a history and compare runs:")
		_, _ = fmt.Fprintf(w, "\n  %s --record runs.sqlite --output json pairs.txt.gz 150 100000\n", name)
	})
}

// ParseArgs registers and parses all flags and positionals.
// Flags may appear anywhere on the command line.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var (
		sched        string
		memory       string
		noHeader     bool
		showExamples bool
	)

	clibase.Register(fs, &o.Common)

	fs.IntVar(&o.Band, "band", 31, "band width in diagonals (0=unbanded) [31]")

	fs.IntVar(&o.Lanes, "lanes", 0, "parallel lanes (0=all logical CPUs) [0]")
	fs.IntVar(&o.Lanes, "t", 0, "alias of --lanes")
	fs.StringVar(&sched, "scheduler", "parallel", "pair scheduler: parallel | sequential [parallel]")
	fs.StringVar(&memory, "device-memory", "0", "device memory limit (0=unlimited) [0]")
	fs.BoolVar(&o.ReuseBuffers, "reuse-buffers", false, "pool host packing buffers [false]")

	fs.StringVar(&o.Output, "output", "text", "output: text | json | jsonl [text]")
	fs.StringVar(&o.Output, "o", "text", "alias of --output")
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")
	fs.BoolVar(&o.Progress, "progress", false, "progress bar on stderr [false]")
	fs.StringVar(&o.Record, "record", "", "append the run to a SQLite history")
	fs.IntVar(&o.History, "history", 0, "list the last N recorded runs [0]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	posArgs = append(posArgs, fs.Args()...)
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if o.Help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	o.Header = !noHeader

	if err := clibase.ExpectPositionals(posArgs, 3, 4, Synopsis); err != nil {
		return o, err
	}
	var err error
	if o.File, err = cliutil.ResolveInput(posArgs[0]); err != nil {
		return o, err
	}
	if o.MaxSeqLen, err = clibase.PositiveInt("max_seq_len", posArgs[1]); err != nil {
		return o, err
	}
	if o.NumAlignments, err = clibase.PositiveInt("num_alignments", posArgs[2]); err != nil {
		return o, err
	}
	o.BatchSize = runutil.DefaultBatchSize
	if len(posArgs) == 4 {
		if o.BatchSize, err = clibase.PositiveInt("batch_size", posArgs[3]); err != nil {
			return o, err
		}
	}

	if o.Scheduler, err = device.ParseScheduler(sched); err != nil {
		return o, err
	}
	if o.MemoryLimit, err = runutil.ParseMemory(memory); err != nil {
		return o, err
	}
	return o, Validate(&o)
}

// Validate applies flag invariants.
func Validate(o *Options) error {
	if o.Band < 0 {
		return errors.New("--band must be ≥ 0")
	}
	if o.Lanes < 0 {
		return errors.New("--lanes must be ≥ 0")
	}
	switch o.Output {
	case "text", "json", "jsonl":
	default:
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.History < 0 {
		return errors.New("--history must be ≥ 0")
	}
	if o.History > 0 && o.Record == "" {
		return errors.New("--history needs --record")
	}
	if o.Progress && o.Output == "jsonl" {
		return errors.New("--progress conflicts with --output jsonl")
	}
	return nil
}
