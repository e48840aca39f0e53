// internal/gencli/options.go
package gencli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/quim0/nvbio-benchmarks/internal/clibase"
	"github.com/quim0/nvbio-benchmarks/internal/cliutil"
)

const Synopsis = "<out> <num_pairs> <length>"

type Options struct {
	clibase.Common

	Out       string
	Pairs     int
	Length    int
	ErrorRate float64
	Seed      int64
	Gzip      bool
	Reference string // FASTA to sample patterns from
	Step      int    // reference window step; 0 = length
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "synthetic pattern/text pair generator", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] %s\n", name, Synopsis)
		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintln(out, "  out                         Output file ('.gz' gzip, '.sz' snappy, '-' for STDOUT)")
		_, _ = fmt.Fprintln(out, "  num_pairs                   Pattern/text pairs to write")
		_, _ = fmt.Fprintln(out, "  length                      Pattern length; texts are clipped to it")
		_, _ = fmt.Fprintln(out, "\nGeneration:")
		_, _ = fmt.Fprintf(out, "  -e, --error-rate float      Per-base edit probability in the text [%s]\n", def("error-rate"))
		_, _ = fmt.Fprintf(out, "      --seed int              Random seed [%s]\n", def("seed"))
		_, _ = fmt.Fprintln(out, "  -R, --reference file        Sample patterns from FASTA windows instead of random bases")
		_, _ = fmt.Fprintf(out, "      --step int              Reference window step (0=length) [%s]\n", def("step"))
		_, _ = fmt.Fprintf(out, "  -z, --gzip                  Gzip the output (appends .gz) [%s]\n", def("gzip"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	clibase.Register(fs, &o.Common)

	fs.Float64Var(&o.ErrorRate, "error-rate", 0.05, "per-base edit probability [0.05]")
	fs.Float64Var(&o.ErrorRate, "e", 0.05, "alias of --error-rate")
	fs.Int64Var(&o.Seed, "seed", 1, "random seed [1]")
	fs.StringVar(&o.Reference, "reference", "", "FASTA to sample patterns from")
	fs.StringVar(&o.Reference, "R", "", "alias of --reference")
	fs.IntVar(&o.Step, "step", 0, "reference window step (0=length) [0]")
	fs.BoolVar(&o.Gzip, "gzip", false, "gzip the output [false]")
	fs.BoolVar(&o.Gzip, "z", false, "alias of --gzip")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	posArgs = append(posArgs, fs.Args()...)
	if o.Help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if err := clibase.ExpectPositionals(posArgs, 3, 3, Synopsis); err != nil {
		return o, err
	}
	o.Out = posArgs[0]
	var err error
	if o.Pairs, err = clibase.PositiveInt("num_pairs", posArgs[1]); err != nil {
		return o, err
	}
	if o.Length, err = clibase.PositiveInt("length", posArgs[2]); err != nil {
		return o, err
	}
	if o.Gzip && o.Out != "-" && !strings.HasSuffix(o.Out, ".gz") {
		o.Out += ".gz"
	}
	if o.Gzip && o.Out == "-" {
		return o, errors.New("--gzip cannot write to STDOUT")
	}
	if o.Step < 0 {
		return o, errors.New("--step must be ≥ 0")
	}
	if o.ErrorRate < 0 || o.ErrorRate > 1 {
		return o, fmt.Errorf("--error-rate must be in [0,1], got %g", o.ErrorRate)
	}
	return o, nil
}
