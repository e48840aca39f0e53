// internal/genapp/app.go
package genapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/quim0/nvbio-benchmarks/internal/clibase"
	"github.com/quim0/nvbio-benchmarks/internal/cmdutil"
	"github.com/quim0/nvbio-benchmarks/internal/fasta"
	"github.com/quim0/nvbio-benchmarks/internal/gencli"
	"github.com/quim0/nvbio-benchmarks/internal/seqio"
	"github.com/quim0/nvbio-benchmarks/internal/synth"
	"github.com/quim0/nvbio-benchmarks/internal/version"
)

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := gencli.NewFlagSet("pairgen")
	fs.SetOutput(io.Discard)
	opts, err := gencli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, clibase.ErrUsage) {
			fs.SetOutput(stderr)
			fs.Usage()
		}
		return cmdutil.ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "pairgen version %s\n", version.Version)
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
	}
	if ctx.Err() != nil {
		return cmdutil.ExitCancelled
	}

	cfg := synth.Config{
		Pairs: opts.Pairs, Length: opts.Length, ErrorRate: opts.ErrorRate, Seed: opts.Seed,
	}
	if opts.Reference != "" {
		cfg.Templates, err = fasta.Windows(opts.Reference, opts.Length, opts.Step, opts.Pairs)
		if err != nil {
			cmdutil.Errorf(stderr, "reference %s: %v", opts.Reference, err)
			return cmdutil.ExitRuntime
		}
		if len(cfg.Templates) == 0 {
			cmdutil.Errorf(stderr, "reference %s has no sequence of %d bp", opts.Reference, opts.Length)
			return cmdutil.ExitRuntime
		}
		if len(cfg.Templates) < opts.Pairs {
			cmdutil.Warnf(stderr, opts.Quiet, "reference yields %s windows; patterns repeat",
				humanize.Comma(int64(len(cfg.Templates))))
		}
	}

	var w io.WriteCloser
	if opts.Out == "-" {
		w = nopCloser{outw}
	} else if w, err = seqio.Create(opts.Out); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitRuntime
	}
	st, err := synth.Write(w, cfg)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cmdutil.Errorf(stderr, "write %s: %v", opts.Out, err)
		return cmdutil.ExitRuntime
	}
	cmdutil.Infof(stderr, opts.Quiet, "wrote %s pairs (%s, %s edits) to %s",
		humanize.Comma(int64(st.Pairs)), humanize.Bytes(uint64(st.Bytes)), humanize.Comma(int64(st.Edits)), opts.Out)
	return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
