// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tebeka/atexit"

	"github.com/quim0/nvbio-benchmarks/internal/align"
	"github.com/quim0/nvbio-benchmarks/internal/batch"
	"github.com/quim0/nvbio-benchmarks/internal/bench"
	"github.com/quim0/nvbio-benchmarks/internal/cli"
	"github.com/quim0/nvbio-benchmarks/internal/clibase"
	"github.com/quim0/nvbio-benchmarks/internal/cmdutil"
	"github.com/quim0/nvbio-benchmarks/internal/device"
	"github.com/quim0/nvbio-benchmarks/internal/executor"
	"github.com/quim0/nvbio-benchmarks/internal/ledger"
	"github.com/quim0/nvbio-benchmarks/internal/output"
	"github.com/quim0/nvbio-benchmarks/internal/progress"
	"github.com/quim0/nvbio-benchmarks/internal/runutil"
	"github.com/quim0/nvbio-benchmarks/internal/seqstore"
	"github.com/quim0/nvbio-benchmarks/internal/timing"
	"github.com/quim0/nvbio-benchmarks/internal/version"
	"github.com/quim0/nvbio-benchmarks/internal/writers"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

const toolName = "myers-bench"

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet(toolName)
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(outw, toolName)
			return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return cmdutil.ExitUsage
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", toolName, version.Version)
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
	}

	params := align.DefaultParams()
	params.BandWidth = opts.Band
	params.Scheduler = opts.Scheduler
	if err := params.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}

	batchSize, warns := runutil.BatchWarnings(opts.BatchSize, opts.NumAlignments, opts.Band, opts.MaxSeqLen)
	for _, w := range warns {
		cmdutil.Warnf(stderr, opts.Quiet, "%s", w)
	}

	// Sequence store
	var (
		store *seqstore.Store
		ls    seqstore.Stats
	)
	loadTime, err := timing.Measure(func() (err error) {
		store, ls, err = seqstore.Load(opts.File, opts.MaxSeqLen, opts.NumAlignments)
		return err
	})
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitRuntime
	}
	defer store.Release()
	reportLoad(stderr, opts.Quiet, ls, opts.MaxSeqLen, store.Bytes(), loadTime)

	// Device context
	dev, err := device.Open(device.Config{Lanes: opts.Lanes, MemoryLimit: opts.MemoryLimit})
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitRuntime
	}
	release := atexit.Register(func() { _ = dev.Close() })
	defer func() {
		_ = release.Cancel()
		_ = dev.Close()
	}()
	cmdutil.Infof(stderr, opts.Quiet, "device: %s", dev.Info())

	// Observers
	var (
		observers []bench.Observer
		bar       *progress.Bar
		jsonlObs  *writers.JSONLObserver
	)
	if opts.Progress {
		bar = progress.NewBar(stderr)
		defer bar.Close()
		observers = append(observers, bar)
	} else if !opts.Quiet {
		observers = append(observers, progress.Log{W: stderr})
	}
	if opts.Output == output.FormatJSONL {
		jsonlObs = writers.NewJSONLObserver(outw)
		defer func() { _ = jsonlObs.Close() }()
		observers = append(observers, jsonlObs)
	}
	cfg := bench.Config{
		BatchSize: batchSize,
		Observer:  progress.Join(observers...),
	}
	if opts.ReuseBuffers {
		cfg.Pool = batch.NewPool()
	}

	exec := executor.New(dev, align.NewMyers(), params)
	rep, err := bench.Run(parent, store, exec, cfg)
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || parent.Err() != nil {
			cmdutil.Warnf(stderr, opts.Quiet, "cancelled after %d of %d batch(es) (%s of %s pairs)",
				rep.Executed, rep.Batches, humanize.Comma(int64(rep.Processed)), humanize.Comma(int64(rep.Pairs)))
			return cmdutil.ExitCancelled
		}
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitRuntime
	}

	r := output.ToAPIReport(rep, output.Meta{
		Input:     opts.File,
		LinesRead: ls.Lines,
		Truncated: ls.Truncated,
		Params:    params,
		Device:    dev.Info(),
		Stats:     dev.Stats(),
		Version:   version.Version,
	})

	// Report
	switch {
	case jsonlObs != nil:
		err = jsonlObs.Report(r)
	case opts.Output == output.FormatText:
		err = output.WriteText(outw, r, opts.Header)
	default:
		err = writers.WriteReport(opts.Output, outw, r)
	}
	if err != nil && !writers.IsBrokenPipe(err) {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitRuntime
	}
	if !opts.Quiet {
		_ = output.WriteSummary(stderr, r)
	}

	if opts.Record != "" {
		if err := record(parent, stderr, opts, r); err != nil {
			cmdutil.Errorf(stderr, "record %s: %v", opts.Record, err)
			_ = cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
			return cmdutil.ExitRuntime
		}
	}
	return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func reportLoad(stderr io.Writer, quiet bool, ls seqstore.Stats, stride, bytes int, took time.Duration) {
	cmdutil.Infof(stderr, quiet, "loaded %s sequences into %s (stride %d) in %.1f ms",
		humanize.Comma(int64(ls.Lines)), humanize.IBytes(uint64(bytes)), stride, timing.Millis(took))
	if ls.Underflow() {
		cmdutil.Warnf(stderr, quiet, "input ended after %s of %s lines; %s empty sequences will be aligned",
			humanize.Comma(int64(ls.Lines)), humanize.Comma(int64(ls.Requested)), humanize.Comma(int64(ls.Missing())))
	}
	if ls.Truncated > 0 {
		cmdutil.Warnf(stderr, quiet, "%s sequences longer than max_seq_len %d were truncated (longest %d)",
			humanize.Comma(int64(ls.Truncated)), stride, ls.LongestLine)
	}
	if ls.Markers > 0 {
		cmdutil.Warnf(stderr, quiet, "%s lines carry a marker that disagrees with their position; roles follow line order",
			humanize.Comma(int64(ls.Markers)))
	}
}

func record(ctx context.Context, stderr io.Writer, opts cli.Options, r api.ReportV1) error {
	l, err := ledger.Open(ctx, opts.Record)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	best, ok, err := l.Best(ctx, r.MaxSeqLen)
	if err != nil {
		return err
	}
	if ok {
		cmdutil.Infof(stderr, opts.Quiet, "best recorded at max_seq_len %d: %s GCUPS (run #%d, %s)",
			r.MaxSeqLen, output.FormatFloat(best.Report.GCUPS, 4), best.ID, humanize.Time(best.RecordedAt))
	}
	id, err := l.Record(ctx, r, time.Now())
	if err != nil {
		return err
	}
	cmdutil.Infof(stderr, opts.Quiet, "recorded run #%d in %s", id, opts.Record)

	if opts.History <= 0 {
		return nil
	}
	recent, err := l.Recent(ctx, opts.History)
	if err != nil {
		return err
	}
	// Not gated by --quiet.
	_, _ = fmt.Fprintf(stderr, "last %d recorded run(s):\n", len(recent))
	for _, e := range recent {
		_, _ = fmt.Fprintf(stderr, "  #%d\t%s\t%s\tmax_seq_len=%d\tbatch=%d\t%s GCUPS\n",
			e.ID, e.RecordedAt.Format(time.RFC3339), e.Report.Input, e.Report.MaxSeqLen,
			e.Report.BatchSize, output.FormatFloat(e.Report.GCUPS, 4))
	}
	return nil
}
