// Package progress reports per-batch progress of a benchmark run, either as
// one log line per batch or as a terminal progress bar.
package progress

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/quim0/nvbio-benchmarks/internal/bench"
	"github.com/quim0/nvbio-benchmarks/internal/timing"
)

// Log writes one line per batch to W.
type Log struct {
	W io.Writer
}

func (l Log) Start(total, batches int) {
	_, _ = fmt.Fprintf(l.W, "aligning %s pairs in %d batch(es)\n", humanize.Comma(int64(total)), batches)
}

func (l Log) Batch(s bench.BatchStat) {
	_, _ = fmt.Fprintf(l.W, "batch %d/%d: pairs [%d,%d) in %.3f ms (%s / %s done)\n",
		s.Window.Index+1, s.Batches, s.Window.Offset, s.Window.End(),
		timing.Millis(s.Elapsed),
		humanize.Comma(int64(s.Processed)), humanize.Comma(int64(s.Total)))
}

func (Log) Finish(bench.Report) {}

// Bar renders an mpb progress bar counting aligned pairs.
type Bar struct {
	w   io.Writer
	pbs *mpb.Progress
	bar *mpb.Bar
}

// NewBar returns a bar drawing on w (normally stderr).
func NewBar(w io.Writer) *Bar { return &Bar{w: w} }

func (b *Bar) Start(total, _ int) {
	b.pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(b.w))
	b.bar = b.pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("aligned pairs: ", decor.WC{W: len("aligned pairs: "), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 16),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
}

func (b *Bar) Batch(s bench.BatchStat) {
	if b.bar != nil {
		b.bar.EwmaIncrBy(s.Window.Size, s.Elapsed)
	}
}

func (b *Bar) Finish(bench.Report) { b.Close() }

// Close stops the bar, aborting it if the run did not finish. Safe to call twice.
func (b *Bar) Close() {
	if b.pbs == nil {
		return
	}
	// No-op on a completed bar.
	b.bar.Abort(false)
	b.pbs.Wait()
	b.pbs = nil
}

// Multi fans driver events out to every non-nil observer, in order.
type Multi []bench.Observer

// Join drops nil observers and returns nil when none remain.
func Join(obs ...bench.Observer) bench.Observer {
	var m Multi
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

func (m Multi) Start(total, batches int) {
	for _, o := range m {
		o.Start(total, batches)
	}
}

func (m Multi) Batch(s bench.BatchStat) {
	for _, o := range m {
		o.Batch(s)
	}
}

func (m Multi) Finish(r bench.Report) {
	for _, o := range m {
		o.Finish(r)
	}
}
