// Package bench drives the executor over every batch window of a store and
// turns the accumulated time into a throughput figure.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/zeebo/wyhash"

	"github.com/quim0/nvbio-benchmarks/internal/align"
	"github.com/quim0/nvbio-benchmarks/internal/batch"
	"github.com/quim0/nvbio-benchmarks/internal/executor"
	"github.com/quim0/nvbio-benchmarks/internal/seqstore"
	"github.com/quim0/nvbio-benchmarks/internal/timing"
)

// BatchExecutor is the minimal capability the driver needs.
// *executor.Executor satisfies it, and so can fakes in tests.
type BatchExecutor interface {
	Execute(ctx context.Context, p batch.Packed) (executor.Result, error)
}

// BatchStat is what an Observer sees after each batch.
type BatchStat struct {
	Window    batch.Window
	Batches   int
	Elapsed   time.Duration
	Processed int // pairs done so far, this batch included
	Total     int
	Found     int // pairs of this batch inside the band
}

// Observer receives progress. Calls happen on the driver goroutine, in order.
type Observer interface {
	Start(total, batches int)
	Batch(BatchStat)
	Finish(Report)
}

// Config controls a run.
type Config struct {
	BatchSize int
	Observer  Observer    // optional
	Pool      *batch.Pool // optional; reuse packing buffers
}

// Report is the outcome of a complete run.
type Report struct {
	Pairs     int
	Stride    int
	BatchSize int
	Batches   int
	Executed  int // batches that ran; below Batches only on a failed or cancelled run
	Processed int
	Elapsed   time.Duration
	MinBatch  time.Duration
	MaxBatch  time.Duration
	GCUPS     float64
	Found     int
	Digest    uint64 // wyhash chain over every sink, batch order
}

// GCUPS is pairs·stride² cell updates per second, in billions. The stride²
// cost model is the unbanded reference used as the normalization unit.
// A zero elapsed time yields 0.
func GCUPS(pairs, stride int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	cells := float64(pairs) * float64(stride) * float64(stride)
	return cells / secs / 1e9
}

// Run executes every batch window of store in index order. Batches are
// clipped to the pairs remaining; the context is checked between batches.
func Run(ctx context.Context, store *seqstore.Store, exec BatchExecutor, cfg Config) (Report, error) {
	if cfg.BatchSize <= 0 {
		return Report{}, fmt.Errorf("batch size must be > 0, got %d", cfg.BatchSize)
	}
	total := store.Pairs()
	windows := batch.Windows(total, cfg.BatchSize)
	rep := Report{
		Pairs:     total,
		Stride:    store.Stride(),
		BatchSize: cfg.BatchSize,
		Batches:   len(windows),
	}
	obs := cfg.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	obs.Start(total, len(windows))

	var acc timing.Accumulator
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return finish(rep, &acc), err
		}
		var p batch.Packed
		if cfg.Pool != nil {
			p = cfg.Pool.Pack(store, w)
		} else {
			p = batch.Pack(store, w)
		}
		res, err := exec.Execute(ctx, p)
		if cfg.Pool != nil {
			cfg.Pool.Release(p)
		}
		if err != nil {
			return finish(rep, &acc), err
		}
		acc.Add(res.Elapsed)
		rep.Processed += w.Size
		found := 0
		for _, s := range res.Sinks {
			if s.Found {
				found++
			}
		}
		rep.Found += found
		rep.Digest = wyhash.Hash(align.EncodeSinks(res.Sinks), rep.Digest)
		obs.Batch(BatchStat{
			Window:    w,
			Batches:   len(windows),
			Elapsed:   res.Elapsed,
			Processed: rep.Processed,
			Total:     total,
			Found:     found,
		})
	}
	rep = finish(rep, &acc)
	if rep.Processed != total {
		return rep, fmt.Errorf("processed %d of %d pairs", rep.Processed, total)
	}
	obs.Finish(rep)
	return rep, nil
}

func finish(rep Report, acc *timing.Accumulator) Report {
	rep.Executed = acc.Count()
	rep.Elapsed = acc.Total()
	rep.MinBatch = acc.Min()
	rep.MaxBatch = acc.Max()
	rep.GCUPS = GCUPS(rep.Processed, rep.Stride, rep.Elapsed)
	return rep
}

type nopObserver struct{}

func (nopObserver) Start(int, int)  {}
func (nopObserver) Batch(BatchStat) {}
func (nopObserver) Finish(Report)   {}
