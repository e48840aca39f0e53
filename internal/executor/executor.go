// Package executor runs one packed batch through the alignment primitive on
// a device context and times it.
//
// The timed interval starts before the host-to-device copies and ends when
// the kernel completes; reading the sinks back is not timed.
package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/quim0/nvbio-benchmarks/internal/align"
	"github.com/quim0/nvbio-benchmarks/internal/batch"
	"github.com/quim0/nvbio-benchmarks/internal/device"
	"github.com/quim0/nvbio-benchmarks/internal/timing"
)

// Result is one executed batch.
type Result struct {
	Window  batch.Window
	Elapsed time.Duration
	Sinks   []align.Sink
}

// Executor owns no device memory between calls; every allocation made for a
// batch is released before Execute returns.
type Executor struct {
	dev     *device.Context
	aligner align.Aligner
	params  align.Params
	now     func() time.Time
}

// New binds an aligner and its parameters to dev.
func New(dev *device.Context, a align.Aligner, p align.Params) *Executor {
	return &Executor{dev: dev, aligner: a, params: p, now: time.Now}
}

// Params returns the alignment configuration in use.
func (e *Executor) Params() align.Params { return e.params }

// OffsetTable describes n uniform-stride strings: n+1 entries, entry i = i*stride.
func OffsetTable(n, stride int) []uint32 {
	off := make([]uint32, n+1)
	for i := range off {
		off[i] = uint32(i * stride)
	}
	return off
}

// Execute aligns every pair of p. Device errors are returned as is; there is no retry.
func (e *Executor) Execute(ctx context.Context, p batch.Packed) (res Result, err error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if p.Size <= 0 {
		return Result{Window: p.Window}, nil
	}
	if uint64(p.Size)*uint64(p.Stride) > math.MaxUint32 {
		return Result{}, fmt.Errorf("batch of %d×%d bytes exceeds 32-bit offsets", p.Size, p.Stride)
	}

	var live []device.Ptr
	defer func() {
		for _, ptr := range live {
			if ferr := e.dev.FreeMemory(ptr); ferr != nil && err == nil {
				err = fmt.Errorf("free batch %d: %w", p.Index, ferr)
			}
		}
	}()
	upload := func(what string, b []byte) (device.Ptr, error) {
		ptr, err := e.dev.AllocateMemory(uint64(len(b)))
		if err != nil {
			return 0, fmt.Errorf("allocate %s: %w", what, err)
		}
		live = append(live, ptr)
		if err := e.dev.MemCopyH2D(ptr, b); err != nil {
			return 0, fmt.Errorf("copy %s: %w", what, err)
		}
		return ptr, nil
	}

	t := timing.StartWith(e.now)

	pats, err := upload("patterns", p.Patterns)
	if err != nil {
		return Result{}, err
	}
	txts, err := upload("texts", p.Texts)
	if err != nil {
		return Result{}, err
	}
	table := align.EncodeOffsets(OffsetTable(p.Size, p.Stride))
	pOff, err := upload("pattern offsets", table)
	if err != nil {
		return Result{}, err
	}
	tOff, err := upload("text offsets", table)
	if err != nil {
		return Result{}, err
	}
	sinks, err := e.dev.AllocateMemory(uint64(p.Size * align.SinkBytes))
	if err != nil {
		return Result{}, fmt.Errorf("allocate sinks: %w", err)
	}
	live = append(live, sinks)

	err = e.aligner.AlignBatch(e.dev, e.params, align.Batch{
		Patterns: align.StringSet{Data: pats, Offsets: pOff, Count: p.Size},
		Texts:    align.StringSet{Data: txts, Offsets: tOff, Count: p.Size},
		Sinks:    sinks,
		MaxRows:  p.Stride,
		MaxCols:  p.Stride,
	})
	elapsed := t.Stop()
	if err != nil {
		return Result{}, fmt.Errorf("align batch %d: %w", p.Index, err)
	}

	raw := make([]byte, p.Size*align.SinkBytes)
	if err := e.dev.MemCopyD2H(raw, sinks); err != nil {
		return Result{}, fmt.Errorf("read sinks: %w", err)
	}
	out, err := align.DecodeSinks(raw, p.Size)
	if err != nil {
		return Result{}, err
	}
	return Result{Window: p.Window, Elapsed: elapsed, Sinks: out}, nil
}
