// internal/output/report.go
package output

import (
	"fmt"

	"github.com/quim0/nvbio-benchmarks/internal/align"
	"github.com/quim0/nvbio-benchmarks/internal/bench"
	"github.com/quim0/nvbio-benchmarks/internal/device"
	"github.com/quim0/nvbio-benchmarks/internal/timing"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// Meta carries run context that the driver does not track.
type Meta struct {
	Input     string
	LinesRead int
	Truncated int
	Params    align.Params
	Device    device.Info
	Stats     device.Stats
	Version   string
}

// ToAPIReport converts a driver report to the stable wire schema (v1).
func ToAPIReport(r bench.Report, m Meta) api.ReportV1 {
	return api.ReportV1{
		Input:      m.Input,
		Pairs:      r.Pairs,
		MaxSeqLen:  r.Stride,
		BatchSize:  r.BatchSize,
		Batches:    r.Batches,
		Processed:  r.Processed,
		ElapsedMS:  timing.Millis(r.Elapsed),
		MinBatchMS: timing.Millis(r.MinBatch),
		MaxBatchMS: timing.Millis(r.MaxBatch),
		GCUPS:      r.GCUPS,
		Found:      r.Found,
		Digest:     fmt.Sprintf("%016x", r.Digest),
		BandWidth:  m.Params.BandWidth,
		Scheduler:  m.Params.Scheduler.String(),
		LinesRead:  m.LinesRead,
		Truncated:  m.Truncated,
		Device: api.DeviceV1{
			Name:      m.Device.Name,
			Lanes:     m.Device.Lanes,
			AVX2:      m.Device.AVX2,
			PeakBytes: m.Stats.PeakBytes,
			H2DBytes:  m.Stats.H2DBytes,
			D2HBytes:  m.Stats.D2HBytes,
		},
		Version: m.Version,
	}
}

// ToAPIBatch converts one observed batch (v1).
func ToAPIBatch(s bench.BatchStat) api.BatchV1 {
	return api.BatchV1{
		Index:     s.Window.Index,
		Offset:    s.Window.Offset,
		Size:      s.Window.Size,
		ElapsedMS: timing.Millis(s.Elapsed),
		Found:     s.Found,
	}
}
