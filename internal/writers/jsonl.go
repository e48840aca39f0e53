// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/bench"
	"github.com/quim0/nvbio-benchmarks/internal/jsonlutil"
	"github.com/quim0/nvbio-benchmarks/internal/output"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// StartRecordJSONLWriter streams each record as one JSON line (v1).
func StartRecordJSONLWriter(out io.Writer, bufSize int) (chan<- api.RecordV1, <-chan error) {
	return jsonlutil.Start[api.RecordV1](out, bufSize,
		func(enc *json.Encoder, r api.RecordV1) error {
			return enc.Encode(r)
		},
		IsBrokenPipe,
	)
}

// JSONLObserver emits a "batch" line per batch while the driver runs.
// The final "report" line is sent by Report once run metadata is known.
type JSONLObserver struct {
	in   chan<- api.RecordV1
	done <-chan error
}

// NewJSONLObserver starts the writer goroutine on out.
func NewJSONLObserver(out io.Writer) *JSONLObserver {
	in, done := StartRecordJSONLWriter(out, 64)
	return &JSONLObserver{in: in, done: done}
}

func (o *JSONLObserver) Start(int, int) {}

func (o *JSONLObserver) Batch(s bench.BatchStat) {
	b := output.ToAPIBatch(s)
	o.in <- api.RecordV1{Kind: "batch", Batch: &b}
}

func (o *JSONLObserver) Finish(bench.Report) {}

// Report sends the closing line, stops the writer and returns its error.
func (o *JSONLObserver) Report(r api.ReportV1) error {
	o.in <- api.RecordV1{Kind: "report", Report: &r}
	return o.Close()
}

// Close stops the writer without a report line. Only the first call reports.
func (o *JSONLObserver) Close() error {
	if o.in == nil {
		return nil
	}
	close(o.in)
	o.in = nil
	return <-o.done
}
