// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/output"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// ReportWriters maps an output format to its final-report writer.
// JSONL is absent: it streams through StartRecordJSONLWriter instead.
var ReportWriters = map[string]func(w io.Writer, r api.ReportV1) error{}

// RegisterReport installs fn for format (last wins).
func RegisterReport(format string, fn func(io.Writer, api.ReportV1) error) { ReportWriters[format] = fn }

func init() {
	RegisterReport(output.FormatText, func(w io.Writer, r api.ReportV1) error { return output.WriteText(w, r, true) })
	RegisterReport(output.FormatJSON, output.WriteJSON)
}

// WriteReport dispatches r to the writer registered for format.
func WriteReport(format string, w io.Writer, r api.ReportV1) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, r)
}
