// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"

	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// FormatFloat renders v with the fixed precision used in TSV rows.
func FormatFloat(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

// FormatReportRowTSV returns the TSVHeader columns of r (no trailing newline).
func FormatReportRowTSV(r api.ReportV1) string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%s\t%s\t%d\t%s",
		r.Input, r.Processed, r.MaxSeqLen, r.BatchSize, r.Batches,
		FormatFloat(r.ElapsedMS, 3), FormatFloat(r.GCUPS, 6), r.Found, r.Digest,
	)
}
