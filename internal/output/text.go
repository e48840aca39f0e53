// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// WriteText prints the report as one TSV row, optionally under TSVHeader.
func WriteText(w io.Writer, r api.ReportV1, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, FormatReportRowTSV(r))
	return err
}

// WriteSummary prints the human-oriented closing lines of a run.
func WriteSummary(w io.Writer, r api.ReportV1) error {
	_, err := fmt.Fprintf(w,
		"processed %s alignments (%d×%d) in %d batch(es), %s ms total\n"+
			"%s GCUPS on %s, %s/%s pairs within band %d\n",
		humanize.Comma(int64(r.Processed)), r.MaxSeqLen, r.MaxSeqLen, r.Batches,
		humanize.Commaf(r.ElapsedMS),
		FormatFloat(r.GCUPS, 4), r.Device.Name,
		humanize.Comma(int64(r.Found)), humanize.Comma(int64(r.Processed)), r.BandWidth,
	)
	return err
}
