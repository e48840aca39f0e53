// internal/output/json.go
package output

import (
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/jsonutil"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

// WriteJSON writes the report as one pretty-indented JSON object (v1).
func WriteJSON(w io.Writer, r api.ReportV1) error {
	return jsonutil.EncodePretty(w, r)
}
