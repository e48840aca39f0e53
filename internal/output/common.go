package output

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// TSVHeader is the canonical header row for text/TSV reports.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "input\tpairs\tmax_seq_len\tbatch_size\tbatches\telapsed_ms\tgcups\tfound\tdigest"
