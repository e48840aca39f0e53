// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON/JSONL schema for one benchmark run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	Input      string   `json:"input"`
	Pairs      int      `json:"pairs"`
	MaxSeqLen  int      `json:"max_seq_len"`
	BatchSize  int      `json:"batch_size"`
	Batches    int      `json:"batches"`
	Processed  int      `json:"processed"`
	ElapsedMS  float64  `json:"elapsed_ms"`
	MinBatchMS float64  `json:"min_batch_ms"`
	MaxBatchMS float64  `json:"max_batch_ms"`
	GCUPS      float64  `json:"gcups"`
	Found      int      `json:"found"`
	Digest     string   `json:"digest"` // 16 hex digits
	BandWidth  int      `json:"band_width"`
	Scheduler  string   `json:"scheduler"`
	LinesRead  int      `json:"lines_read"`
	Truncated  int      `json:"truncated,omitempty"`
	Device     DeviceV1 `json:"device"`
	Version    string   `json:"version,omitempty"`
}

// DeviceV1 describes the execution context of a run.
type DeviceV1 struct {
	Name      string `json:"name"`
	Lanes     int    `json:"lanes"`
	AVX2      bool   `json:"avx2"`
	PeakBytes uint64 `json:"peak_bytes"`
	H2DBytes  uint64 `json:"h2d_bytes"`
	D2HBytes  uint64 `json:"d2h_bytes"`
}

// BatchV1 is one executed batch.
type BatchV1 struct {
	Index     int     `json:"index"`
	Offset    int     `json:"offset"`
	Size      int     `json:"size"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Found     int     `json:"found"`
}

// RecordV1 is one JSONL line: a batch while running, the report at the end.
type RecordV1 struct {
	Kind   string    `json:"kind"` // "batch" | "report"
	Batch  *BatchV1  `json:"batch,omitempty"`
	Report *ReportV1 `json:"report,omitempty"`
}
