// Package writers turns benchmark reports into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV/JSON/JSONL).
//   - The driver stays measurement-only; it never formats anything.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
