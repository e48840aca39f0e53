// internal/integration/integration_test.go
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quim0/nvbio-benchmarks/internal/app"
	"github.com/quim0/nvbio-benchmarks/internal/genapp"
	"github.com/quim0/nvbio-benchmarks/pkg/api"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func runJSON(t *testing.T, args ...string) (api.ReportV1, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(append([]string{"--output", "json"}, args...), &out, &errBuf)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf.String())
	}
	var r api.ReportV1
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	return r, errBuf.String()
}

func TestEndToEndFourLines(t *testing.T) {
	fn := write(t, "itest_pairs.txt", ">AAAA\n<AAAA\n>CCCC\n<CCCC\n")
	defer os.Remove(fn)

	r, stderr := runJSON(t, fn, "4", "2", "2")
	if r.Processed != 2 || r.Batches != 1 || r.Pairs != 2 || r.MaxSeqLen != 4 {
		t.Fatalf("bad report %+v", r)
	}
	if r.ElapsedMS <= 0 || r.GCUPS <= 0 {
		t.Fatalf("elapsed %v gcups %v not positive", r.ElapsedMS, r.GCUPS)
	}
	if r.Found != 2 || r.LinesRead != 4 {
		t.Fatalf("found=%d lines=%d", r.Found, r.LinesRead)
	}
	if !strings.Contains(stderr, "loaded 4 sequences") || !strings.Contains(stderr, "batch 1/1") {
		t.Fatalf("missing progress line: %q", stderr)
	}
}

func TestTextOutput(t *testing.T) {
	fn := write(t, "itest_text.txt", ">ACGT\n<ACGA\n")
	defer os.Remove(fn)

	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"-q", fn, "4", "1"}, &out, &errBuf); code != 0 {
		t.Fatalf("exit %d: %s", code, errBuf.String())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "input\t") || !strings.HasPrefix(lines[1], fn+"\t1\t4\t1\t1\t") {
		t.Fatalf("unexpected text output:\n%s", out.String())
	}
	if errBuf.Len() != 0 {
		t.Fatalf("quiet run wrote to stderr: %q", errBuf.String())
	}

	out.Reset()
	if code := app.Run([]string{"-q", "--no-header", fn, "4", "1"}, &out, &errBuf); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if strings.HasPrefix(out.String(), "input\t") {
		t.Fatalf("header not suppressed: %q", out.String())
	}
}

func TestBatchClampWarning(t *testing.T) {
	fn := write(t, "itest_clamp.txt", ">AC\n<AC\n>GT\n<GA\n>TT\n<TT\n")
	defer os.Remove(fn)

	r, stderr := runJSON(t, fn, "2", "3", "100")
	if r.BatchSize != 3 || r.Batches != 1 || r.Processed != 3 {
		t.Fatalf("not clamped: %+v", r)
	}
	if !strings.Contains(stderr, "WARN: batch size 100 exceeds num_alignments 3") {
		t.Fatalf("missing clamp warning: %q", stderr)
	}
}

func TestUnderflowAndTruncationWarn(t *testing.T) {
	fn := write(t, "itest_short.txt", ">ACGTACGT\n<ACGT\n")
	defer os.Remove(fn)

	r, stderr := runJSON(t, fn, "4", "3", "2")
	if r.Processed != 3 || r.Batches != 2 || r.Truncated != 1 {
		t.Fatalf("bad report %+v", r)
	}
	for _, want := range []string{"input ended after 2 of 6 lines", "truncated (longest 8)"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("missing %q in %q", want, stderr)
		}
	}
}

func TestSchedulersAgree(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "gen.txt.gz")
	var so, se bytes.Buffer
	if code := genapp.Run([]string{"-q", "--seed", "11", "--error-rate", "0.1", fn, "300", "64"}, &so, &se); code != 0 {
		t.Fatalf("pairgen exit %d: %s", code, se.String())
	}

	par, _ := runJSON(t, "-q", "--lanes", "4", fn, "64", "300", "70")
	seq, _ := runJSON(t, "-q", "--scheduler", "sequential", "--reuse-buffers", fn, "64", "300", "70")
	if par.Digest != seq.Digest || par.Found != seq.Found {
		t.Fatalf("parallel %s/%d vs sequential %s/%d", par.Digest, par.Found, seq.Digest, seq.Found)
	}
	if par.Batches != 5 || par.Processed != 300 {
		t.Fatalf("bad batching %+v", par)
	}
}

func TestJSONLStream(t *testing.T) {
	fn := write(t, "itest_jsonl.txt", ">AAAA\n<AAAA\n>CCCC\n<CCCC\n>GGGG\n<GGGA\n")
	defer os.Remove(fn)

	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"-q", "-o", "jsonl", fn, "4", "3", "2"}, &out, &errBuf); code != 0 {
		t.Fatalf("exit %d: %s", code, errBuf.String())
	}
	var kinds []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var rec api.RecordV1
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		kinds = append(kinds, rec.Kind)
	}
	if strings.Join(kinds, ",") != "batch,batch,report" {
		t.Fatalf("unexpected record kinds %v", kinds)
	}
}

func TestRecordLedger(t *testing.T) {
	fn := write(t, "itest_ledger.txt", ">ACGT\n<ACGT\n")
	defer os.Remove(fn)
	db := filepath.Join(t.TempDir(), "runs.sqlite")

	_, first := runJSON(t, "--record", db, fn, "4", "1")
	if !strings.Contains(first, "recorded run #1") {
		t.Fatalf("first run not recorded: %q", first)
	}
	_, second := runJSON(t, "--record", db, fn, "4", "1")
	if !strings.Contains(second, "best recorded at max_seq_len 4") || !strings.Contains(second, "recorded run #2") {
		t.Fatalf("second run did not compare: %q", second)
	}

	_, third := runJSON(t, "-q", "--record", db, "--history", "2", fn, "4", "1")
	if !strings.Contains(third, "last 2 recorded run(s):") {
		t.Fatalf("history header missing: %q", third)
	}
	i3, i2 := strings.Index(third, "  #3\t"), strings.Index(third, "  #2\t")
	if i3 < 0 || i2 < i3 || strings.Contains(third, "  #1\t") {
		t.Fatalf("history should list runs 3 then 2 only: %q", third)
	}
}

func TestExitCodes(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := app.Run([]string{"only", "two"}, &out, &errBuf); code != 2 {
		t.Fatalf("wrong argc: want 2, got %d", code)
	}
	if !strings.Contains(errBuf.String(), "Usage:") {
		t.Fatalf("usage not printed on stderr: %q", errBuf.String())
	}
	if code := app.Run([]string{"does-not-exist.txt", "4", "1"}, &out, &errBuf); code != 3 {
		t.Fatalf("missing file: want 3, got %d", code)
	}
	fn := write(t, "itest_oom.txt", ">ACGT\n<ACGT\n")
	defer os.Remove(fn)
	if code := app.Run([]string{"--device-memory", "16B", fn, "4", "1"}, &out, &errBuf); code != 3 {
		t.Fatalf("device OOM: want 3, got %d", code)
	}
	out.Reset()
	if code := app.Run([]string{"--version"}, &out, &errBuf); code != 0 || !strings.HasPrefix(out.String(), "myers-bench version") {
		t.Fatalf("version: %d %q", code, out.String())
	}
}

func TestCancelledRunExits130(t *testing.T) {
	fn := write(t, "itest_cancel.txt", ">AAAA\n<AAAA\n")
	defer os.Remove(fn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errBuf bytes.Buffer
	if code := app.RunContext(ctx, []string{fn, "4", "1"}, &out, &errBuf); code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
	if !strings.Contains(errBuf.String(), "cancelled after 0 of 1 batch(es)") {
		t.Fatalf("missing cancel diagnostic: %q", errBuf.String())
	}
}
