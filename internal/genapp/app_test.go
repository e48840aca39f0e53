package genapp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quim0/nvbio-benchmarks/internal/seqstore"
)

func TestGenerateGzipRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pairs.txt")
	var so, se bytes.Buffer
	code := Run([]string{"--gzip", "--seed", "3", out, "12", "50"}, &so, &se)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, se.String())
	}
	if !strings.Contains(se.String(), "wrote 12 pairs") {
		t.Fatalf("missing summary: %q", se.String())
	}
	s, st, err := seqstore.Load(out+".gz", 50, 12)
	if err != nil {
		t.Fatal(err)
	}
	if st.Underflow() || len(s.Pattern(11)) != 50 {
		t.Fatalf("bad load %+v", st)
	}
}

func TestGenerateToStdout(t *testing.T) {
	var so, se bytes.Buffer
	if code := Run([]string{"-q", "-", "2", "8"}, &so, &se); code != 0 {
		t.Fatalf("exit %d: %s", code, se.String())
	}
	if n := strings.Count(so.String(), "\n"); n != 4 || se.Len() != 0 {
		t.Fatalf("lines=%d stderr=%q", n, se.String())
	}
}

func TestUsageAndIOErrors(t *testing.T) {
	var so, se bytes.Buffer
	if code := Run([]string{"only-one"}, &so, &se); code != 2 {
		t.Fatalf("want 2, got %d", code)
	}
	bad := filepath.Join(t.TempDir(), "missing", "dir", "x.txt")
	if code := Run([]string{bad, "1", "1"}, &so, &se); code != 3 {
		t.Fatalf("want 3, got %d", code)
	}
	_ = os.Remove(bad)
}

func TestGenerateFromReference(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.fa")
	if err := os.WriteFile(ref, []byte(">chr\nACGTACGTAC\nGGCCTTAA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "pairs.txt")
	var so, se bytes.Buffer
	code := Run([]string{"--reference", ref, "--error-rate", "0", out, "4", "6"}, &so, &se)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, se.String())
	}
	if !strings.Contains(se.String(), "reference yields 3 windows") {
		t.Fatalf("missing repeat warning: %q", se.String())
	}
	data, _ := os.ReadFile(out)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{">ACGTAC", "<ACGTAC", ">GTACGG", "<GTACGG", ">CCTTAA", "<CCTTAA", ">ACGTAC", "<ACGTAC"}
	if strings.Join(lines, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v", lines)
	}
}
