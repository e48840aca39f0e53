package batch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quim0/nvbio-benchmarks/internal/seqstore"
)

func store(t *testing.T, data string, stride, pairs int) *seqstore.Store {
	t.Helper()
	s, _, err := seqstore.Read(strings.NewReader(data), stride, pairs)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func TestWindowsCompleteness(t *testing.T) {
	ws := Windows(10, 4)
	if len(ws) != 3 {
		t.Fatalf("want 3 windows, got %d", len(ws))
	}
	sizes := []int{4, 4, 2}
	total := 0
	for i, w := range ws {
		if w.Index != i || w.Size != sizes[i] || w.Offset != total {
			t.Fatalf("window %d: %+v", i, w)
		}
		total += w.Size
	}
	if total != 10 {
		t.Fatalf("covered %d pairs, want 10", total)
	}
}

func TestWindowsDivisible(t *testing.T) {
	ws := Windows(8, 4)
	if len(ws) != 2 || ws[1].Size != 4 || ws[1].End() != 8 {
		t.Fatalf("divisible: %+v", ws)
	}
}

func TestWindowsSingleWhenBatchExceedsTotal(t *testing.T) {
	ws := Windows(3, 50000)
	if len(ws) != 1 || ws[0].Size != 3 {
		t.Fatalf("want one window of 3, got %+v", ws)
	}
	if Windows(0, 4) != nil || Windows(4, 0) != nil {
		t.Fatalf("degenerate inputs should yield no windows")
	}
}

func TestPackGathersParity(t *testing.T) {
	s := store(t, ">P0\n<T0\n>P1\n<T1\n>P2\n<T2\n", 4, 3)
	p := Pack(s, Window{Offset: 1, Size: 2})

	if len(p.Patterns) != 8 || len(p.Texts) != 8 {
		t.Fatalf("buffer sizes %d/%d, want 8", len(p.Patterns), len(p.Texts))
	}
	wantP := []byte("P1\x00\x00P2\x00\x00")
	wantT := []byte("T1\x00\x00T2\x00\x00")
	if !bytes.Equal(p.Patterns, wantP) {
		t.Fatalf("patterns: %q", p.Patterns)
	}
	if !bytes.Equal(p.Texts, wantT) {
		t.Fatalf("texts: %q", p.Texts)
	}
}

func TestPackDoesNotAliasStore(t *testing.T) {
	s := store(t, ">AAAA\n<CCCC\n", 4, 1)
	p := Pack(s, Window{Size: 1})
	p.Patterns[0] = 'X'
	if s.Slot(0)[0] != 'A' {
		t.Fatalf("packing aliased the store")
	}
}

func TestPoolMatchesPack(t *testing.T) {
	s := store(t, ">ACGTACGT\n<AC\n>G\n<TTTTTTTT\n", 8, 2)
	bp := NewPool()
	for round := 0; round < 3; round++ {
		for _, w := range Windows(2, 1) {
			want := Pack(s, w)
			got := bp.Pack(s, w)
			if !bytes.Equal(want.Patterns, got.Patterns) || !bytes.Equal(want.Texts, got.Texts) {
				t.Fatalf("round %d window %+v: pooled %q/%q vs %q/%q",
					round, w, got.Patterns, got.Texts, want.Patterns, want.Texts)
			}
			bp.Release(got)
		}
	}
}
