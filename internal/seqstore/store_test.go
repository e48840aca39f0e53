package seqstore

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func mustRead(t *testing.T, data string, stride, pairs int) (*Store, Stats) {
	t.Helper()
	s, st, err := Read(strings.NewReader(data), stride, pairs)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return s, st
}

func TestEndToEndLayout(t *testing.T) {
	s, st := mustRead(t, ">AAAA\n<AAAA\n>CCCC\n<CCCC\n", 4, 2)
	if st.Lines != 4 || st.Underflow() {
		t.Fatalf("stats: %+v", st)
	}
	want := []string{"AAAA", "AAAA", "CCCC", "CCCC"}
	for i, w := range want {
		if got := string(s.Slot(i)); got != w {
			t.Fatalf("slot %d: got %q want %q", i, got, w)
		}
	}
	if s.Bytes() != 16 {
		t.Fatalf("buffer size: got %d want 16", s.Bytes())
	}
}

func TestStrideAddressing(t *testing.T) {
	var in strings.Builder
	for i := 0; i < 8; i++ {
		in.WriteString(">")
		in.WriteString(strings.Repeat(string(rune('a'+i)), i%5+1))
		in.WriteString("\n")
	}
	const stride = 6
	s, _ := mustRead(t, in.String(), stride, 4)
	for i := 0; i < s.Sequences(); i++ {
		slot := s.Slot(i)
		if len(slot) != stride || cap(slot) != stride {
			t.Fatalf("slot %d: len=%d cap=%d", i, len(slot), cap(slot))
		}
		if &slot[0] != &s.buf[i*stride] {
			t.Fatalf("slot %d does not start at byte %d", i, i*stride)
		}
		if slot[0] != byte('a'+i) {
			t.Fatalf("slot %d holds %q", i, slot)
		}
	}
}

func TestPairParity(t *testing.T) {
	s, _ := mustRead(t, ">PPP\n<TTT\n>ppp\n<ttt\n", 3, 2)
	if string(s.Pattern(0)) != "PPP" || string(s.Text(0)) != "TTT" {
		t.Fatalf("pair 0: %q/%q", s.Pattern(0), s.Text(0))
	}
	if string(s.Pattern(1)) != "ppp" || string(s.Text(1)) != "ttt" {
		t.Fatalf("pair 1: %q/%q", s.Pattern(1), s.Text(1))
	}
}

func TestMarkerIsNotSemantic(t *testing.T) {
	// Swapped markers: parity still decides the role.
	s, st := mustRead(t, "<PP\n>TT\n", 2, 1)
	if string(s.Pattern(0)) != "PP" || string(s.Text(0)) != "TT" {
		t.Fatalf("parity ignored: %q/%q", s.Pattern(0), s.Text(0))
	}
	if st.Markers != 2 {
		t.Fatalf("want 2 marker mismatches counted, got %d", st.Markers)
	}
}

func TestPaddingIsZero(t *testing.T) {
	s, _ := mustRead(t, ">AC\n<A\n", 8, 1)
	for i, want := range []int{2, 1} {
		if s.Len(i) != want {
			t.Fatalf("len %d: got %d want %d", i, s.Len(i), want)
		}
		for j, b := range s.Slot(i)[want:] {
			if b != 0 {
				t.Fatalf("slot %d byte %d = %d, want 0", i, want+j, b)
			}
		}
	}
}

func TestTruncationClampsLength(t *testing.T) {
	s, st := mustRead(t, ">ACGTACGT\n<AC\n", 4, 1)
	if got := string(s.Slot(0)); got != "ACGT" {
		t.Fatalf("truncated slot: %q", got)
	}
	if s.Len(0) != 4 {
		t.Fatalf("recorded length must be clamped to the stride, got %d", s.Len(0))
	}
	if st.Truncated != 1 || st.LongestLine != 8 {
		t.Fatalf("stats: %+v", st)
	}
	if string(s.Slot(1)[:2]) != "AC" {
		t.Fatalf("next slot disturbed: %q", s.Slot(1))
	}
}

func TestLongLineBeyondReaderBuffer(t *testing.T) {
	long := strings.Repeat("G", 200<<10)
	s, st := mustRead(t, ">"+long+"\n<T\n", 16, 1)
	if string(s.Pattern(0)) != strings.Repeat("G", 16) || string(s.Text(0)) != "T" {
		t.Fatalf("long line: %q / %q", s.Pattern(0), s.Text(0))
	}
	if st.LongestLine != len(long) {
		t.Fatalf("longest: got %d want %d", st.LongestLine, len(long))
	}
}

func TestUnderflowLeavesZeroSlots(t *testing.T) {
	s, st := mustRead(t, ">AAAA\n<AAAA\n>CC\n", 4, 3)
	if !st.Underflow() || st.Lines != 3 || st.Missing() != 3 {
		t.Fatalf("stats: %+v", st)
	}
	for i := 3; i < s.Sequences(); i++ {
		if s.Len(i) != 0 || !bytes.Equal(s.Slot(i), make([]byte, 4)) {
			t.Fatalf("slot %d should be empty and zeroed: %q", i, s.Slot(i))
		}
	}
}

func TestStopsAfterRequestedLines(t *testing.T) {
	s, st := mustRead(t, ">A\n<C\n>G\n<T\n", 1, 1)
	if st.Lines != 2 || st.Underflow() {
		t.Fatalf("stats: %+v", st)
	}
	if string(s.Pattern(0)) != "A" || string(s.Text(0)) != "C" {
		t.Fatalf("pair 0: %q/%q", s.Pattern(0), s.Text(0))
	}
}

func TestCRLFAndEmptyLines(t *testing.T) {
	s, st := mustRead(t, ">AC\r\n\n>G\r\n<", 4, 2)
	if st.Lines != 4 {
		t.Fatalf("lines: %d", st.Lines)
	}
	wantLens := []int{2, 0, 1, 0}
	for i, w := range wantLens {
		if s.Len(i) != w {
			t.Fatalf("len %d: got %d want %d", i, s.Len(i), w)
		}
	}
	if s.Slot(0)[2] != 0 || s.Slot(2)[1] != 0 {
		t.Fatalf("carriage return left in padding: %q %q", s.Slot(0), s.Slot(2))
	}
}

func TestNoTrailingNewline(t *testing.T) {
	s, st := mustRead(t, ">AC\n<GT", 2, 1)
	if st.Lines != 2 || string(s.Text(0)) != "GT" {
		t.Fatalf("last line lost: %+v %q", st, s.Text(0))
	}
}

func TestNewRejectsBadBounds(t *testing.T) {
	for _, c := range []struct{ stride, pairs int }{{0, 1}, {1, 0}, {-1, 5}, {1 << 30, 1 << 30}} {
		if _, err := New(c.stride, c.pairs); !errors.Is(err, ErrAllocation) {
			t.Fatalf("New(%d,%d): want ErrAllocation, got %v", c.stride, c.pairs, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load("no_such_pairs_file.txt", 4, 1); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestLoadFromFile(t *testing.T) {
	fn := "seqstore_load.txt"
	if err := os.WriteFile(fn, []byte(">AAAA\n<AAAA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(fn) }()

	s, st, err := Load(fn, 4, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Lines != 2 || string(s.Pattern(0)) != "AAAA" {
		t.Fatalf("load: %+v %q", st, s.Pattern(0))
	}
	s.Release()
	if s.buf != nil || s.lens != nil {
		t.Fatalf("release kept buffers")
	}
}
