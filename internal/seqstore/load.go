// internal/seqstore/load.go
package seqstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/seqio"
)

// Stats describes what a load pass saw.
type Stats struct {
	Requested   int // 2 × pairs
	Lines       int // lines consumed (≤ Requested)
	Truncated   int // lines longer than the stride
	LongestLine int // longest sequence seen, before clamping
	Markers     int // lines whose marker disagrees with their parity
}

// Underflow reports whether the input ended before every slot was filled.
// Missing slots stay zero and align as empty sequences.
func (st Stats) Underflow() bool { return st.Lines < st.Requested }

// Missing is the number of slots left empty by an underflow.
func (st Stats) Missing() int { return st.Requested - st.Lines }

// Load allocates a store and fills it from path (plain, gzip, snappy or "-").
func Load(path string, stride, pairs int) (*Store, Stats, error) {
	s, err := New(stride, pairs)
	if err != nil {
		return nil, Stats{}, err
	}
	rc, err := seqio.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer func() { _ = rc.Close() }()

	st, err := s.fill(rc)
	if err != nil {
		return nil, st, fmt.Errorf("read %s: %w", path, err)
	}
	return s, st, nil
}

// Read allocates a store and fills it from r.
func Read(r io.Reader, stride, pairs int) (*Store, Stats, error) {
	s, err := New(stride, pairs)
	if err != nil {
		return nil, Stats{}, err
	}
	st, err := s.fill(r)
	if err != nil {
		return nil, st, err
	}
	return s, st, nil
}

// fill reads one sequence per line into consecutive slots. The first byte of
// each line is a marker and is dropped; role comes from line parity only.
// Stops after 2×pairs lines or at EOF.
func (s *Store) fill(r io.Reader) (Stats, error) {
	st := Stats{Requested: s.Sequences()}
	br := bufio.NewReaderSize(r, 64<<10)
	for st.Lines < st.Requested {
		i := st.Lines
		n, marker, ok, err := readSeq(br, s.Slot(i))
		if err != nil {
			return st, err
		}
		if !ok {
			break
		}
		st.Lines++
		if marker != 0 && marker != expectedMarker(i) {
			st.Markers++
		}
		if n > st.LongestLine {
			st.LongestLine = n
		}
		if n > s.stride {
			st.Truncated++
			n = s.stride
		}
		s.lens[i] = n
	}
	return st, nil
}

func expectedMarker(i int) byte {
	if i%2 == 0 {
		return '>'
	}
	return '<'
}

// readSeq copies one line, minus its marker and line ending, into dst.
// n is the full sequence length even when dst was too short to hold it.
// ok is false only when EOF was reached before any byte of a new line.
func readSeq(br *bufio.Reader, dst []byte) (n int, marker byte, ok bool, err error) {
	var last byte
	for {
		chunk, rerr := br.ReadSlice('\n')
		if len(chunk) > 0 {
			ok = true
		}
		body := chunk
		if len(body) > 0 && body[len(body)-1] == '\n' {
			body = body[:len(body)-1]
		}
		if marker == 0 && len(body) > 0 {
			marker, body = body[0], body[1:]
		}
		if len(body) > 0 {
			if n < len(dst) {
				copy(dst[n:], body)
			}
			n += len(body)
			last = body[len(body)-1]
		}

		if rerr == nil || rerr == io.EOF {
			break
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		return n, marker, ok, rerr
	}
	if marker == '\r' && n == 0 {
		marker = 0
	}
	if n > 0 && last == '\r' {
		n--
		if n < len(dst) {
			dst[n] = 0
		}
	}
	return n, marker, ok, nil
}
