// Package seqstore holds every pattern/text sequence of a run in one
// fixed-stride buffer. Sequence i lives at byte offset i*stride; even
// indices are patterns, odd indices are texts. Slots are zero-padded.
package seqstore

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ErrAllocation is returned when the requested bounds cannot be backed by memory.
var ErrAllocation = errors.New("sequence store allocation failed")

// Store owns the sequence buffer and the per-sequence lengths.
// It is read-only once loaded.
type Store struct {
	stride int
	pairs  int
	buf    []byte
	lens   []int
}

// New allocates a zeroed store for pairs alignment pairs of at most stride bytes each.
func New(stride, pairs int) (*Store, error) {
	if stride <= 0 || pairs <= 0 {
		return nil, fmt.Errorf("%w: stride=%d pairs=%d must be > 0", ErrAllocation, stride, pairs)
	}
	seqs := 2 * pairs
	if pairs > math.MaxInt/2 || seqs > math.MaxInt/stride {
		return nil, fmt.Errorf("%w: %d×%d bytes overflows", ErrAllocation, seqs, stride)
	}
	size := seqs * stride
	if uint64(size) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds the %s limit",
			ErrAllocation, humanize.Bytes(uint64(size)), humanize.Bytes(maxBytes))
	}
	return &Store{
		stride: stride,
		pairs:  pairs,
		buf:    make([]byte, size),
		lens:   make([]int, seqs),
	}, nil
}

// maxBytes caps a single store; slices beyond this fail inside the runtime
// rather than with a diagnostic.
const maxBytes = 1 << 40

func (s *Store) Stride() int    { return s.stride }
func (s *Store) Pairs() int     { return s.pairs }
func (s *Store) Sequences() int { return 2 * s.pairs }

// Bytes returns the total buffer footprint.
func (s *Store) Bytes() int { return len(s.buf) }

// Slot returns the full stride-sized view of sequence i, padding included.
func (s *Store) Slot(i int) []byte {
	if checkBounds {
		s.mustIndex(i)
	}
	off := i * s.stride
	return s.buf[off : off+s.stride : off+s.stride]
}

// Len returns the recorded length of sequence i (at most the stride).
func (s *Store) Len(i int) int {
	if checkBounds {
		s.mustIndex(i)
	}
	return s.lens[i]
}

// Seq returns sequence i without its padding.
func (s *Store) Seq(i int) []byte { return s.Slot(i)[:s.Len(i)] }

// Pattern returns the pattern of pair k (sequence 2k).
func (s *Store) Pattern(k int) []byte { return s.Seq(2 * k) }

// Text returns the text of pair k (sequence 2k+1).
func (s *Store) Text(k int) []byte { return s.Seq(2*k + 1) }

// Release drops both buffers. The store must not be used afterwards.
func (s *Store) Release() {
	s.buf = nil
	s.lens = nil
}

func (s *Store) mustIndex(i int) {
	if i < 0 || i >= len(s.lens) {
		panic(fmt.Sprintf("seqstore: sequence index %d out of range [0,%d)", i, len(s.lens)))
	}
}
