// internal/align/myers.go
package align

import (
	"fmt"
	"math/bits"

	"github.com/quim0/nvbio-benchmarks/internal/device"
)

const highBit = uint64(1) << 63

// Myers is the bit-parallel edit-distance aligner (Myers 1999, blocked as in
// Hyyrö 2003): one 64-row block of the DP column per machine word.
//
// A pair is found when its global edit distance fits the band, i.e. both the
// length difference and the distance are at most BandWidth/2. Any alignment
// of cost d stays within d diagonals of the main one, so the banded optimum
// equals the unbanded distance whenever it is found.
type Myers struct{}

// NewMyers returns the software bit-vector aligner.
func NewMyers() *Myers { return &Myers{} }

// AlignBatch implements Aligner.
func (Myers) AlignBatch(dev *device.Context, p Params, b Batch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if b.Patterns.Count != b.Texts.Count {
		return fmt.Errorf("%w: %d patterns vs %d texts", ErrBadBatch, b.Patterns.Count, b.Texts.Count)
	}
	n := b.Patterns.Count
	if n == 0 {
		return nil
	}

	pats, pOff, err := resolve(dev, b.Patterns, b.MaxRows)
	if err != nil {
		return fmt.Errorf("patterns: %w", err)
	}
	txts, tOff, err := resolve(dev, b.Texts, b.MaxCols)
	if err != nil {
		return fmt.Errorf("texts: %w", err)
	}
	sinks, err := dev.View(b.Sinks)
	if err != nil {
		return fmt.Errorf("sinks: %w", err)
	}
	if len(sinks) < n*SinkBytes {
		return fmt.Errorf("%w: sink array holds %d bytes, need %d", ErrBadBatch, len(sinks), n*SinkBytes)
	}

	half := p.HalfBand()
	return dev.Launch(p.Scheduler, n, func(lo, hi int) error {
		var w workspace
		for i := lo; i < hi; i++ {
			pat := pats[pOff[i]:pOff[i+1]]
			txt := txts[tOff[i]:tOff[i+1]]
			alignOne(&w, pat, txt, half).put(sinks[i*SinkBytes:])
		}
		return nil
	})
}

func resolve(dev *device.Context, s StringSet, maxLen int) ([]byte, []int, error) {
	data, err := dev.View(s.Data)
	if err != nil {
		return nil, nil, err
	}
	raw, err := dev.View(s.Offsets)
	if err != nil {
		return nil, nil, err
	}
	off, err := decodeOffsets(raw, s.Count, len(data), maxLen)
	if err != nil {
		return nil, nil, err
	}
	return data, off, nil
}

func alignOne(w *workspace, pattern, text []byte, half int) Sink {
	if half >= 0 && absInt(len(pattern)-len(text)) > half {
		return Sink{Score: NoScore}
	}
	d := w.distance(pattern, text)
	if half >= 0 && d > half {
		return Sink{Score: NoScore}
	}
	return Sink{Score: int32(-d), Found: true}
}

// Distance is the global edit distance between a and b.
func Distance(a, b []byte) int {
	var w workspace
	return w.distance(a, b)
}

// workspace holds per-lane scratch reused across pairs.
type workspace struct {
	peq   []uint64 // 256 rows × blocks; zero between pairs
	pv    []uint64
	mv    []uint64
	score []int
}

func (w *workspace) grow(blocks int) {
	if len(w.pv) >= blocks {
		return
	}
	w.peq = make([]uint64, 256*blocks)
	w.pv = make([]uint64, blocks)
	w.mv = make([]uint64, blocks)
	w.score = make([]int, blocks)
}

// distance runs the pattern down the rows and the text across the columns.
func (w *workspace) distance(pattern, text []byte) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}
	blocks := (m + 63) / 64
	w.grow(blocks)
	stride := len(w.pv)
	peq := w.peq
	for i, c := range pattern {
		peq[int(c)*stride+i/64] |= 1 << uint(i%64)
	}
	pv, mv, score := w.pv[:blocks], w.mv[:blocks], w.score[:blocks]
	for b := range pv {
		pv[b] = ^uint64(0)
		mv[b] = 0
		score[b] = (b + 1) * 64
	}

	for _, c := range text {
		eq := peq[int(c)*stride : int(c)*stride+blocks]
		hin := 1 // top row: D[0][j] = j
		for b := 0; b < blocks; b++ {
			hin = advanceBlock(&pv[b], &mv[b], eq[b], hin)
			score[b] += hin
		}
	}

	d := score[blocks-1]
	// Rows past m in the last block are padding; undo their vertical deltas.
	if pad := blocks*64 - m; pad > 0 {
		mask := ^uint64(0) << uint(64-pad)
		d -= bits.OnesCount64(pv[blocks-1]&mask) - bits.OnesCount64(mv[blocks-1]&mask)
	}

	for _, c := range pattern {
		row := peq[int(c)*stride : int(c)*stride+blocks]
		for b := range row {
			row[b] = 0
		}
	}
	return d
}

// advanceBlock moves one 64-row block a column to the right given the
// horizontal delta entering from above, and returns the delta leaving below.
func advanceBlock(pv, mv *uint64, eq uint64, hin int) int {
	p, m := *pv, *mv
	var hinNeg uint64
	if hin < 0 {
		hinNeg = 1
	}
	xv := eq | m
	eq |= hinNeg
	xh := (((eq & p) + p) ^ p) | eq
	ph := m | ^(xh | p)
	mh := p & xh

	hout := 0
	if ph&highBit != 0 {
		hout = 1
	} else if mh&highBit != 0 {
		hout = -1
	}

	ph <<= 1
	mh <<= 1
	mh |= hinNeg
	if hin > 0 {
		ph |= 1
	}
	*pv = mh | ^(xv | ph)
	*mv = ph & xv
	return hout
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
