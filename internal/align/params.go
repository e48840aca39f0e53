// Package align is the batched alignment primitive consumed by the executor.
// Callers describe device-resident string sets and a sink array; an Aligner
// fills one sink per pair.
package align

import (
	"errors"
	"fmt"

	"github.com/quim0/nvbio-benchmarks/internal/device"
)

// Mode selects which ends of the two sequences must be aligned.
type Mode int

const (
	// Global aligns both sequences end to end.
	Global Mode = iota
)

func (m Mode) String() string {
	if m == Global {
		return "global"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Scoring selects the scoring scheme.
type Scoring int

const (
	// EditDistance scores every substitution, insertion and deletion as 1.
	EditDistance Scoring = iota
)

func (s Scoring) String() string {
	if s == EditDistance {
		return "edit-distance"
	}
	return fmt.Sprintf("scoring(%d)", int(s))
}

const (
	// DefaultBandWidth is the reference band: 31 diagonals, 15 either side.
	DefaultBandWidth = 31
	// DefaultAlphabetSize is the DNA alphabet.
	DefaultAlphabetSize = 4
)

// Params configures one batched alignment call.
type Params struct {
	Mode         Mode
	Scoring      Scoring
	BandWidth    int // diagonals in the band; ≤ 0 disables banding
	AlphabetSize int
	Scheduler    device.Scheduler
}

// DefaultParams is global edit distance in a 31-wide band, parallel over pairs.
func DefaultParams() Params {
	return Params{
		Mode:         Global,
		Scoring:      EditDistance,
		BandWidth:    DefaultBandWidth,
		AlphabetSize: DefaultAlphabetSize,
		Scheduler:    device.Parallel,
	}
}

// HalfBand is the largest diagonal offset (and edit cost) the band admits,
// or -1 when banding is disabled.
func (p Params) HalfBand() int {
	if p.BandWidth <= 0 {
		return -1
	}
	return p.BandWidth / 2
}

// Validate rejects configurations the aligners do not implement.
func (p Params) Validate() error {
	if p.Mode != Global {
		return fmt.Errorf("unsupported alignment mode %s", p.Mode)
	}
	if p.Scoring != EditDistance {
		return fmt.Errorf("unsupported scoring %s", p.Scoring)
	}
	if p.AlphabetSize < 2 || p.AlphabetSize > 256 {
		return fmt.Errorf("alphabet size %d out of range [2,256]", p.AlphabetSize)
	}
	switch p.Scheduler {
	case device.Parallel, device.Sequential:
	default:
		return fmt.Errorf("unsupported scheduler %s", p.Scheduler)
	}
	return nil
}

// StringSet is a concatenated string set in device memory: Count strings,
// string i spanning Data[off[i]:off[i+1]] where off is Count+1 little-endian
// uint32 values stored at Offsets.
type StringSet struct {
	Data    device.Ptr
	Offsets device.Ptr
	Count   int
}

// Batch is one alignment call: Patterns[i] against Texts[i] into Sinks[i].
type Batch struct {
	Patterns StringSet
	Texts    StringSet
	Sinks    device.Ptr
	MaxRows  int // longest pattern; 0 = unchecked
	MaxCols  int // longest text; 0 = unchecked
}

// ErrBadBatch reports a malformed batch description.
var ErrBadBatch = errors.New("malformed alignment batch")

// Aligner aligns every pair of a batch on dev and blocks until done.
type Aligner interface {
	AlignBatch(dev *device.Context, p Params, b Batch) error
}
