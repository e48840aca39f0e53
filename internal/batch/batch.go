// Package batch partitions the pair index space into windows and gathers
// each window's sequences into two contiguous host buffers.
package batch

import (
	"sync"

	"github.com/quim0/nvbio-benchmarks/internal/seqstore"
)

// Window is a contiguous range [Offset, Offset+Size) of pair indices.
type Window struct {
	Index  int // 0-based batch number
	Offset int
	Size   int
}

// End is one past the last pair of the window.
func (w Window) End() int { return w.Offset + w.Size }

// Windows splits [0,total) into ceil(total/size) windows; the last one is
// clipped to whatever remains.
func Windows(total, size int) []Window {
	if total <= 0 || size <= 0 {
		return nil
	}
	out := make([]Window, 0, (total+size-1)/size)
	for off := 0; off < total; off += size {
		n := size
		if rem := total - off; rem < n {
			n = rem
		}
		out = append(out, Window{Index: len(out), Offset: off, Size: n})
	}
	return out
}

// Packed holds one window's patterns and texts, each Size×Stride bytes.
// Slot k of Patterns/Texts is pair Offset+k.
type Packed struct {
	Window
	Stride   int
	Patterns []byte
	Texts    []byte
}

// Bytes is the host footprint of both buffers.
func (p Packed) Bytes() int { return len(p.Patterns) + len(p.Texts) }

// Pack gathers the pairs of w into freshly allocated buffers.
// Full strides are copied, padding included. The store is not modified.
func Pack(s *seqstore.Store, w Window) Packed {
	n := w.Size * s.Stride()
	p := Packed{Window: w, Stride: s.Stride(), Patterns: make([]byte, n), Texts: make([]byte, n)}
	gather(s, &p)
	return p
}

func gather(s *seqstore.Store, p *Packed) {
	stride := p.Stride
	for k := 0; k < p.Size; k++ {
		pair := p.Offset + k
		copy(p.Patterns[k*stride:(k+1)*stride], s.Slot(2*pair))
		copy(p.Texts[k*stride:(k+1)*stride], s.Slot(2*pair+1))
	}
}

// Pool reuses packing buffers across batches. Output is identical to Pack.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty buffer pool.
func NewPool() *Pool {
	return &Pool{pool: sync.Pool{New: func() any { return new([]byte) }}}
}

// Pack is Pack with buffers drawn from the pool.
func (bp *Pool) Pack(s *seqstore.Store, w Window) Packed {
	n := w.Size * s.Stride()
	p := Packed{Window: w, Stride: s.Stride(), Patterns: bp.get(n), Texts: bp.get(n)}
	gather(s, &p)
	return p
}

// Release returns p's buffers to the pool; p must not be used afterwards.
func (bp *Pool) Release(p Packed) {
	bp.put(p.Patterns)
	bp.put(p.Texts)
}

func (bp *Pool) get(n int) []byte {
	b := bp.pool.Get().(*[]byte)
	if cap(*b) < n {
		return make([]byte, n)
	}
	// gather overwrites every byte, padding included.
	return (*b)[:n]
}

func (bp *Pool) put(b []byte) {
	if b == nil {
		return
	}
	bp.pool.Put(&b)
}
