// internal/align/sink.go
package align

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SinkBytes is the device footprint of one Sink.
const SinkBytes = 8

// NoScore is the score of a sink that found no alignment.
const NoScore = math.MinInt32

// Sink holds the best alignment found for one pair. Scores are negated edit
// distances, so higher is better and a perfect match scores 0.
type Sink struct {
	Score int32
	Found bool
}

// Distance is the edit distance behind Score, or -1 when nothing was found.
func (s Sink) Distance() int {
	if !s.Found {
		return -1
	}
	return -int(s.Score)
}

func (s Sink) put(b []byte) {
	var flag uint32
	if s.Found {
		flag = 1
	}
	binary.LittleEndian.PutUint32(b[0:4], uint32(s.Score))
	binary.LittleEndian.PutUint32(b[4:8], flag)
}

// DecodeSinks parses n sinks from their device encoding.
func DecodeSinks(b []byte, n int) ([]Sink, error) {
	if len(b) < n*SinkBytes {
		return nil, fmt.Errorf("%w: %d bytes hold fewer than %d sinks", ErrBadBatch, len(b), n)
	}
	out := make([]Sink, n)
	for i := range out {
		rec := b[i*SinkBytes : (i+1)*SinkBytes]
		out[i] = Sink{
			Score: int32(binary.LittleEndian.Uint32(rec[0:4])),
			Found: binary.LittleEndian.Uint32(rec[4:8])&1 != 0,
		}
	}
	return out, nil
}

// EncodeSinks is the inverse of DecodeSinks.
func EncodeSinks(sinks []Sink) []byte {
	b := make([]byte, len(sinks)*SinkBytes)
	for i, s := range sinks {
		s.put(b[i*SinkBytes:])
	}
	return b
}

// EncodeOffsets lays out an offset table as little-endian uint32 values.
func EncodeOffsets(off []uint32) []byte {
	b := make([]byte, 4*len(off))
	for i, v := range off {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return b
}

func decodeOffsets(b []byte, count, dataLen, maxLen int) ([]int, error) {
	if len(b) < 4*(count+1) {
		return nil, fmt.Errorf("%w: offset table holds %d bytes, need %d", ErrBadBatch, len(b), 4*(count+1))
	}
	off := make([]int, count+1)
	for i := range off {
		off[i] = int(binary.LittleEndian.Uint32(b[4*i:]))
		if i == 0 {
			continue
		}
		n := off[i] - off[i-1]
		if n < 0 {
			return nil, fmt.Errorf("%w: offsets decrease at %d", ErrBadBatch, i)
		}
		if maxLen > 0 && n > maxLen {
			return nil, fmt.Errorf("%w: string %d has length %d > bound %d", ErrBadBatch, i-1, n, maxLen)
		}
	}
	if off[count] > dataLen {
		return nil, fmt.Errorf("%w: offsets end at %d past %d data bytes", ErrBadBatch, off[count], dataLen)
	}
	return off, nil
}
