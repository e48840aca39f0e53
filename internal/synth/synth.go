// Package synth generates random pattern/text pairs in the benchmark input
// format: alternating '>PATTERN' and '<TEXT' lines.
package synth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
)

const alphabet = "ACGT"

// Config describes a generated file.
type Config struct {
	Pairs     int
	Length    int
	ErrorRate float64 // per-base probability of an edit in the text
	Seed      int64
	// Templates, when set, replace random patterns; pair i uses
	// Templates[i%len(Templates)] clipped to Length.
	Templates [][]byte
}

// Stats summarizes what Write produced.
type Stats struct {
	Pairs int
	Bytes int64
	Edits int
}

// Validate checks the generator bounds.
func (c Config) Validate() error {
	if c.Pairs <= 0 {
		return errors.New("num_pairs must be > 0")
	}
	if c.Length <= 0 {
		return errors.New("length must be > 0")
	}
	if c.ErrorRate < 0 || c.ErrorRate > 1 {
		return fmt.Errorf("error rate %g outside [0,1]", c.ErrorRate)
	}
	return nil
}

// Generator produces pairs deterministically from a seed.
type Generator struct {
	cfg Config
	rng *rand.Rand
	pat []byte
	txt []byte
	n   int
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		pat: make([]byte, 0, cfg.Length),
		txt: make([]byte, 0, cfg.Length+1),
	}
}

// Next returns the next pattern and its mutated text together with the number
// of edits applied. Both slices are reused by the following call.
func (g *Generator) Next() (pattern, text []byte, edits int) {
	g.pat = g.pat[:0]
	if t := g.cfg.Templates; len(t) > 0 {
		tpl := t[g.n%len(t)]
		if len(tpl) > g.cfg.Length {
			tpl = tpl[:g.cfg.Length]
		}
		g.pat = append(g.pat, tpl...)
	} else {
		for i := 0; i < g.cfg.Length; i++ {
			g.pat = append(g.pat, alphabet[g.rng.Intn(len(alphabet))])
		}
	}
	g.n++
	g.txt, edits = Mutate(g.rng, g.txt[:0], g.pat, g.cfg.ErrorRate)
	if len(g.txt) > g.cfg.Length {
		g.txt = g.txt[:g.cfg.Length]
	}
	return g.pat, g.txt, edits
}

// Mutate appends to dst a copy of src where each position is, with
// probability rate, substituted, deleted or followed by an insertion.
func Mutate(rng *rand.Rand, dst, src []byte, rate float64) ([]byte, int) {
	edits := 0
	for _, c := range src {
		if rate == 0 || rng.Float64() >= rate {
			dst = append(dst, c)
			continue
		}
		edits++
		switch rng.Intn(3) {
		case 0: // substitution
			dst = append(dst, substitute(rng, c))
		case 1: // deletion
		default: // insertion
			dst = append(dst, c, alphabet[rng.Intn(len(alphabet))])
		}
	}
	return dst, edits
}

func substitute(rng *rand.Rand, c byte) byte {
	for {
		b := alphabet[rng.Intn(len(alphabet))]
		if b != c {
			return b
		}
	}
}

// Write emits cfg.Pairs pairs to w.
func Write(w io.Writer, cfg Config) (Stats, error) {
	var st Stats
	if err := cfg.Validate(); err != nil {
		return st, err
	}
	bw := bufio.NewWriterSize(w, 1<<16)
	g := NewGenerator(cfg)
	for i := 0; i < cfg.Pairs; i++ {
		p, t, e := g.Next()
		for _, line := range [...]struct {
			marker byte
			seq    []byte
		}{{'>', p}, {'<', t}} {
			if err := bw.WriteByte(line.marker); err != nil {
				return st, err
			}
			if _, err := bw.Write(line.seq); err != nil {
				return st, err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return st, err
			}
			st.Bytes += int64(len(line.seq) + 2)
		}
		st.Pairs++
		st.Edits += e
	}
	return st, bw.Flush()
}
