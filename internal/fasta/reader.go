// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/quim0/nvbio-benchmarks/internal/seqio"
)

// Record is one window of a reference sequence.
type Record struct {
	ID  string // name:start-end
	Seq []byte
}

// StreamWindows streams windows of exactly win bp, advancing step bp between
// windows. Record tails shorter than win are dropped. The error channel
// receives at most one read error and is closed with the record channel.
func StreamWindows(path string, win, step int) (<-chan Record, <-chan error, error) {
	if win <= 0 {
		return nil, nil, fmt.Errorf("window must be > 0, got %d", win)
	}
	if step < 1 {
		step = win
	}
	rc, err := seqio.Open(path)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan Record, 4)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(out)
		defer rc.Close()

		r := bufio.NewReader(rc)
		var (
			id         string
			buf        []byte
			startCoord int
		)

		for {
			line, err := r.ReadBytes('\n')
			if err != nil && err != io.EOF {
				errc <- err
				return
			}
			eof := err == io.EOF
			line = bytes.TrimRight(line, "\r\n")
			if eof && len(line) == 0 {
				return
			}
			if len(line) > 0 && line[0] == '>' { // new header
				fields := strings.Fields(string(line[1:]))
				id = "seq"
				if len(fields) > 0 {
					id = fields[0]
				}
				buf = buf[:0]
				startCoord = 0
				continue
			}
			// sequence line
			buf = append(buf, bytes.ToUpper(line)...)
			for len(buf) >= win {
				out <- Record{
					ID:  fmt.Sprintf("%s:%d-%d", id, startCoord, startCoord+win),
					Seq: bytes.Clone(buf[:win]),
				}
				adv := step
				if adv > len(buf) {
					adv = len(buf)
				}
				startCoord += adv
				buf = append(buf[:0], buf[adv:]...)
			}
			if eof {
				return
			}
		}
	}()
	return out, errc, nil
}

// Windows collects up to max windows (0 = all) of win bp from path.
func Windows(path string, win, step, max int) ([][]byte, error) {
	recs, errc, err := StreamWindows(path, win, step)
	if err != nil {
		return nil, err
	}
	var seqs [][]byte
	for r := range recs {
		if max > 0 && len(seqs) == max {
			continue // drain
		}
		seqs = append(seqs, r.Seq)
	}
	if err := <-errc; err != nil {
		return seqs, err
	}
	return seqs, nil
}
