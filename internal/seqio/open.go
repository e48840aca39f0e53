// internal/seqio/open.go
package seqio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// snappyMagic opens every snappy framed stream (stream identifier chunk).
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader over path, decompressing gzip and snappy-framed input.
// Compression is detected by magic bytes or by the .gz / .sz suffix.
// "-" reads from stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return wrap(bufio.NewReader(os.Stdin), path, io.NopCloser(os.Stdin))
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrap(bufio.NewReader(fh), path, fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return rc, nil
}

func wrap(br *bufio.Reader, path string, c io.Closer) (io.ReadCloser, error) {
	sig, _ := br.Peek(len(snappyMagic))
	switch {
	case (len(sig) >= 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, c}}, nil
	case bytes.Equal(sig, snappyMagic) || strings.HasSuffix(path, ".sz"):
		return &multiReadCloser{Reader: snappy.NewReader(br), closers: []io.Closer{c}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{c}}, nil
}

// Create opens path for writing with the compression its suffix asks for.
// The returned closer flushes the compressor before closing the file.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		return &multiWriteCloser{Writer: gzip.NewWriter(fh), file: fh}, nil
	case strings.HasSuffix(path, ".sz"):
		return &multiWriteCloser{Writer: snappy.NewBufferedWriter(fh), file: fh}, nil
	}
	return fh, nil
}

type multiWriteCloser struct {
	io.Writer
	file *os.File
}

func (m *multiWriteCloser) Close() error {
	var err error
	if c, ok := m.Writer.(io.Closer); ok {
		err = c.Close()
	}
	if cerr := m.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
