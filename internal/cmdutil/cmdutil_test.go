package cmdutil

import (
	"bufio"
	"bytes"
	"errors"
	"syscall"
	"testing"
)

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWarnfQuiet(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, true, "hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("quiet warning printed: %q", buf.String())
	}
	Warnf(&buf, false, "shown %d", 2)
	if buf.String() != "WARN: shown 2\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFlushExit(t *testing.T) {
	var errBuf bytes.Buffer

	w := bufio.NewWriter(failWriter{err: syscall.EPIPE})
	_, _ = w.WriteString("x")
	if code := FlushExit(w, &errBuf, ExitOK); code != ExitOK {
		t.Fatalf("broken pipe should keep exit code, got %d", code)
	}

	w = bufio.NewWriter(failWriter{err: errors.New("disk full")})
	_, _ = w.WriteString("x")
	if code := FlushExit(w, &errBuf, ExitOK); code != ExitRuntime {
		t.Fatalf("write failure should exit %d, got %d", ExitRuntime, code)
	}
	if errBuf.Len() == 0 {
		t.Fatalf("write failure not reported")
	}
}
