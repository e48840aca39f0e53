// internal/cmdutil/run.go
package cmdutil

import (
	"bufio"
	"fmt"
	"io"

	"github.com/quim0/nvbio-benchmarks/internal/writers"
)

// Exit codes shared by every tool.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitRuntime   = 3
	ExitCancelled = 130
)

// FlushExit flushes w and returns code, or ExitRuntime when the flush fails
// for any reason other than a closed downstream pipe.
func FlushExit(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return code
}
