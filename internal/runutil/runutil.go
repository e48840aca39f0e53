// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultBatchSize is the number of pairs per device invocation when the
// batch size is not given.
const DefaultBatchSize = 50000

// EffectiveBatchSize clamps batch to the pair count. clamped reports whether
// the caller should print a diagnostic.
func EffectiveBatchSize(batch, pairs int) (size int, clamped bool) {
	if batch > pairs {
		return pairs, true
	}
	return batch, false
}

// ParseMemory parses a device memory limit such as "8GiB" or "512 MB".
// "", "0" and "unlimited" mean no limit.
func ParseMemory(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "0", "unlimited":
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size %q: %v", s, err)
	}
	return n, nil
}

// BatchWarnings returns the diagnostics for a requested run shape.
// Rules:
//   - batch > pairs → clamped to pairs
//   - band wider than the stride → every pair of the batch fits the band
func BatchWarnings(batch, pairs, band, stride int) (int, []string) {
	var warns []string
	size, clamped := EffectiveBatchSize(batch, pairs)
	if clamped {
		warns = append(warns, fmt.Sprintf("batch size %s exceeds num_alignments %s; clamping to %s",
			humanize.Comma(int64(batch)), humanize.Comma(int64(pairs)), humanize.Comma(int64(size))))
	}
	if band > 0 && band/2 >= stride {
		warns = append(warns, fmt.Sprintf("--band %d covers every cell of a %d×%d matrix; banding has no effect", band, stride, stride))
	}
	return size, warns
}
