// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
)

// Common holds CLI fields shared by myers-bench and pairgen.
type Common struct {
	Quiet   bool
	Version bool
	Help    bool
}

// ErrUsage marks errors caused by a malformed command line; apps print usage
// and exit 2.
var ErrUsage = errors.New("usage error")

// Register wires shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential diagnostics [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&c.Help, "h", false, "show this help [false]")
	fs.BoolVar(&c.Help, "help", false, "show this help [false]")
}

// ExpectPositionals checks that between min and max positional arguments were given.
func ExpectPositionals(pos []string, min, max int, synopsis string) error {
	if len(pos) < min || len(pos) > max {
		return fmt.Errorf("%w: expected %s, got %d argument(s)", ErrUsage, synopsis, len(pos))
	}
	return nil
}

// PositiveInt parses a positional argument that must be an integer > 0.
func PositiveInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrUsage, name, s)
	}
	return n, nil
}
