package gencli

import (
	"errors"
	"flag"
	"testing"

	"github.com/quim0/nvbio-benchmarks/internal/clibase"
)

func parse(args ...string) (Options, error) {
	return ParseArgs(flag.NewFlagSet("test", flag.ContinueOnError), args)
}

func TestDefaultsAndGzipSuffix(t *testing.T) {
	o, err := parse("pairs.txt", "10", "100", "--gzip", "--seed", "9")
	if err != nil {
		t.Fatal(err)
	}
	if o.Out != "pairs.txt.gz" || o.Pairs != 10 || o.Length != 100 || o.Seed != 9 || o.ErrorRate != 0.05 {
		t.Fatalf("bad parse %+v", o)
	}
	o, _ = parse("-z", "pairs.gz", "1", "1")
	if o.Out != "pairs.gz" {
		t.Fatalf("suffix doubled: %q", o.Out)
	}
}

func TestErrors(t *testing.T) {
	if _, err := parse("out", "10"); !errors.Is(err, clibase.ErrUsage) {
		t.Fatalf("want usage error, got %v", err)
	}
	if _, err := parse("-e", "2", "out", "1", "1"); err == nil {
		t.Fatal("error rate > 1 accepted")
	}
	if _, err := parse("--gzip", "-", "1", "1"); err == nil {
		t.Fatal("gzip to stdout accepted")
	}
}
