package jsonutil

import (
	"bytes"
	"testing"
)

func TestEncodePrettyIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePretty(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestCompact(t *testing.T) {
	b, err := Compact(map[string]string{"k": "<v>"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"k":"<v>"}` {
		t.Fatalf("got %s", b)
	}
}
