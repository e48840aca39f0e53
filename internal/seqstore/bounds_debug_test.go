//go:build debug

package seqstore

import "testing"

func TestDebugLookupPanicsOutOfRange(t *testing.T) {
	s, err := New(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for index 2")
		}
	}()
	_ = s.Slot(2)
}
