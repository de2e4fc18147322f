package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()

	if a == b {
		t.Error("expected distinct ids")
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) failed: %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	if got := gen.Generate(); got != "a" {
		t.Errorf("first = %q, want a", got)
	}
	if got := gen.Generate(); got != "b" {
		t.Errorf("second = %q, want b", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when exhausted")
		}
	}()
	gen.Generate()
}
