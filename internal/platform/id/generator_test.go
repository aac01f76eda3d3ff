package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewUUIDGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	b, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected uuid, got %q: %v", a, err)
	}
}
