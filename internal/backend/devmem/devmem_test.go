package devmem

import (
	"testing"

	"github.com/samcharles93/gpublas/internal/backend"
)

func TestInsertAligned(t *testing.T) {
	t.Parallel()
	s := NewSpace[string](0x1000)
	a := s.Insert(10, "a")
	b := s.Insert(3000, "b")
	if a%Alignment != 0 || b%Alignment != 0 {
		t.Fatalf("unaligned bases: %#x %#x", a, b)
	}
	if b <= a+10 {
		t.Fatalf("allocations overlap: %#x %#x", a, b)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", s.Len())
	}
	if s.InUse() != 3010 {
		t.Fatalf("expected 3010 bytes in use, got %d", s.InUse())
	}
}

func TestLookupInterior(t *testing.T) {
	t.Parallel()
	s := NewSpace[int](0x1000)
	base := s.Insert(64, 7)
	s.Insert(64, 8)

	blk, off, ok := s.Lookup(base.Add(40))
	if !ok {
		t.Fatal("interior pointer not found")
	}
	if blk.Payload != 7 || off != 40 {
		t.Fatalf("got payload %d offset %d", blk.Payload, off)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	t.Parallel()
	s := NewSpace[int](0x1000)
	base := s.Insert(64, 1)

	cases := map[string]backend.DevicePtr{
		"before":   base - 1,
		"past end": base.Add(64),
		"zero":     0,
	}
	for name, p := range cases {
		if _, _, ok := s.Lookup(p); ok {
			t.Fatalf("%s: pointer %#x unexpectedly resolved", name, p)
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := NewSpace[int](0x1000)
	a := s.Insert(16, 1)
	b := s.Insert(16, 2)

	if _, ok := s.Remove(a.Add(4)); ok {
		t.Fatal("interior pointer must not free an allocation")
	}
	v, ok := s.Remove(a)
	if !ok || v != 1 {
		t.Fatalf("Remove(a) = %d, %v", v, ok)
	}
	if _, _, ok := s.Lookup(a); ok {
		t.Fatal("freed allocation still resolves")
	}
	if _, _, ok := s.Lookup(b); !ok {
		t.Fatal("remaining allocation lost")
	}
	if _, ok := s.Remove(a); ok {
		t.Fatal("double free accepted")
	}
}

func TestDrain(t *testing.T) {
	t.Parallel()
	s := NewSpace[int](0x1000)
	s.Insert(1, 1)
	s.Insert(2, 2)
	got := s.Drain()
	if len(got) != 2 || s.Len() != 0 || s.InUse() != 0 {
		t.Fatalf("drain left state: payloads=%v len=%d inUse=%d", got, s.Len(), s.InUse())
	}
}
