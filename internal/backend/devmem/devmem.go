// Package devmem emulates a device address space for backends whose memory
// is not addressable by raw pointers (host reference execution, WebGPU buffers).
//
// Every allocation gets a synthetic, aligned DevicePtr. Pointers inside an
// allocation resolve to the allocation plus a byte offset, so callers can
// pass sub-views exactly as they would with real device pointers.
package devmem

import (
	"slices"
	"sync"

	"github.com/samcharles93/gpublas/internal/backend"
)

const (
	// Alignment of every allocation base, matching cudaMalloc's guarantee.
	Alignment = 256
	// guard bytes between allocations so off-by-one pointers never alias.
	guard = Alignment
)

// Block is one allocation.
type Block[T any] struct {
	Base    backend.DevicePtr
	Size    int
	Payload T
}

// Space is a range-checked address space. It is safe for concurrent use.
type Space[T any] struct {
	mu     sync.RWMutex
	next   uintptr
	blocks []*Block[T] // sorted by Base
	inUse  int64
}

// NewSpace creates an address space whose first allocation starts at base.
func NewSpace[T any](base uintptr) *Space[T] {
	return &Space[T]{next: alignUp(base)}
}

// Insert registers a new allocation of size bytes and returns its address.
func (s *Space[T]) Insert(size int, payload T) backend.DevicePtr {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.next
	s.next = alignUp(base + uintptr(max(size, 1)) + guard)
	b := &Block[T]{Base: backend.DevicePtr(base), Size: size, Payload: payload}
	s.blocks = append(s.blocks, b)
	s.inUse += int64(size)
	return b.Base
}

// Remove deletes the allocation starting exactly at p.
func (s *Space[T]) Remove(p backend.DevicePtr) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := slices.BinarySearchFunc(s.blocks, p, func(b *Block[T], p backend.DevicePtr) int {
		return cmpPtr(b.Base, p)
	})
	if !found {
		var zero T
		return zero, false
	}
	b := s.blocks[i]
	s.blocks = slices.Delete(s.blocks, i, i+1)
	s.inUse -= int64(b.Size)
	return b.Payload, true
}

// Lookup resolves p to the allocation containing it and the byte offset of p
// within that allocation.
func (s *Space[T]) Lookup(p backend.DevicePtr) (*Block[T], int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// First block whose base is greater than p; the candidate precedes it.
	i, _ := slices.BinarySearchFunc(s.blocks, p+1, func(b *Block[T], p backend.DevicePtr) int {
		return cmpPtr(b.Base, p)
	})
	if i == 0 {
		return nil, 0, false
	}
	b := s.blocks[i-1]
	off := int(p - b.Base)
	if off >= b.Size {
		return nil, 0, false
	}
	return b, off, true
}

// Drain removes every allocation and returns their payloads.
func (s *Space[T]) Drain() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, b.Payload)
	}
	s.blocks = nil
	s.inUse = 0
	return out
}

// Len returns the number of live allocations.
func (s *Space[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

// InUse returns the number of allocated bytes.
func (s *Space[T]) InUse() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inUse
}

func alignUp(v uintptr) uintptr {
	return (v + Alignment - 1) &^ (Alignment - 1)
}

func cmpPtr(a, b backend.DevicePtr) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
