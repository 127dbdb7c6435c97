// Package cpu is the reference backend. It executes every Level-1 entry point
// on the host with gonum's BLAS implementation while keeping device memory in
// a separate, range-checked address space, so it behaves like a device library
// from the facade's point of view.
package cpu

import (
	"sync"
	"unsafe"

	"gonum.org/v1/gonum/blas/gonum"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/devmem"
)

// Version is reported by Library.Version, encoded as major*10000+minor*100+patch.
const Version = 10200

// Base of the emulated device address space.
const addressBase = 0x7e0000000000

func init() {
	backend.Register(backend.CPU, func() (backend.Library, error) {
		return New(), nil
	})
}

type session struct {
	pointerMode backend.PointerMode
	atomicsMode backend.AtomicsMode
}

// Library is the CPU backend.
type Library struct {
	impl gonum.Implementation
	mem  *devmem.Space[[]uint64]

	mu         sync.RWMutex
	sessions   map[backend.Handle]*session
	nextHandle backend.Handle

	symbols map[string]any
}

var _ backend.Library = (*Library)(nil)

func New() *Library {
	l := &Library{
		mem:      devmem.NewSpace[[]uint64](addressBase),
		sessions: make(map[backend.Handle]*session),
	}
	l.symbols = l.level1()
	return l
}

func (l *Library) Name() string {
	return backend.CPU
}

func (l *Library) Create() (backend.Handle, backend.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextHandle++
	h := l.nextHandle
	l.sessions[h] = &session{
		pointerMode: backend.PointerModeHost,
		atomicsMode: backend.AtomicsNotAllowed,
	}
	return h, backend.StatusSuccess
}

func (l *Library) Destroy(h backend.Handle) backend.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[h]; !ok {
		return backend.StatusNotInitialized
	}
	delete(l.sessions, h)
	return backend.StatusSuccess
}

// session returns a snapshot of the session state for h.
func (l *Library) session(h backend.Handle) (session, backend.Status) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sessions[h]
	if !ok {
		return session{}, backend.StatusNotInitialized
	}
	return *s, backend.StatusSuccess
}

func (l *Library) Version(h backend.Handle) (int, backend.Status) {
	if _, st := l.session(h); st != backend.StatusSuccess {
		return 0, st
	}
	return Version, backend.StatusSuccess
}

func (l *Library) PointerMode(h backend.Handle) (backend.PointerMode, backend.Status) {
	s, st := l.session(h)
	return s.pointerMode, st
}

func (l *Library) SetPointerMode(h backend.Handle, mode backend.PointerMode) backend.Status {
	if mode != backend.PointerModeHost && mode != backend.PointerModeDevice {
		return backend.StatusInvalidValue
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[h]
	if !ok {
		return backend.StatusNotInitialized
	}
	s.pointerMode = mode
	return backend.StatusSuccess
}

func (l *Library) AtomicsMode(h backend.Handle) (backend.AtomicsMode, backend.Status) {
	s, st := l.session(h)
	return s.atomicsMode, st
}

// SetAtomicsMode records the mode. gonum reductions are sequential, so the
// results do not depend on it.
func (l *Library) SetAtomicsMode(h backend.Handle, mode backend.AtomicsMode) backend.Status {
	if mode != backend.AtomicsNotAllowed && mode != backend.AtomicsAllowed {
		return backend.StatusInvalidValue
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[h]
	if !ok {
		return backend.StatusNotInitialized
	}
	s.atomicsMode = mode
	return backend.StatusSuccess
}

func (l *Library) Malloc(bytes int) (backend.DevicePtr, backend.Status) {
	if bytes < 0 {
		return 0, backend.StatusInvalidValue
	}
	// uint64 words keep every element type naturally aligned.
	words := make([]uint64, (bytes+7)/8)
	return l.mem.Insert(bytes, words), backend.StatusSuccess
}

func (l *Library) Free(p backend.DevicePtr) backend.Status {
	if p == 0 {
		return backend.StatusSuccess
	}
	if _, ok := l.mem.Remove(p); !ok {
		return backend.StatusMappingError
	}
	return backend.StatusSuccess
}

func (l *Library) CopyToDevice(dst backend.DevicePtr, src []byte) backend.Status {
	if len(src) == 0 {
		return backend.StatusSuccess
	}
	buf, st := l.bytesAt(dst, len(src))
	if st != backend.StatusSuccess {
		return st
	}
	copy(buf, src)
	return backend.StatusSuccess
}

func (l *Library) CopyToHost(dst []byte, src backend.DevicePtr) backend.Status {
	if len(dst) == 0 {
		return backend.StatusSuccess
	}
	buf, st := l.bytesAt(src, len(dst))
	if st != backend.StatusSuccess {
		return st
	}
	copy(dst, buf)
	return backend.StatusSuccess
}

func (l *Library) Symbol(name string) (any, bool) {
	fn, ok := l.symbols[name]
	return fn, ok
}

// Close releases all device memory and sessions.
func (l *Library) Close() error {
	l.mem.Drain()
	l.mu.Lock()
	clear(l.sessions)
	l.mu.Unlock()
	return nil
}

// bytesAt returns the device bytes from p to the end of its allocation.
// At least need bytes must be available.
func (l *Library) bytesAt(p backend.DevicePtr, need int) ([]byte, backend.Status) {
	blk, off, ok := l.mem.Lookup(p)
	if !ok {
		return nil, backend.StatusMappingError
	}
	all := wordsAsBytes(blk.Payload)[:blk.Size]
	if len(all)-off < need {
		return nil, backend.StatusMappingError
	}
	return all[off:], backend.StatusSuccess
}

func wordsAsBytes(w []uint64) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), len(w)*8)
}
