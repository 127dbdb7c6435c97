//go:build cuda

package cuda

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/cuda/native"
	"github.com/samcharles93/gpublas/internal/logger"
)

func init() {
	backend.Register(backend.CUDA, func() (backend.Library, error) {
		return New()
	})
}

// Library is the cuBLAS backend. Handles and device pointers are the raw
// addresses returned by the CUDA runtime.
type Library struct {
	devices int
	log     logger.Logger

	mu      sync.RWMutex
	handles map[backend.Handle]native.BlasHandle
	allocs  map[backend.DevicePtr]int

	symbols map[string]any
}

var _ backend.Library = (*Library)(nil)

func New() (*Library, error) {
	count, err := native.DeviceCount()
	if err != nil {
		return nil, fmt.Errorf("cuda device query failed: %w", err)
	}
	if count < 1 {
		return nil, fmt.Errorf("no cuda devices detected")
	}
	l := &Library{
		devices: count,
		log:     logger.Default().With("backend", backend.CUDA),
		handles: make(map[backend.Handle]native.BlasHandle),
		allocs:  make(map[backend.DevicePtr]int),
	}
	l.symbols = l.level1()
	return l, nil
}

func (l *Library) Name() string {
	return backend.CUDA
}

func (l *Library) Create() (backend.Handle, backend.Status) {
	bh, code := native.NewBlasHandle()
	if st := backend.StatusFromCode(code); st != backend.StatusSuccess {
		return 0, st
	}
	h := backend.Handle(bh.Addr())
	l.mu.Lock()
	l.handles[h] = bh
	l.mu.Unlock()
	return h, backend.StatusSuccess
}

func (l *Library) Destroy(h backend.Handle) backend.Status {
	l.mu.Lock()
	bh, ok := l.handles[h]
	delete(l.handles, h)
	l.mu.Unlock()
	if !ok {
		return backend.StatusNotInitialized
	}
	return backend.StatusFromCode(bh.Destroy())
}

// handle rejects handles this library did not create or already destroyed;
// cuBLAS itself would dereference them.
func (l *Library) handle(h backend.Handle) (native.BlasHandle, backend.Status) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bh, ok := l.handles[h]
	if !ok {
		return native.BlasHandle{}, backend.StatusNotInitialized
	}
	return bh, backend.StatusSuccess
}

func (l *Library) Version(h backend.Handle) (int, backend.Status) {
	bh, st := l.handle(h)
	if st != backend.StatusSuccess {
		return 0, st
	}
	v, code := bh.Version()
	return v, backend.StatusFromCode(code)
}

func (l *Library) PointerMode(h backend.Handle) (backend.PointerMode, backend.Status) {
	bh, st := l.handle(h)
	if st != backend.StatusSuccess {
		return 0, st
	}
	m, code := bh.PointerMode()
	return backend.PointerMode(m), backend.StatusFromCode(code)
}

func (l *Library) SetPointerMode(h backend.Handle, mode backend.PointerMode) backend.Status {
	bh, st := l.handle(h)
	if st != backend.StatusSuccess {
		return st
	}
	return backend.StatusFromCode(bh.SetPointerMode(int(mode)))
}

func (l *Library) AtomicsMode(h backend.Handle) (backend.AtomicsMode, backend.Status) {
	bh, st := l.handle(h)
	if st != backend.StatusSuccess {
		return 0, st
	}
	m, code := bh.AtomicsMode()
	return backend.AtomicsMode(m), backend.StatusFromCode(code)
}

func (l *Library) SetAtomicsMode(h backend.Handle, mode backend.AtomicsMode) backend.Status {
	bh, st := l.handle(h)
	if st != backend.StatusSuccess {
		return st
	}
	return backend.StatusFromCode(bh.SetAtomicsMode(int(mode)))
}

func (l *Library) Malloc(bytes int) (backend.DevicePtr, backend.Status) {
	if bytes < 0 {
		return 0, backend.StatusInvalidValue
	}
	buf, err := native.AllocDevice(int64(max(bytes, 1)))
	if err != nil {
		l.log.Debug("device alloc failed", "bytes", bytes, "error", err)
		return 0, backend.StatusAllocFailed
	}
	p := backend.DevicePtr(buf.Addr())
	l.mu.Lock()
	l.allocs[p] = bytes
	l.mu.Unlock()
	return p, backend.StatusSuccess
}

func (l *Library) Free(p backend.DevicePtr) backend.Status {
	if p == 0 {
		return backend.StatusSuccess
	}
	l.mu.Lock()
	_, ok := l.allocs[p]
	delete(l.allocs, p)
	l.mu.Unlock()
	if !ok {
		return backend.StatusMappingError
	}
	if err := native.BufferAt(uintptr(p)).Free(); err != nil {
		l.log.Debug("device free failed", "error", err)
		return backend.StatusMappingError
	}
	return backend.StatusSuccess
}

func (l *Library) CopyToDevice(dst backend.DevicePtr, src []byte) backend.Status {
	if len(src) == 0 {
		return backend.StatusSuccess
	}
	if err := native.MemcpyH2D(native.BufferAt(uintptr(dst)), unsafe.Pointer(&src[0]), int64(len(src))); err != nil {
		l.log.Debug("host to device copy failed", "bytes", len(src), "error", err)
		return backend.StatusMappingError
	}
	return backend.StatusSuccess
}

func (l *Library) CopyToHost(dst []byte, src backend.DevicePtr) backend.Status {
	if len(dst) == 0 {
		return backend.StatusSuccess
	}
	if err := native.MemcpyD2H(unsafe.Pointer(&dst[0]), native.BufferAt(uintptr(src)), int64(len(dst))); err != nil {
		l.log.Debug("device to host copy failed", "bytes", len(dst), "error", err)
		return backend.StatusMappingError
	}
	return backend.StatusSuccess
}

func (l *Library) Symbol(name string) (any, bool) {
	fn, ok := l.symbols[name]
	return fn, ok
}

// Close destroys outstanding handles and frees outstanding allocations.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var err error
	for h, bh := range l.handles {
		if code := bh.Destroy(); code != 0 && err == nil {
			err = fmt.Errorf("cublas destroy: %w", backend.StatusFromCode(code))
		}
		delete(l.handles, h)
	}
	for p := range l.allocs {
		if e := native.BufferAt(uintptr(p)).Free(); e != nil && err == nil {
			err = e
		}
		delete(l.allocs, p)
	}
	return err
}

// DeviceInfo reports the current device's memory as seen by the CUDA runtime.
func (l *Library) DeviceInfo() (backend.DeviceInfo, error) {
	free, total, err := native.MemInfo()
	if err != nil {
		return backend.DeviceInfo{}, err
	}
	l.mu.RLock()
	var inUse uint64
	for _, n := range l.allocs {
		inUse += uint64(n)
	}
	l.mu.RUnlock()
	return backend.DeviceInfo{
		Name:           fmt.Sprintf("cuda (%d devices, %d bytes free)", l.devices, free),
		TotalMemory:    total,
		AllocatedBytes: inUse,
		Features:       []string{"cublas"},
	}, nil
}

var _ backend.DeviceInfoer = (*Library)(nil)
