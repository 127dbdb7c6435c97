//go:build webgpu

package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/devmem"
	"github.com/samcharles93/gpublas/internal/logger"
)

// Version is reported by Library.Version.
const Version = 10000

// Base of the synthetic address space that names WebGPU buffers.
const addressBase = 0x6e0000000000

func init() {
	backend.Register(backend.WebGPU, func() (backend.Library, error) {
		return New()
	})
}

type session struct {
	pointerMode backend.PointerMode
	atomicsMode backend.AtomicsMode
}

// Library runs single-precision real and complex entry points as WGSL
// compute kernels. Each allocation is one storage buffer; device pointers are
// synthetic addresses resolved through a devmem.Space.
type Library struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	log      logger.Logger

	mem *devmem.Space[*wgpu.Buffer]

	mu         sync.RWMutex
	sessions   map[backend.Handle]*session
	nextHandle backend.Handle
	pipelines  map[string]*wgpu.ComputePipeline
	shaders    []*wgpu.ShaderModule

	// gpu serialises queue submissions and buffer mapping.
	gpu sync.Mutex

	symbols map[string]any
}

var _ backend.Library = (*Library)(nil)

// New opens the default adapter. It returns an error if wgpu-native cannot be
// loaded or no adapter is present.
func New() (lib *Library, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			lib = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	if err := wgpu.Init(); err != nil {
		return nil, fmt.Errorf("webgpu: %w", err)
	}
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: instance creation failed: %w", err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", err)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	l := &Library{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		log:       logger.Default().With("backend", backend.WebGPU),
		mem:       devmem.NewSpace[*wgpu.Buffer](addressBase),
		sessions:  make(map[backend.Handle]*session),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}
	l.symbols = l.level1()
	return l, nil
}

func (l *Library) Name() string {
	return backend.WebGPU
}

func (l *Library) Create() (backend.Handle, backend.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextHandle++
	h := l.nextHandle
	l.sessions[h] = &session{}
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

// SetAtomicsMode records the mode. Reductions use workgroup trees, so results
// are deterministic either way.
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

func (l *Library) Malloc(bytes int) (p backend.DevicePtr, status backend.Status) {
	if bytes < 0 {
		return 0, backend.StatusInvalidValue
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Debug("buffer creation failed", "bytes", bytes, "error", r)
			p, status = 0, backend.StatusAllocFailed
		}
	}()
	buf := l.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  alignCopy(uint64(bytes)),
	})
	if buf == nil {
		return 0, backend.StatusAllocFailed
	}
	return l.mem.Insert(bytes, buf), backend.StatusSuccess
}

func (l *Library) Free(p backend.DevicePtr) backend.Status {
	if p == 0 {
		return backend.StatusSuccess
	}
	buf, ok := l.mem.Remove(p)
	if !ok {
		return backend.StatusMappingError
	}
	buf.Release()
	return backend.StatusSuccess
}

// view resolves p to its buffer and byte offset with at least need bytes left.
func (l *Library) view(p backend.DevicePtr, need int) (*devmem.Block[*wgpu.Buffer], int, backend.Status) {
	blk, off, ok := l.mem.Lookup(p)
	if !ok || blk.Size-off < need {
		return nil, 0, backend.StatusMappingError
	}
	return blk, off, backend.StatusSuccess
}

func (l *Library) CopyToDevice(dst backend.DevicePtr, src []byte) (status backend.Status) {
	if len(src) == 0 {
		return backend.StatusSuccess
	}
	blk, off, st := l.view(dst, len(src))
	if st != backend.StatusSuccess {
		return st
	}
	if off%4 != 0 || len(src)%4 != 0 {
		return backend.StatusInvalidValue
	}
	defer l.recoverStatus("copy to device", &status)
	l.gpu.Lock()
	defer l.gpu.Unlock()
	l.writeBuffer(blk.Payload, uint64(off), src)
	return backend.StatusSuccess
}

func (l *Library) CopyToHost(dst []byte, src backend.DevicePtr) (status backend.Status) {
	if len(dst) == 0 {
		return backend.StatusSuccess
	}
	blk, off, st := l.view(src, len(dst))
	if st != backend.StatusSuccess {
		return st
	}
	if off%4 != 0 || len(dst)%4 != 0 {
		return backend.StatusInvalidValue
	}
	defer l.recoverStatus("copy to host", &status)
	l.gpu.Lock()
	defer l.gpu.Unlock()
	data, err := l.readBuffer(blk.Payload, uint64(off), uint64(len(dst)))
	if err != nil {
		l.log.Debug("readback failed", "error", err)
		return backend.StatusMappingError
	}
	copy(dst, data)
	return backend.StatusSuccess
}

func (l *Library) Symbol(name string) (any, bool) {
	fn, ok := l.symbols[name]
	return fn, ok
}

// Close releases all buffers, pipelines and the device.
func (l *Library) Close() error {
	for _, buf := range l.mem.Drain() {
		buf.Release()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.sessions)
	for name, p := range l.pipelines {
		p.Release()
		delete(l.pipelines, name)
	}
	for _, s := range l.shaders {
		s.Release()
	}
	l.shaders = nil
	if l.queue != nil {
		l.queue.Release()
		l.queue = nil
	}
	if l.device != nil {
		l.device.Release()
		l.device = nil
	}
	if l.adapter != nil {
		l.adapter.Release()
		l.adapter = nil
	}
	if l.instance != nil {
		l.instance.Release()
		l.instance = nil
	}
	return nil
}

// DeviceInfo reports the buffers currently allocated through this library.
// WebGPU does not expose the adapter's memory size.
func (l *Library) DeviceInfo() (backend.DeviceInfo, error) {
	return backend.DeviceInfo{
		Name:           "webgpu",
		AllocatedBytes: uint64(l.mem.InUse()),
		Features:       []string{"f32", "c64"},
	}, nil
}

var _ backend.DeviceInfoer = (*Library)(nil)

// recoverStatus converts a wgpu panic into ExecutionFailed.
func (l *Library) recoverStatus(op string, status *backend.Status) {
	if r := recover(); r != nil {
		l.log.Error("webgpu call panicked", "op", op, "error", r)
		*status = backend.StatusExecutionFailed
	}
}
