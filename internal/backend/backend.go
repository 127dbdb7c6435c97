// Package backend defines the capability contract between the gpublas facade
// and the libraries that execute Level-1 BLAS routines on a device.
//
// A Library is loaded once per process. Each library exports its entry points
// under the stable cuBLAS symbol names declared in symbols.go; the facade
// resolves them by name and calls them through the typed signatures below.
package backend

import "unsafe"

// Handle is an opaque backend session handle.
type Handle uintptr

// DevicePtr is an address in a backend's device memory.
type DevicePtr uintptr

// Add offsets the pointer by the given number of bytes.
func (p DevicePtr) Add(bytes int) DevicePtr {
	return DevicePtr(int(p) + bytes)
}

// Ref addresses a scalar argument or result. Depending on the session's
// pointer mode it refers either to host memory or to device memory.
type Ref struct {
	host     unsafe.Pointer
	dev      DevicePtr
	onDevice bool
}

// HostRef refers to a scalar in host memory.
func HostRef(p unsafe.Pointer) Ref {
	return Ref{host: p}
}

// DeviceRef refers to a scalar in device memory.
func DeviceRef(p DevicePtr) Ref {
	return Ref{dev: p, onDevice: true}
}

// OnDevice reports whether r refers to device memory.
func (r Ref) OnDevice() bool { return r.onDevice }

// Host returns the host address, nil for device references.
func (r Ref) Host() unsafe.Pointer { return r.host }

// Device returns the device address, zero for host references.
func (r Ref) Device() DevicePtr { return r.dev }

// PointerMode selects where scalar arguments and results live.
type PointerMode int

const (
	PointerModeHost   PointerMode = 0
	PointerModeDevice PointerMode = 1
)

func (m PointerMode) String() string {
	switch m {
	case PointerModeHost:
		return "host"
	case PointerModeDevice:
		return "device"
	default:
		return "unknown"
	}
}

// AtomicsMode controls whether a library may use atomic reductions.
type AtomicsMode int

const (
	AtomicsNotAllowed AtomicsMode = 0
	AtomicsAllowed    AtomicsMode = 1
)

func (m AtomicsMode) String() string {
	switch m {
	case AtomicsNotAllowed:
		return "not_allowed"
	case AtomicsAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// ReduceFunc is the signature of the index and magnitude-sum entry points
// (i?amax, i?amin, ?asum). The result is an int32 for index routines (one-based)
// and a real scalar of the vector's precision for sums.
type ReduceFunc func(h Handle, n int, x DevicePtr, incx int, result Ref) Status

// AxpyFunc is the signature of the ?axpy entry points: y = alpha*x + y.
type AxpyFunc func(h Handle, n int, alpha Ref, x DevicePtr, incx int, y DevicePtr, incy int) Status

// CopyFunc is the signature of the ?copy entry points.
type CopyFunc func(h Handle, n int, x DevicePtr, incx int, y DevicePtr, incy int) Status

// DotFunc is the signature of the ?dot, ?dotu and ?dotc entry points.
type DotFunc func(h Handle, n int, x DevicePtr, incx int, y DevicePtr, incy int, result Ref) Status

// Library is a loaded backend.
//
// Session and memory functions report failures through Status, never through
// panics. A Library must be safe for concurrent use by different sessions; a
// single session is not safe for concurrent use.
type Library interface {
	Name() string

	Create() (Handle, Status)
	Destroy(h Handle) Status
	Version(h Handle) (int, Status)

	PointerMode(h Handle) (PointerMode, Status)
	SetPointerMode(h Handle, mode PointerMode) Status
	AtomicsMode(h Handle) (AtomicsMode, Status)
	SetAtomicsMode(h Handle, mode AtomicsMode) Status

	Malloc(bytes int) (DevicePtr, Status)
	Free(p DevicePtr) Status
	CopyToDevice(dst DevicePtr, src []byte) Status
	CopyToHost(dst []byte, src DevicePtr) Status

	// Symbol resolves an entry point by its stable name. The returned value
	// is one of ReduceFunc, AxpyFunc, CopyFunc or DotFunc.
	Symbol(name string) (any, bool)

	Close() error
}

// DeviceInfo describes the device behind a library.
type DeviceInfo struct {
	Name           string
	TotalMemory    uint64
	AllocatedBytes uint64
	Features       []string
}

// DeviceInfoer is implemented by libraries that can describe their device.
type DeviceInfoer interface {
	DeviceInfo() (DeviceInfo, error)
}
