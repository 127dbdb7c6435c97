//go:build cuda

package cuda

import (
	"unsafe"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/cuda/native"
)

func (l *Library) level1() map[string]any {
	out := make(map[string]any, len(backend.Symbols))
	for name, fn := range native.Reduce {
		out[name] = l.reduce(name, fn)
	}
	for name, fn := range native.Axpy {
		out[name] = l.axpy(name, fn)
	}
	for name, fn := range native.Copy {
		out[name] = l.copy(name, fn)
	}
	for name, fn := range native.Dot {
		out[name] = l.dot(name, fn)
	}
	return out
}

func (l *Library) reduce(name string, fn native.ReduceFn) backend.ReduceFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, result backend.Ref) (status backend.Status) {
		defer l.recoverStatus(name, &status)
		bh, st := l.handle(h)
		if st != backend.StatusSuccess {
			return st
		}
		return backend.StatusFromCode(fn(bh, n, buffer(x), incx, refPtr(result)))
	}
}

func (l *Library) axpy(name string, fn native.AxpyFn) backend.AxpyFunc {
	return func(h backend.Handle, n int, alpha backend.Ref, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer l.recoverStatus(name, &status)
		bh, st := l.handle(h)
		if st != backend.StatusSuccess {
			return st
		}
		return backend.StatusFromCode(fn(bh, n, refPtr(alpha), buffer(x), incx, buffer(y), incy))
	}
}

func (l *Library) copy(name string, fn native.CopyFn) backend.CopyFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer l.recoverStatus(name, &status)
		bh, st := l.handle(h)
		if st != backend.StatusSuccess {
			return st
		}
		return backend.StatusFromCode(fn(bh, n, buffer(x), incx, buffer(y), incy))
	}
}

func (l *Library) dot(name string, fn native.DotFn) backend.DotFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int, result backend.Ref) (status backend.Status) {
		defer l.recoverStatus(name, &status)
		bh, st := l.handle(h)
		if st != backend.StatusSuccess {
			return st
		}
		return backend.StatusFromCode(fn(bh, n, buffer(x), incx, buffer(y), incy, refPtr(result)))
	}
}

func buffer(p backend.DevicePtr) native.DeviceBuffer {
	return native.BufferAt(uintptr(p))
}

// refPtr passes host refs through and device refs as raw device addresses;
// cuBLAS interprets them according to the handle's pointer mode.
func refPtr(r backend.Ref) unsafe.Pointer {
	if r.OnDevice() {
		return buffer(r.Device()).Ptr()
	}
	return r.Host()
}
