//go:build webgpu

package webgpu

import (
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/samcharles93/gpublas/internal/backend"
)

// variant is the element layout of an S or C entry point.
type variant struct {
	complex bool
	elem    int
}

var (
	single  = variant{complex: false, elem: 4}
	csingle = variant{complex: true, elem: 8}
)

// level1 exports the single-precision entry points. Double-precision names
// are absent; WGSL has no portable f64.
func (l *Library) level1() map[string]any {
	return map[string]any{
		backend.SymIsamax: l.index(">", single),
		backend.SymIcamax: l.index(">", csingle),
		backend.SymIsamin: l.index("<", single),
		backend.SymIcamin: l.index("<", csingle),

		backend.SymSasum:  l.asum(single),
		backend.SymScasum: l.asum(csingle),

		backend.SymSaxpy: l.axpy(single),
		backend.SymCaxpy: l.axpy(csingle),

		backend.SymScopy: l.copy(single),
		backend.SymCcopy: l.copy(csingle),

		backend.SymSdot:  l.dot(single, false),
		backend.SymCdotu: l.dot(csingle, false),
		backend.SymCdotc: l.dot(csingle, true),
	}
}

// operand is a strided vector resolved to its buffer.
type operand struct {
	buf   *wgpu.Buffer
	size  uint64
	first uint32 // element offset of the view
	block backend.DevicePtr
}

func (l *Library) operand(p backend.DevicePtr, n, inc int, v variant) (operand, backend.Status) {
	if inc < 0 {
		inc = -inc
	}
	span := 1 + (n-1)*inc
	blk, off, st := l.view(p, span*v.elem)
	if st != backend.StatusSuccess {
		return operand{}, st
	}
	if off%v.elem != 0 {
		return operand{}, backend.StatusInvalidValue
	}
	return operand{
		buf:   blk.Payload,
		size:  alignCopy(uint64(blk.Size)),
		first: uint32(off / v.elem),
		block: blk.Base,
	}, backend.StatusSuccess
}

func (o operand) binding() binding {
	return binding{buf: o.buf, size: o.size}
}

func (l *Library) index(cmp string, v variant) backend.ReduceFunc {
	k := kernel{name: "i" + cmp, body: indexShader, cmp: cmp, complex: v.complex}
	return l.reduce(k, v, 4)
}

func (l *Library) asum(v variant) backend.ReduceFunc {
	return l.reduce(kernel{name: "asum", body: asumShader, complex: v.complex}, v, 4)
}

// reduce runs a single-workgroup reduction writing resultSize bytes. n <= 0
// or incx <= 0 yields a zero result.
func (l *Library) reduce(k kernel, v variant, resultSize int) backend.ReduceFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, result backend.Ref) (status backend.Status) {
		defer l.recoverStatus(k.key(), &status)
		s, st := l.session(h)
		if st != backend.StatusSuccess {
			return st
		}
		if st := checkRef(s, result); st != backend.StatusSuccess {
			return st
		}
		if n <= 0 || incx <= 0 {
			return l.store(result, make([]byte, resultSize))
		}
		xo, st := l.operand(x, n, incx, v)
		if st != backend.StatusSuccess {
			return st
		}

		l.gpu.Lock()
		defer l.gpu.Unlock()
		out := l.device.CreateBuffer(&wgpu.BufferDescriptor{
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
			Size:  uint64(resultSize),
		})
		defer out.Release()
		l.dispatch(k, params{n: uint32(n), incx: int32(incx), offx: xo.first}, true,
			xo.binding(), binding{buf: out, size: uint64(resultSize)})
		return l.storeFrom(result, out, resultSize)
	}
}

func (l *Library) dot(v variant, conj bool) backend.DotFunc {
	name := "dotu"
	if conj {
		name = "dotc"
	}
	k := kernel{name: name, body: dotShader, complex: v.complex}
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int, result backend.Ref) (status backend.Status) {
		defer l.recoverStatus(k.key(), &status)
		s, st := l.session(h)
		if st != backend.StatusSuccess {
			return st
		}
		if st := checkRef(s, result); st != backend.StatusSuccess {
			return st
		}
		if n <= 0 {
			return l.store(result, make([]byte, v.elem))
		}
		if incx == 0 || incy == 0 {
			return backend.StatusInvalidValue
		}
		xo, st := l.operand(x, n, incx, v)
		if st != backend.StatusSuccess {
			return st
		}
		yo, st := l.operand(y, n, incy, v)
		if st != backend.StatusSuccess {
			return st
		}

		l.gpu.Lock()
		defer l.gpu.Unlock()
		out := l.device.CreateBuffer(&wgpu.BufferDescriptor{
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
			Size:  uint64(v.elem),
		})
		defer out.Release()
		p := params{
			n: uint32(n), incx: int32(incx), incy: int32(incy),
			offx: xo.first, offy: yo.first, conj: conj,
		}
		l.dispatch(k, p, true, xo.binding(), yo.binding(), binding{buf: out, size: uint64(v.elem)})
		return l.storeFrom(result, out, v.elem)
	}
}

func (l *Library) axpy(v variant) backend.AxpyFunc {
	k := kernel{name: "axpy", body: axpyShader, complex: v.complex}
	return func(h backend.Handle, n int, alpha backend.Ref, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer l.recoverStatus(k.key(), &status)
		s, st := l.session(h)
		if st != backend.StatusSuccess {
			return st
		}
		if st := checkRef(s, alpha); st != backend.StatusSuccess {
			return st
		}
		if n <= 0 {
			return backend.StatusSuccess
		}
		if incx == 0 || incy == 0 {
			return backend.StatusInvalidValue
		}
		a, st := l.load(alpha, v)
		if st != backend.StatusSuccess {
			return st
		}
		return l.elementwise(k, v, n, x, incx, y, incy, a)
	}
}

func (l *Library) copy(v variant) backend.CopyFunc {
	k := kernel{name: "copy", body: copyShader, complex: v.complex}
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer l.recoverStatus(k.key(), &status)
		if _, st := l.session(h); st != backend.StatusSuccess {
			return st
		}
		if n <= 0 {
			return backend.StatusSuccess
		}
		if incx == 0 || incy == 0 {
			return backend.StatusInvalidValue
		}
		return l.elementwise(k, v, n, x, incx, y, incy, 0)
	}
}

// elementwise runs an x -> y kernel. A source that shares y's buffer is
// snapshotted first; WebGPU forbids binding one buffer as both read-only and
// writable storage.
func (l *Library) elementwise(k kernel, v variant, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int, alpha complex64) backend.Status {
	xo, st := l.operand(x, n, incx, v)
	if st != backend.StatusSuccess {
		return st
	}
	yo, st := l.operand(y, n, incy, v)
	if st != backend.StatusSuccess {
		return st
	}

	l.gpu.Lock()
	defer l.gpu.Unlock()
	src := xo.binding()
	if xo.block == yo.block {
		tmp := l.device.CreateBuffer(&wgpu.BufferDescriptor{
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
			Size:  xo.size,
		})
		defer tmp.Release()
		l.copyBuffer(xo.buf, 0, tmp, 0, xo.size)
		src = binding{buf: tmp, size: xo.size}
	}
	p := params{
		n: uint32(n), incx: int32(incx), incy: int32(incy),
		offx: xo.first, offy: yo.first, alpha: alpha,
	}
	l.dispatch(k, p, false, src, yo.binding())
	return backend.StatusSuccess
}

// checkRef rejects scalar references that disagree with the session's pointer mode.
func checkRef(s session, r backend.Ref) backend.Status {
	if r.OnDevice() != (s.pointerMode == backend.PointerModeDevice) {
		return backend.StatusInvalidValue
	}
	if !r.OnDevice() && r.Host() == nil {
		return backend.StatusInvalidValue
	}
	return backend.StatusSuccess
}

// store writes raw result bytes to r.
func (l *Library) store(r backend.Ref, data []byte) backend.Status {
	if !r.OnDevice() {
		copy(unsafe.Slice((*byte)(r.Host()), len(data)), data)
		return backend.StatusSuccess
	}
	return l.CopyToDevice(r.Device(), data)
}

// storeFrom moves size result bytes from a kernel output buffer to r. The
// caller holds l.gpu.
func (l *Library) storeFrom(r backend.Ref, out *wgpu.Buffer, size int) backend.Status {
	if !r.OnDevice() {
		data, err := l.readBuffer(out, 0, uint64(size))
		if err != nil {
			l.log.Debug("result readback failed", "error", err)
			return backend.StatusMappingError
		}
		copy(unsafe.Slice((*byte)(r.Host()), size), data)
		return backend.StatusSuccess
	}
	blk, off, st := l.view(r.Device(), size)
	if st != backend.StatusSuccess {
		return st
	}
	if off%4 != 0 {
		return backend.StatusInvalidValue
	}
	l.copyBuffer(out, 0, blk.Payload, uint64(off), uint64(size))
	return backend.StatusSuccess
}

// load reads alpha from host or device memory.
func (l *Library) load(r backend.Ref, v variant) (complex64, backend.Status) {
	raw := make([]byte, v.elem)
	if !r.OnDevice() {
		copy(raw, unsafe.Slice((*byte)(r.Host()), v.elem))
	} else if st := l.CopyToHost(raw, r.Device()); st != backend.StatusSuccess {
		return 0, st
	}
	if v.complex {
		return *(*complex64)(unsafe.Pointer(&raw[0])), backend.StatusSuccess
	}
	return complex(*(*float32)(unsafe.Pointer(&raw[0])), 0), backend.StatusSuccess
}
