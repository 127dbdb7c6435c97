package cpu

import (
	"math"
	"strings"
	"unsafe"

	"github.com/samcharles93/gpublas/internal/backend"
)

type element interface {
	float32 | float64 | complex64 | complex128
}

func (l *Library) level1() map[string]any {
	impl := l.impl
	return map[string]any{
		backend.SymIsamax: indexFunc(l, impl.Isamax),
		backend.SymIdamax: indexFunc(l, impl.Idamax),
		backend.SymIcamax: indexFunc(l, impl.Icamax),
		backend.SymIzamax: indexFunc(l, impl.Izamax),

		backend.SymIsamin: indexFunc(l, iamin(func(v float32) float64 { return math.Abs(float64(v)) })),
		backend.SymIdamin: indexFunc(l, iamin(math.Abs)),
		backend.SymIcamin: indexFunc(l, iamin(func(v complex64) float64 {
			return math.Abs(float64(real(v))) + math.Abs(float64(imag(v)))
		})),
		backend.SymIzamin: indexFunc(l, iamin(func(v complex128) float64 {
			return math.Abs(real(v)) + math.Abs(imag(v))
		})),

		backend.SymSasum:  asumFunc(l, impl.Sasum),
		backend.SymDasum:  asumFunc(l, impl.Dasum),
		backend.SymScasum: asumFunc(l, impl.Scasum),
		backend.SymDzasum: asumFunc(l, impl.Dzasum),

		backend.SymSaxpy: axpyFunc(l, impl.Saxpy),
		backend.SymDaxpy: axpyFunc(l, impl.Daxpy),
		backend.SymCaxpy: axpyFunc(l, impl.Caxpy),
		backend.SymZaxpy: axpyFunc(l, impl.Zaxpy),

		backend.SymScopy: copyFunc(l, impl.Scopy),
		backend.SymDcopy: copyFunc(l, impl.Dcopy),
		backend.SymCcopy: copyFunc(l, impl.Ccopy),
		backend.SymZcopy: copyFunc(l, impl.Zcopy),

		backend.SymSdot:  dotFunc(l, impl.Sdot),
		backend.SymDdot:  dotFunc(l, impl.Ddot),
		backend.SymCdotu: dotFunc(l, impl.Cdotu),
		backend.SymCdotc: dotFunc(l, impl.Cdotc),
		backend.SymZdotu: dotFunc(l, impl.Zdotu),
		backend.SymZdotc: dotFunc(l, impl.Zdotc),
	}
}

// indexFunc wraps a zero-based index routine. Results are one-based; n <= 0
// or incx <= 0 yields 0.
func indexFunc[T element](l *Library, f func(n int, x []T, incX int) int) backend.ReduceFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, result backend.Ref) (status backend.Status) {
		defer recoverStatus(&status)
		s, status := l.session(h)
		if status != backend.StatusSuccess {
			return status
		}
		idx := 0
		if n > 0 && incx > 0 {
			xs, st := vector[T](l, x, n, incx)
			if st != backend.StatusSuccess {
				return st
			}
			idx = f(n, xs, incx) + 1
		}
		return store(l, s, result, int32(idx))
	}
}

// iamin returns the first index of the smallest magnitude. gonum has no amin.
func iamin[T element](mag func(T) float64) func(n int, x []T, incX int) int {
	return func(n int, x []T, incX int) int {
		best, idx := math.Inf(1), 0
		for i, ix := 0, 0; i < n; i, ix = i+1, ix+incX {
			if m := mag(x[ix]); m < best {
				best, idx = m, i
			}
		}
		return idx
	}
}

func asumFunc[T element, R float32 | float64](l *Library, f func(n int, x []T, incX int) R) backend.ReduceFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, result backend.Ref) (status backend.Status) {
		defer recoverStatus(&status)
		s, status := l.session(h)
		if status != backend.StatusSuccess {
			return status
		}
		var sum R
		if n > 0 && incx > 0 {
			xs, st := vector[T](l, x, n, incx)
			if st != backend.StatusSuccess {
				return st
			}
			sum = f(n, xs, incx)
		}
		return store(l, s, result, sum)
	}
}

func axpyFunc[T element](l *Library, f func(n int, alpha T, x []T, incX int, y []T, incY int)) backend.AxpyFunc {
	return func(h backend.Handle, n int, alpha backend.Ref, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer recoverStatus(&status)
		s, status := l.session(h)
		if status != backend.StatusSuccess {
			return status
		}
		a, st := load[T](l, s, alpha)
		if st != backend.StatusSuccess {
			return st
		}
		if n <= 0 {
			return backend.StatusSuccess
		}
		if incx == 0 || incy == 0 {
			return backend.StatusInvalidValue
		}
		xs, st := vector[T](l, x, n, incx)
		if st != backend.StatusSuccess {
			return st
		}
		ys, st := vector[T](l, y, n, incy)
		if st != backend.StatusSuccess {
			return st
		}
		f(n, a, xs, incx, ys, incy)
		return backend.StatusSuccess
	}
}

func copyFunc[T element](l *Library, f func(n int, x []T, incX int, y []T, incY int)) backend.CopyFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int) (status backend.Status) {
		defer recoverStatus(&status)
		if _, status = l.session(h); status != backend.StatusSuccess {
			return status
		}
		if n <= 0 {
			return backend.StatusSuccess
		}
		if incx == 0 || incy == 0 {
			return backend.StatusInvalidValue
		}
		xs, st := vector[T](l, x, n, incx)
		if st != backend.StatusSuccess {
			return st
		}
		ys, st := vector[T](l, y, n, incy)
		if st != backend.StatusSuccess {
			return st
		}
		f(n, xs, incx, ys, incy)
		return backend.StatusSuccess
	}
}

func dotFunc[T element](l *Library, f func(n int, x []T, incX int, y []T, incY int) T) backend.DotFunc {
	return func(h backend.Handle, n int, x backend.DevicePtr, incx int, y backend.DevicePtr, incy int, result backend.Ref) (status backend.Status) {
		defer recoverStatus(&status)
		s, status := l.session(h)
		if status != backend.StatusSuccess {
			return status
		}
		var dot T
		if n > 0 {
			if incx == 0 || incy == 0 {
				return backend.StatusInvalidValue
			}
			xs, st := vector[T](l, x, n, incx)
			if st != backend.StatusSuccess {
				return st
			}
			ys, st := vector[T](l, y, n, incy)
			if st != backend.StatusSuccess {
				return st
			}
			dot = f(n, xs, incx, ys, incy)
		}
		return store(l, s, result, dot)
	}
}

// vector maps the strided span of n elements starting at p. Negative
// increments address the same span walked backwards, as in reference BLAS.
func vector[T element](l *Library, p backend.DevicePtr, n, inc int) ([]T, backend.Status) {
	var zero T
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, backend.StatusInvalidValue
	}
	if inc < 0 {
		inc = -inc
	}
	span := 1 + (n-1)*inc
	buf, st := l.bytesAt(p, span*int(unsafe.Sizeof(zero)))
	if st != backend.StatusSuccess {
		return nil, st
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), span), backend.StatusSuccess
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

func store[T any](l *Library, s session, r backend.Ref, v T) backend.Status {
	if st := checkRef(s, r); st != backend.StatusSuccess {
		return st
	}
	if !r.OnDevice() {
		*(*T)(r.Host()) = v
		return backend.StatusSuccess
	}
	buf, st := l.bytesAt(r.Device(), int(unsafe.Sizeof(v)))
	if st != backend.StatusSuccess {
		return st
	}
	*(*T)(unsafe.Pointer(&buf[0])) = v
	return backend.StatusSuccess
}

func load[T any](l *Library, s session, r backend.Ref) (T, backend.Status) {
	var v T
	if st := checkRef(s, r); st != backend.StatusSuccess {
		return v, st
	}
	if !r.OnDevice() {
		return *(*T)(r.Host()), backend.StatusSuccess
	}
	buf, st := l.bytesAt(r.Device(), int(unsafe.Sizeof(v)))
	if st != backend.StatusSuccess {
		return v, st
	}
	return *(*T)(unsafe.Pointer(&buf[0])), backend.StatusSuccess
}

// recoverStatus turns gonum argument panics into InvalidValue and anything
// else into ExecutionFailed.
func recoverStatus(status *backend.Status) {
	rec := recover()
	if rec == nil {
		return
	}
	if msg, ok := rec.(string); ok && strings.HasPrefix(msg, "blas: ") {
		*status = backend.StatusInvalidValue
		return
	}
	*status = backend.StatusExecutionFailed
}
