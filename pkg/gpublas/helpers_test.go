package gpublas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/cpu"
)

func newContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	c, err := Open(backend.CPU, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Destroy() })
	return c
}

func upload[T Element](t *testing.T, c *Context, xs []T) *DeviceArray {
	t.Helper()
	a, err := Upload(c, xs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Free() })
	return a
}

func download[T Element](t *testing.T, c *Context, v Vector) []T {
	t.Helper()
	out, err := Download[T](c, v)
	require.NoError(t, err)
	return out
}

// countingLib wraps the CPU backend and counts entry point invocations and
// allocations. Symbols in hide are not exported; symbols in replace are
// exported with the given value.
type countingLib struct {
	backend.Library
	calls   int
	mallocs int
	hide    map[string]bool
	replace map[string]any
	create  Status
}

func newCountingLib() *countingLib {
	return &countingLib{Library: cpu.New()}
}

func (l *countingLib) Create() (backend.Handle, Status) {
	if l.create != StatusSuccess {
		return 0, l.create
	}
	return l.Library.Create()
}

func (l *countingLib) Malloc(bytes int) (DevicePtr, Status) {
	l.mallocs++
	return l.Library.Malloc(bytes)
}

func (l *countingLib) Symbol(name string) (any, bool) {
	if l.hide[name] {
		return nil, false
	}
	if v, ok := l.replace[name]; ok {
		return v, true
	}
	fn, ok := l.Library.Symbol(name)
	if !ok {
		return nil, false
	}
	switch f := fn.(type) {
	case backend.ReduceFunc:
		return backend.ReduceFunc(func(h backend.Handle, n int, x DevicePtr, incx int, r backend.Ref) Status {
			l.calls++
			return f(h, n, x, incx, r)
		}), true
	case backend.AxpyFunc:
		return backend.AxpyFunc(func(h backend.Handle, n int, a backend.Ref, x DevicePtr, incx int, y DevicePtr, incy int) Status {
			l.calls++
			return f(h, n, a, x, incx, y, incy)
		}), true
	case backend.CopyFunc:
		return backend.CopyFunc(func(h backend.Handle, n int, x DevicePtr, incx int, y DevicePtr, incy int) Status {
			l.calls++
			return f(h, n, x, incx, y, incy)
		}), true
	case backend.DotFunc:
		return backend.DotFunc(func(h backend.Handle, n int, x DevicePtr, incx int, y DevicePtr, incy int, r backend.Ref) Status {
			l.calls++
			return f(h, n, x, incx, y, incy, r)
		}), true
	}
	return fn, true
}

func newCountingContext(t *testing.T, l *countingLib) *Context {
	t.Helper()
	c, err := NewContext(l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Destroy() })
	return c
}

type hookCall struct {
	op string
	st Status
}

func recordHook(calls *[]hookCall) StatusCheck {
	return func(op string, st Status) {
		*calls = append(*calls, hookCall{op, st})
	}
}
