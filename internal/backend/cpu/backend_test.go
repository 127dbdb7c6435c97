package cpu

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/gpublas/internal/backend"
)

func upload[T element](t *testing.T, l *Library, xs []T) backend.DevicePtr {
	t.Helper()
	size := len(xs) * int(unsafe.Sizeof(xs[0]))
	p, st := l.Malloc(size)
	require.Equal(t, backend.StatusSuccess, st)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&xs[0])), size)
	require.Equal(t, backend.StatusSuccess, l.CopyToDevice(p, b))
	t.Cleanup(func() { l.Free(p) })
	return p
}

func download[T element](t *testing.T, l *Library, p backend.DevicePtr, n int) []T {
	t.Helper()
	out := make([]T, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), n*int(unsafe.Sizeof(out[0])))
	require.Equal(t, backend.StatusSuccess, l.CopyToHost(b, p))
	return out
}

func newSession(t *testing.T) (*Library, backend.Handle) {
	t.Helper()
	l := New()
	h, st := l.Create()
	require.Equal(t, backend.StatusSuccess, st)
	t.Cleanup(func() { l.Destroy(h) })
	return l, h
}

func symbol[F any](t *testing.T, l *Library, name string) F {
	t.Helper()
	v, ok := l.Symbol(name)
	require.True(t, ok, "missing symbol %s", name)
	fn, ok := v.(F)
	require.True(t, ok, "symbol %s has type %T", name, v)
	return fn
}

func TestExportsEverySymbol(t *testing.T) {
	l := New()
	for _, name := range backend.Symbols {
		_, ok := l.Symbol(name)
		assert.True(t, ok, name)
	}
	_, ok := l.Symbol("cublasSgemm_v2")
	assert.False(t, ok)
}

func TestSessionLifecycle(t *testing.T) {
	l := New()
	h, st := l.Create()
	require.Equal(t, backend.StatusSuccess, st)

	v, st := l.Version(h)
	assert.Equal(t, backend.StatusSuccess, st)
	assert.Equal(t, Version, v)

	require.Equal(t, backend.StatusSuccess, l.Destroy(h))
	assert.Equal(t, backend.StatusNotInitialized, l.Destroy(h))
	_, st = l.Version(h)
	assert.Equal(t, backend.StatusNotInitialized, st)
}

func TestModes(t *testing.T) {
	l, h := newSession(t)

	mode, st := l.PointerMode(h)
	require.Equal(t, backend.StatusSuccess, st)
	assert.Equal(t, backend.PointerModeHost, mode)

	require.Equal(t, backend.StatusSuccess, l.SetPointerMode(h, backend.PointerModeDevice))
	mode, _ = l.PointerMode(h)
	assert.Equal(t, backend.PointerModeDevice, mode)
	assert.Equal(t, backend.StatusInvalidValue, l.SetPointerMode(h, backend.PointerMode(9)))

	require.Equal(t, backend.StatusSuccess, l.SetAtomicsMode(h, backend.AtomicsAllowed))
	am, _ := l.AtomicsMode(h)
	assert.Equal(t, backend.AtomicsAllowed, am)
}

func TestIamaxIamin(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []float64{3, -5, 1})

	var idx int32
	amax := symbol[backend.ReduceFunc](t, l, backend.SymIdamax)
	require.Equal(t, backend.StatusSuccess, amax(h, 3, x, 1, backend.HostRef(unsafe.Pointer(&idx))))
	assert.Equal(t, int32(2), idx, "one-based index of -5")

	amin := symbol[backend.ReduceFunc](t, l, backend.SymIdamin)
	require.Equal(t, backend.StatusSuccess, amin(h, 3, x, 1, backend.HostRef(unsafe.Pointer(&idx))))
	assert.Equal(t, int32(3), idx, "one-based index of 1")
}

func TestIcaminUsesOneNorm(t *testing.T) {
	l, h := newSession(t)
	// |re|+|im|: 4, 3, 5
	x := upload(t, l, []complex64{complex(2, 2), complex(0, -3), complex(4, 1)})

	var idx int32
	amin := symbol[backend.ReduceFunc](t, l, backend.SymIcamin)
	require.Equal(t, backend.StatusSuccess, amin(h, 3, x, 1, backend.HostRef(unsafe.Pointer(&idx))))
	assert.Equal(t, int32(2), idx)
}

func TestIndexEmptyAndNonPositiveStride(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []float32{1, 2})
	amax := symbol[backend.ReduceFunc](t, l, backend.SymIsamax)

	idx := int32(-7)
	require.Equal(t, backend.StatusSuccess, amax(h, 0, x, 1, backend.HostRef(unsafe.Pointer(&idx))))
	assert.Equal(t, int32(0), idx)
	require.Equal(t, backend.StatusSuccess, amax(h, 2, x, -1, backend.HostRef(unsafe.Pointer(&idx))))
	assert.Equal(t, int32(0), idx)
}

func TestAsum(t *testing.T) {
	l, h := newSession(t)

	x := upload(t, l, []float32{3, -4})
	var s32 float32
	asum := symbol[backend.ReduceFunc](t, l, backend.SymSasum)
	require.Equal(t, backend.StatusSuccess, asum(h, 2, x, 1, backend.HostRef(unsafe.Pointer(&s32))))
	assert.Equal(t, float32(7), s32)

	z := upload(t, l, []complex128{complex(1, -2), complex(-3, 4)})
	var s64 float64
	dzasum := symbol[backend.ReduceFunc](t, l, backend.SymDzasum)
	require.Equal(t, backend.StatusSuccess, dzasum(h, 2, z, 1, backend.HostRef(unsafe.Pointer(&s64))))
	assert.Equal(t, 10.0, s64)
}

func TestAxpyNegativeStride(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []float64{1, 2, 3})
	y := upload(t, l, []float64{10, 20, 30})

	alpha := 2.0
	axpy := symbol[backend.AxpyFunc](t, l, backend.SymDaxpy)
	require.Equal(t, backend.StatusSuccess, axpy(h, 3, backend.HostRef(unsafe.Pointer(&alpha)), x, -1, y, 1))
	// x walked backwards: 3, 2, 1
	assert.Equal(t, []float64{16, 24, 32}, download[float64](t, l, y, 3))
}

func TestCopyStrided(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []complex64{1, 2, 3, 4, 5, 6})
	y := upload(t, l, []complex64{0, 0, 0})

	cp := symbol[backend.CopyFunc](t, l, backend.SymCcopy)
	require.Equal(t, backend.StatusSuccess, cp(h, 3, x, 2, y, 1))
	assert.Equal(t, []complex64{1, 3, 5}, download[complex64](t, l, y, 3))
}

func TestDotConjugate(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []complex128{complex(0, 1)})
	y := upload(t, l, []complex128{complex(0, 1)})

	var u, c complex128
	dotu := symbol[backend.DotFunc](t, l, backend.SymZdotu)
	dotc := symbol[backend.DotFunc](t, l, backend.SymZdotc)
	require.Equal(t, backend.StatusSuccess, dotu(h, 1, x, 1, y, 1, backend.HostRef(unsafe.Pointer(&u))))
	require.Equal(t, backend.StatusSuccess, dotc(h, 1, x, 1, y, 1, backend.HostRef(unsafe.Pointer(&c))))
	assert.Equal(t, complex(-1, 0), u)
	assert.Equal(t, complex(1, 0), c)
}

func TestDevicePointerMode(t *testing.T) {
	l, h := newSession(t)
	require.Equal(t, backend.StatusSuccess, l.SetPointerMode(h, backend.PointerModeDevice))
	x := upload(t, l, []float32{1, 2, 3})
	y := upload(t, l, []float32{4, 5, 6})
	slot := upload(t, l, []float32{0})

	dot := symbol[backend.DotFunc](t, l, backend.SymSdot)
	require.Equal(t, backend.StatusSuccess, dot(h, 3, x, 1, y, 1, backend.DeviceRef(slot)))
	assert.Equal(t, []float32{32}, download[float32](t, l, slot, 1))

	var host float32
	assert.Equal(t, backend.StatusInvalidValue, dot(h, 3, x, 1, y, 1, backend.HostRef(unsafe.Pointer(&host))),
		"host result in device pointer mode")
}

func TestOutOfRangeView(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []float32{1, 2, 3})
	var sum float32
	asum := symbol[backend.ReduceFunc](t, l, backend.SymSasum)

	assert.Equal(t, backend.StatusMappingError, asum(h, 3, x, 2, backend.HostRef(unsafe.Pointer(&sum))))
	assert.Equal(t, backend.StatusMappingError, asum(h, 1, backend.DevicePtr(0x10), 1, backend.HostRef(unsafe.Pointer(&sum))))
	assert.Equal(t, backend.StatusInvalidValue, asum(h, 1, x.Add(1), 1, backend.HostRef(unsafe.Pointer(&sum))), "misaligned")
}

func TestZeroIncrementRejected(t *testing.T) {
	l, h := newSession(t)
	x := upload(t, l, []float64{1, 2})
	y := upload(t, l, []float64{1, 2})
	cp := symbol[backend.CopyFunc](t, l, backend.SymDcopy)
	assert.Equal(t, backend.StatusInvalidValue, cp(h, 2, x, 0, y, 1))
}

func TestDestroyedHandleRejected(t *testing.T) {
	l := New()
	h, _ := l.Create()
	x := upload(t, l, []float32{1})
	require.Equal(t, backend.StatusSuccess, l.Destroy(h))

	var idx int32
	amax := symbol[backend.ReduceFunc](t, l, backend.SymIsamax)
	assert.Equal(t, backend.StatusNotInitialized, amax(h, 1, x, 1, backend.HostRef(unsafe.Pointer(&idx))))
}

func TestMemory(t *testing.T) {
	l := New()
	p, st := l.Malloc(16)
	require.Equal(t, backend.StatusSuccess, st)
	assert.Equal(t, backend.StatusMappingError, l.CopyToDevice(p, make([]byte, 17)))
	assert.Equal(t, backend.StatusSuccess, l.CopyToDevice(p.Add(8), make([]byte, 8)))

	info, err := l.DeviceInfo()
	require.NoError(t, err)
	assert.Equal(t, uint64(16), info.AllocatedBytes)

	require.Equal(t, backend.StatusSuccess, l.Free(p))
	assert.Equal(t, backend.StatusMappingError, l.Free(p))
	assert.Equal(t, backend.StatusSuccess, l.Free(0))
	_, st = l.Malloc(-1)
	assert.Equal(t, backend.StatusInvalidValue, st)
}
