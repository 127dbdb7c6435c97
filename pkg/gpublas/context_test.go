package gpublas

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/gpublas/internal/backend"
	"github.com/samcharles93/gpublas/internal/backend/cpu"
	"github.com/samcharles93/gpublas/internal/logger"
)

func TestOpen(t *testing.T) {
	c := newContext(t)
	assert.Equal(t, backend.CPU, c.Backend())
	assert.NotEqual(t, uuid.Nil, c.ID())
	assert.Equal(t, StatusSuccess, c.LastStatus())

	v, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, cpu.Version, v)

	_, err = Open("tpu")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindInit, se.Kind())
}

func TestCreateFailureIsInitError(t *testing.T) {
	l := newCountingLib()
	l.create = StatusAllocFailed

	var calls []hookCall
	_, err := NewContext(l, WithStatusCheck(recordHook(&calls)))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StatusAllocFailed, se.Status)
	assert.Equal(t, KindInit, se.Kind())
	assert.Equal(t, []hookCall{{opCreate, StatusAllocFailed}}, calls)

	_, err = NewContext(nil)
	assert.ErrorIs(t, err, StatusNotInitialized)
}

func TestDestroyIsIdempotent(t *testing.T) {
	c, err := NewContext(cpu.New())
	require.NoError(t, err)

	require.NoError(t, c.Destroy())
	assert.True(t, c.Destroyed())
	assert.NoError(t, c.Destroy())
	assert.NoError(t, c.Close())
}

func TestOperationsAfterDestroy(t *testing.T) {
	l := newCountingLib()
	c, err := NewContext(l)
	require.NoError(t, err)
	x, err := Upload(c, []float32{1, 2})
	require.NoError(t, err)
	require.NoError(t, c.Destroy())
	before := l.mallocs

	calls := map[string]func() error{
		"iamax": func() error { _, err := c.Iamax(x, 1); return err },
		"iamin": func() error { _, err := c.Iamin([]float32{1}, 1); return err },
		"asum":  func() error { _, err := c.Asum(x, 1); return err },
		"axpy":  func() error { return c.Axpy(1, x, 1, []float32{0, 0}, 1) },
		"copy":  func() error { return c.Copy(x, 1, []float32{0, 0}, 1) },
		"dot": func() error {
			_, err := c.Dot(x, 1, x, 1, false)
			return err
		},
		"version":          func() error { _, err := c.Version(); return err },
		"set_pointer_mode": func() error { return c.SetPointerMode("device") },
		"set_atomics_mode": func() error { return c.SetAtomicsMode(true) },
		"malloc":           func() error { _, err := c.Malloc(Float32, 4); return err },
		"download":         func() error { _, err := Download[float32](c, x); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, StatusNotInitialized)
			assert.ErrorIs(t, err, ErrDestroyed)
		})
	}
	assert.Zero(t, l.calls)
	assert.Equal(t, before, l.mallocs)

	// Memory outlives the session.
	assert.NoError(t, x.Free())
}

func TestPointerModeSetter(t *testing.T) {
	c := newContext(t)

	mode, err := c.PointerMode()
	require.NoError(t, err)
	assert.Equal(t, PointerModeHost, mode)

	require.NoError(t, c.SetPointerMode(PointerModeDevice))
	require.NoError(t, c.SetPointerMode(PointerModeDevice))
	mode, err = c.PointerMode()
	require.NoError(t, err)
	assert.Equal(t, PointerModeDevice, mode)

	// Unrecognised input keeps the current mode.
	require.NoError(t, c.SetPointerMode("sideways"))
	mode, _ = c.PointerMode()
	assert.Equal(t, PointerModeDevice, mode)
	require.NoError(t, c.SetPointerMode(7))
	mode, _ = c.PointerMode()
	assert.Equal(t, PointerModeDevice, mode)

	require.NoError(t, c.SetPointerMode("CUBLAS_POINTER_MODE_HOST"))
	mode, _ = c.PointerMode()
	assert.Equal(t, PointerModeHost, mode)

	require.NoError(t, c.SetPointerMode(1))
	mode, _ = c.PointerMode()
	assert.Equal(t, PointerModeDevice, mode)
}

func TestAtomicsModeSetter(t *testing.T) {
	c := newContext(t, WithAtomicsMode("allowed"))

	mode, err := c.AtomicsMode()
	require.NoError(t, err)
	assert.Equal(t, AtomicsAllowed, mode)

	require.NoError(t, c.SetAtomicsMode(false))
	mode, _ = c.AtomicsMode()
	assert.Equal(t, AtomicsNotAllowed, mode)

	require.NoError(t, c.SetAtomicsMode(nil))
	mode, _ = c.AtomicsMode()
	assert.Equal(t, AtomicsNotAllowed, mode)

	require.NoError(t, c.SetAtomicsMode("CUBLAS_ATOMICS_ALLOWED"))
	mode, _ = c.AtomicsMode()
	assert.Equal(t, AtomicsAllowed, mode)
}

func TestLogFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.Text(&buf, slog.LevelDebug)
	c := newContext(t, WithLogger(log), WithStatusCheck(LogFailures(log)))

	_, err := c.Asum([]float64{1}, 1)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "blas call failed")

	require.Error(t, c.Copy([]float64{1}, 0, []float64{0}, 1))
	assert.Contains(t, buf.String(), "blas call failed")
	assert.Contains(t, buf.String(), "op=copy")
}

func TestSessionLogging(t *testing.T) {
	var buf bytes.Buffer
	c, err := Open(backend.CPU, WithSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	require.NoError(t, err)
	require.NoError(t, c.Destroy())

	out := buf.String()
	assert.Contains(t, out, "session created")
	assert.Contains(t, out, "session destroyed")
	assert.Contains(t, out, c.ID().String())
}

func TestChain(t *testing.T) {
	var a, b []hookCall
	hook := Chain(recordHook(&a), nil, recordHook(&b))
	hook("asum", StatusSuccess)
	assert.Equal(t, []hookCall{{"asum", StatusSuccess}}, a)
	assert.Equal(t, a, b)
}

func TestDeviceInfo(t *testing.T) {
	c := newContext(t)
	info, err := c.DeviceInfo()
	require.NoError(t, err)
	assert.Contains(t, info.Name, "cpu")
}
