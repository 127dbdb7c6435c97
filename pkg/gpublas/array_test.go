package gpublas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDownload(t *testing.T) {
	c := newContext(t)
	x := upload(t, c, []complex128{complex(1, 2), complex(-3, 4)})

	assert.Equal(t, Complex128, x.DType())
	assert.Equal(t, 2, x.Len())
	assert.Equal(t, 32, x.Bytes())
	assert.Equal(t, []complex128{complex(1, 2), complex(-3, 4)}, download[complex128](t, c, x))

	_, err := Download[float64](c, x)
	assert.ErrorIs(t, err, StatusInvalidValue)
}

func TestToDeviceScalar(t *testing.T) {
	c := newContext(t)
	a, err := c.ToDevice(2.5)
	require.NoError(t, err)
	defer a.Free()

	assert.Equal(t, Float64, a.DType())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []float64{2.5}, download[float64](t, c, a))

	_, err = c.ToDevice([]string{"x"})
	assert.ErrorIs(t, err, StatusInvalidValue)
}

func TestMalloc(t *testing.T) {
	c := newContext(t)

	empty, err := c.Malloc(Float32, 0)
	require.NoError(t, err)
	assert.NotZero(t, empty.Ptr())
	require.NoError(t, empty.Free())

	_, err = c.Malloc(DType(9), 1)
	assert.ErrorIs(t, err, StatusInvalidValue)
	_, err = c.Malloc(Float64, -1)
	assert.ErrorIs(t, err, StatusInvalidValue)
}

func TestFree(t *testing.T) {
	c := newContext(t)
	a := upload(t, c, []float32{1})

	require.NoError(t, a.Free())
	assert.NoError(t, a.Free())

	_, err := c.Asum(a, 1)
	assert.ErrorIs(t, err, StatusInvalidValue)
}

func TestView(t *testing.T) {
	c := newContext(t)
	a := upload(t, c, []float64{1, -2, 3, -4})

	v, err := a.View(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	sum, err := c.Asum(v, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum)

	require.NoError(t, c.Copy([]float64{9, 9}, 1, v, 1))
	assert.Equal(t, []float64{1, 9, 9, -4}, download[float64](t, c, a))

	// Freeing a view leaves the parent intact.
	require.NoError(t, v.Free())
	assert.Len(t, download[float64](t, c, a), 4)

	_, err = a.View(3, 2)
	assert.ErrorIs(t, err, StatusInvalidValue)
}
