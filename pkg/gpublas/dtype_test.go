package gpublas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDType(t *testing.T) {
	tests := map[string]DType{
		"float32": Float32, "f32": Float32, "S": Float32,
		"float64": Float64, "d": Float64, "double": Float64,
		"complex64": Complex64, "c": Complex64,
		"complex128": Complex128, "Z": Complex128, "c128": Complex128,
	}
	for in, want := range tests {
		got, err := ParseDType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDType("int8")
	assert.Error(t, err)
}

func TestDTypeProperties(t *testing.T) {
	assert.Equal(t, []int{4, 8, 8, 16}, []int{Float32.Size(), Float64.Size(), Complex64.Size(), Complex128.Size()})
	assert.False(t, Float64.IsComplex())
	assert.True(t, Complex64.IsComplex())
	assert.False(t, DType(-1).Valid())
	assert.Equal(t, "dtype(7)", DType(7).String())
	assert.Equal(t, Complex64, dtypeOf[complex64]())
}

func TestStatusError(t *testing.T) {
	err := error(&StatusError{Op: "axpy", Status: StatusMappingError, Err: errors.New("bad pointer")})
	assert.Equal(t, "gpublas: axpy: mapping error: bad pointer", err.Error())
	assert.ErrorIs(t, err, StatusMappingError)
	assert.Equal(t, StatusMappingError, StatusOf(err))
	assert.Equal(t, KindResource, err.(*StatusError).Kind())

	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusInternalError, StatusOf(errors.New("other")))
	assert.Equal(t, StatusExecutionFailed, StatusOf(StatusExecutionFailed))
}
