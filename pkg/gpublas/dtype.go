package gpublas

import (
	"fmt"
	"strings"
	"unsafe"
)

// DType is the element-type tag of a vector.
type DType int

const (
	Float32 DType = iota
	Float64
	Complex64
	Complex128

	numDTypes
)

// Element is the set of Go types with a DType.
type Element interface {
	float32 | float64 | complex64 | complex128
}

var dtypeNames = [numDTypes]string{"float32", "float64", "complex64", "complex128"}

func (d DType) Valid() bool {
	return d >= 0 && d < numDTypes
}

func (d DType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("dtype(%d)", int(d))
	}
	return dtypeNames[d]
}

// Size is the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

func (d DType) IsComplex() bool {
	return d == Complex64 || d == Complex128
}

// ParseDType accepts the Go type names and the BLAS precision letters
// s, d, c and z.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32", "s", "single":
		return Float32, nil
	case "float64", "f64", "d", "double":
		return Float64, nil
	case "complex64", "c64", "c":
		return Complex64, nil
	case "complex128", "c128", "z":
		return Complex128, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q (expected float32, float64, complex64 or complex128)", s)
	}
}

func dtypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	default:
		return Complex128
	}
}

// asBytes views a slice of elements as its backing bytes.
func asBytes[T Element](xs []T) []byte {
	if len(xs) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&xs[0])), len(xs)*int(unsafe.Sizeof(xs[0])))
}
