package gpublas

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/samcharles93/gpublas/internal/backend"
)

// Scalar is a dot-product result tagged with its element type.
type Scalar struct {
	DType DType
	value complex128
}

func (s Scalar) Float32() float32       { return float32(real(s.value)) }
func (s Scalar) Float64() float64       { return real(s.value) }
func (s Scalar) Complex64() complex64   { return complex64(s.value) }
func (s Scalar) Complex128() complex128 { return s.value }
func (s Scalar) Real() float64          { return real(s.value) }
func (s Scalar) Imag() float64          { return imag(s.value) }

func (s Scalar) String() string {
	switch s.DType {
	case Float32:
		return strconv.FormatFloat(real(s.value), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(real(s.value), 'g', -1, 64)
	case Complex64:
		return strconv.FormatComplex(s.value, 'g', -1, 64)
	default:
		return strconv.FormatComplex(s.value, 'g', -1, 128)
	}
}

// scratch holds one scalar argument or result on the host.
type scratch struct {
	index int32
	f32   float32
	f64   float64
	c64   complex64
	c128  complex128
}

// realDType is the precision of a real result computed from dt.
func realDType(dt DType) DType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

func (s *scratch) ptr(kind resultKind, dt DType) (unsafe.Pointer, int) {
	if kind == resultIndex {
		return unsafe.Pointer(&s.index), 4
	}
	if kind == resultReal {
		dt = realDType(dt)
	}
	switch dt {
	case Float32:
		return unsafe.Pointer(&s.f32), 4
	case Float64:
		return unsafe.Pointer(&s.f64), 8
	case Complex64:
		return unsafe.Pointer(&s.c64), 8
	default:
		return unsafe.Pointer(&s.c128), 16
	}
}

func (s *scratch) value(kind resultKind, dt DType) complex128 {
	if kind == resultIndex {
		return complex(float64(s.index), 0)
	}
	if kind == resultReal {
		dt = realDType(dt)
	}
	switch dt {
	case Float32:
		return complex(float64(s.f32), 0)
	case Float64:
		return complex(s.f64, 0)
	case Complex64:
		return complex128(s.c64)
	default:
		return s.c128
	}
}

// setAlpha stores alpha in the element type of dt.
func (s *scratch) setAlpha(alpha any, dt DType) error {
	var v complex128
	switch a := alpha.(type) {
	case float32:
		v = complex(float64(a), 0)
	case float64:
		v = complex(a, 0)
	case complex64:
		v = complex128(a)
	case complex128:
		v = a
	case Scalar:
		v = a.value
	default:
		code, ok := intCode(alpha)
		if !ok {
			return fmt.Errorf("unsupported alpha type %T", alpha)
		}
		v = complex(float64(code), 0)
	}
	if !dt.IsComplex() && imag(v) != 0 {
		return fmt.Errorf("complex alpha %v for real dtype %v", v, dt)
	}
	switch dt {
	case Float32:
		s.f32 = float32(real(v))
	case Float64:
		s.f64 = real(v)
	case Complex64:
		s.c64 = complex64(v)
	default:
		s.c128 = v
	}
	return nil
}

// slot is the memory a backend reads a scalar argument from or writes a
// scalar result to. In device pointer mode it is a device allocation
// mirrored to the host scratch.
type slot struct {
	host     unsafe.Pointer
	size     int
	dev      DevicePtr
	onDevice bool
}

func (c *Context) newSlot(op string, s *scratch, kind resultKind, dt DType) (*slot, error) {
	p, size := s.ptr(kind, dt)
	sl := &slot{host: p, size: size}
	if c.pointerMode != PointerModeDevice {
		return sl, nil
	}
	d, st := c.lib.Malloc(size)
	if st != StatusSuccess {
		return nil, c.record(op, st)
	}
	sl.dev, sl.onDevice = d, true
	return sl, nil
}

func (sl *slot) ref() backend.Ref {
	if sl.onDevice {
		return backend.DeviceRef(sl.dev)
	}
	return backend.HostRef(sl.host)
}

func (sl *slot) bytes() []byte {
	return unsafe.Slice((*byte)(sl.host), sl.size)
}

// push uploads the host value of a device slot.
func (c *Context) push(op string, sl *slot) error {
	if !sl.onDevice {
		return nil
	}
	if st := c.lib.CopyToDevice(sl.dev, sl.bytes()); st != StatusSuccess {
		return c.record(op, st)
	}
	return nil
}

// pull copies a device slot's value back to the host.
func (c *Context) pull(op string, sl *slot) error {
	if !sl.onDevice {
		return nil
	}
	if st := c.lib.CopyToHost(sl.bytes(), sl.dev); st != StatusSuccess {
		return c.record(op, st)
	}
	return nil
}

func (c *Context) freeSlot(sl *slot) {
	if !sl.onDevice {
		return
	}
	if st := c.lib.Free(sl.dev); st != StatusSuccess {
		c.log.Debug("scalar slot free failed", "status", st.String())
	}
}
