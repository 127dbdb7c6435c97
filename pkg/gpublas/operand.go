package gpublas

import (
	"errors"
	"fmt"
)

// Vector is a device-resident vector.
type Vector interface {
	DType() DType
	Len() int
	Ptr() DevicePtr
	Library() Library
}

// operand is a classified argument. Host values are only materialised on
// the device once the call has passed validation.
type operand struct {
	dtype  DType
	len    int
	ptr    DevicePtr
	host   any // host slice, nil for device vectors
	scalar bool
	owned  bool
}

func (c *Context) classify(op string, v any) (operand, error) {
	if vec, ok := v.(Vector); ok {
		if err := c.checkVector(op, vec); err != nil {
			return operand{}, err
		}
		return operand{dtype: vec.DType(), len: vec.Len(), ptr: vec.Ptr()}, nil
	}
	return c.classifyHost(op, v)
}

// classifyDest classifies an operand the backend writes to. Host scalars
// would silently lose the result, so they are rejected.
func (c *Context) classifyDest(op string, v any) (operand, error) {
	o, err := c.classify(op, v)
	if err != nil {
		return operand{}, err
	}
	if o.scalar {
		return operand{}, invalid(op, fmt.Errorf("destination must be a slice or device vector, got %T", v))
	}
	return o, nil
}

func (c *Context) classifyHost(op string, v any) (operand, error) {
	switch t := v.(type) {
	case []float32:
		return operand{dtype: Float32, len: len(t), host: t}, nil
	case []float64:
		return operand{dtype: Float64, len: len(t), host: t}, nil
	case []complex64:
		return operand{dtype: Complex64, len: len(t), host: t}, nil
	case []complex128:
		return operand{dtype: Complex128, len: len(t), host: t}, nil
	case float32:
		return operand{dtype: Float32, len: 1, host: []float32{t}, scalar: true}, nil
	case float64:
		return operand{dtype: Float64, len: 1, host: []float64{t}, scalar: true}, nil
	case complex64:
		return operand{dtype: Complex64, len: 1, host: []complex64{t}, scalar: true}, nil
	case complex128:
		return operand{dtype: Complex128, len: 1, host: []complex128{t}, scalar: true}, nil
	case nil:
		return operand{}, invalid(op, errors.New("nil operand"))
	default:
		return operand{}, invalid(op, fmt.Errorf("unsupported operand type %T", v))
	}
}

func (c *Context) checkVector(op string, v Vector) error {
	switch a := v.(type) {
	case nil:
		return invalid(op, errors.New("nil vector"))
	case *DeviceArray:
		if a == nil {
			return invalid(op, errors.New("nil device array"))
		}
		if a.freed {
			return invalid(op, errors.New("device array already freed"))
		}
	}
	if v.Library() != c.lib {
		return invalid(op, fmt.Errorf("vector belongs to backend %s, context uses %s", v.Library().Name(), c.lib.Name()))
	}
	if !v.DType().Valid() {
		return invalid(op, fmt.Errorf("unsupported dtype %v", v.DType()))
	}
	return nil
}

func hostBytes(v any) []byte {
	switch t := v.(type) {
	case []float32:
		return asBytes(t)
	case []float64:
		return asBytes(t)
	case []complex64:
		return asBytes(t)
	case []complex128:
		return asBytes(t)
	default:
		return nil
	}
}

// materialise copies a host operand to a device buffer owned by the call.
func (c *Context) materialise(op string, o *operand) error {
	if o.host == nil {
		return nil
	}
	p, st := c.lib.Malloc(max(o.len, 1) * o.dtype.Size())
	if st != StatusSuccess {
		return c.record(op, st)
	}
	if st := c.lib.CopyToDevice(p, hostBytes(o.host)); st != StatusSuccess {
		c.lib.Free(p)
		return c.record(op, st)
	}
	o.ptr, o.owned = p, true
	return nil
}

// release frees a materialised buffer. Failures are logged, not returned.
func (c *Context) release(o *operand) {
	if !o.owned {
		return
	}
	if st := c.lib.Free(o.ptr); st != StatusSuccess {
		c.log.Debug("temporary free failed", "status", st.String())
	}
	o.owned = false
}

// writeBack copies a materialised destination back into its host slice.
func (c *Context) writeBack(op string, o *operand) error {
	if !o.owned {
		return nil
	}
	if st := c.lib.CopyToHost(hostBytes(o.host), o.ptr); st != StatusSuccess {
		return c.record(op, st)
	}
	return nil
}

// count is the number of elements visited when walking length elements with
// stride inc.
func count(length, inc int) int {
	if inc < 0 {
		inc = -inc
	}
	if inc <= 1 {
		return length
	}
	return (length + inc - 1) / inc
}

// checkPair validates a second operand against the element count of the
// first and their dtypes.
func checkPair(op string, x operand, y operand, n, incy int) error {
	if x.dtype != y.dtype {
		return invalid(op, fmt.Errorf("dtype mismatch: x is %v, y is %v", x.dtype, y.dtype))
	}
	if count(y.len, incy) < n {
		return invalid(op, fmt.Errorf("y holds %d elements with stride %d, need %d", y.len, incy, n))
	}
	return nil
}
