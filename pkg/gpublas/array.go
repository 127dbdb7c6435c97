package gpublas

import (
	"errors"
	"fmt"
)

// DeviceArray is a vector in backend device memory. It is owned by the
// caller and must be released with Free.
type DeviceArray struct {
	lib   Library
	ptr   DevicePtr
	dtype DType
	n     int
	view  bool
	freed bool
}

var _ Vector = (*DeviceArray)(nil)

func (a *DeviceArray) DType() DType     { return a.dtype }
func (a *DeviceArray) Len() int         { return a.n }
func (a *DeviceArray) Ptr() DevicePtr   { return a.ptr }
func (a *DeviceArray) Library() Library { return a.lib }

// Bytes is the size of the array's elements in bytes.
func (a *DeviceArray) Bytes() int { return a.n * a.dtype.Size() }

// View returns n elements starting at element start. A view shares the
// parent's memory; freeing it is a no-op and it must not outlive the parent.
func (a *DeviceArray) View(start, n int) (*DeviceArray, error) {
	if a.freed {
		return nil, invalid("view", errors.New("array already freed"))
	}
	if start < 0 || n < 0 || start+n > a.n {
		return nil, invalid("view", fmt.Errorf("view [%d:%d] out of range for length %d", start, start+n, a.n))
	}
	return &DeviceArray{
		lib:   a.lib,
		ptr:   a.ptr.Add(start * a.dtype.Size()),
		dtype: a.dtype,
		n:     n,
		view:  true,
	}, nil
}

// Free releases the device memory. Calling it again is a no-op.
func (a *DeviceArray) Free() error {
	if a == nil || a.freed {
		return nil
	}
	a.freed = true
	if a.view {
		return nil
	}
	if st := a.lib.Free(a.ptr); st != StatusSuccess {
		return &StatusError{Op: opFree, Status: st}
	}
	return nil
}

// Malloc allocates an uninitialised device vector of n elements.
func (c *Context) Malloc(dtype DType, n int) (*DeviceArray, error) {
	if err := c.alive(opMalloc); err != nil {
		return nil, err
	}
	if !dtype.Valid() {
		return nil, invalid(opMalloc, fmt.Errorf("unsupported dtype %v", dtype))
	}
	if n < 0 {
		return nil, invalid(opMalloc, fmt.Errorf("negative length %d", n))
	}
	return c.malloc(opMalloc, dtype, n)
}

// malloc allocates at least one element so empty arrays still have an address.
func (c *Context) malloc(op string, dtype DType, n int) (*DeviceArray, error) {
	p, st := c.lib.Malloc(max(n, 1) * dtype.Size())
	if err := c.record(op, st); err != nil {
		return nil, err
	}
	return &DeviceArray{lib: c.lib, ptr: p, dtype: dtype, n: n}, nil
}

// ToDevice copies a host slice or scalar into a new device array.
func (c *Context) ToDevice(host any) (*DeviceArray, error) {
	if err := c.alive(opUpload); err != nil {
		return nil, err
	}
	o, err := c.classifyHost(opUpload, host)
	if err != nil {
		return nil, err
	}
	a, err := c.malloc(opUpload, o.dtype, o.len)
	if err != nil {
		return nil, err
	}
	if err := c.record(opUpload, c.lib.CopyToDevice(a.ptr, hostBytes(o.host))); err != nil {
		_ = a.Free()
		return nil, err
	}
	return a, nil
}

// Upload copies xs into a new device array.
func Upload[T Element](c *Context, xs []T) (*DeviceArray, error) {
	return c.ToDevice(xs)
}

// Download copies a device vector back to the host.
func Download[T Element](c *Context, v Vector) ([]T, error) {
	if err := c.alive(opDownload); err != nil {
		return nil, err
	}
	if err := c.checkVector(opDownload, v); err != nil {
		return nil, err
	}
	if want := dtypeOf[T](); v.DType() != want {
		return nil, invalid(opDownload, fmt.Errorf("cannot download %v into []%v", v.DType(), want))
	}
	out := make([]T, v.Len())
	if err := c.record(opDownload, c.lib.CopyToHost(asBytes(out), v.Ptr())); err != nil {
		return nil, err
	}
	return out, nil
}
