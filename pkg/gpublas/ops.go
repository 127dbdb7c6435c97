package gpublas

import "github.com/samcharles93/gpublas/internal/backend"

// Operands accepted by the Level-1 methods are device vectors (Vector), host
// slices of float32, float64, complex64 or complex128, and scalars of those
// types which are treated as one-element vectors. Host values are copied to
// the device for the duration of the call. The element count is the number
// of elements visited in x with stride incx; a second operand must hold at
// least that many with its own stride.

// Iamax returns the zero-based index of the first element with the largest
// magnitude. Complex magnitudes are |re|+|im|. The result for an empty
// vector is backend-defined.
func (c *Context) Iamax(x any, incx int) (int, error) {
	return c.index(routineIamax, x, incx)
}

// Iamin returns the zero-based index of the first element with the smallest
// magnitude.
func (c *Context) Iamin(x any, incx int) (int, error) {
	return c.index(routineIamin, x, incx)
}

// Asum returns the sum of magnitudes of x.
func (c *Context) Asum(x any, incx int) (float64, error) {
	var s scratch
	dt, err := c.reduce(routineAsum, x, incx, &s)
	if err != nil {
		return 0, err
	}
	return real(s.value(resultReal, dt)), nil
}

func (c *Context) index(r routine, x any, incx int) (int, error) {
	var s scratch
	if _, err := c.reduce(r, x, incx, &s); err != nil {
		return 0, err
	}
	return int(s.index) - 1, nil
}

// reduce runs a single-operand routine and leaves its result in s.
func (c *Context) reduce(r routine, x any, incx int, s *scratch) (DType, error) {
	op := r.String()
	if err := c.alive(op); err != nil {
		return 0, err
	}
	xo, err := c.classify(op, x)
	if err != nil {
		return 0, err
	}
	fn, e, err := lookupAs[backend.ReduceFunc](c, r, xo.dtype)
	if err != nil {
		return 0, err
	}
	if err := c.materialise(op, &xo); err != nil {
		return 0, err
	}
	defer c.release(&xo)

	sl, err := c.newSlot(op, s, e.result, xo.dtype)
	if err != nil {
		return 0, err
	}
	defer c.freeSlot(sl)

	st := fn(c.handle, count(xo.len, incx), xo.ptr, incx, sl.ref())
	if err := c.record(op, st); err != nil {
		return 0, err
	}
	return xo.dtype, c.pull(op, sl)
}

// Axpy computes y = alpha*x + y. y must be a device vector or a host slice;
// a host slice receives the result. alpha may be any Go number; a complex
// alpha with a non-zero imaginary part is rejected for real vectors.
func (c *Context) Axpy(alpha any, x any, incx int, y any, incy int) error {
	op := routineAxpy.String()
	if err := c.alive(op); err != nil {
		return err
	}
	xo, yo, n, err := c.pair(op, x, incx, y, incy, true)
	if err != nil {
		return err
	}
	var a scratch
	if err := a.setAlpha(alpha, xo.dtype); err != nil {
		return invalid(op, err)
	}
	fn, _, err := lookupAs[backend.AxpyFunc](c, routineAxpy, xo.dtype)
	if err != nil {
		return err
	}
	if err := c.materialise(op, &xo); err != nil {
		return err
	}
	defer c.release(&xo)
	if err := c.materialise(op, &yo); err != nil {
		return err
	}
	defer c.release(&yo)

	sl, err := c.newSlot(op, &a, resultElem, xo.dtype)
	if err != nil {
		return err
	}
	defer c.freeSlot(sl)
	if err := c.push(op, sl); err != nil {
		return err
	}

	if err := c.record(op, fn(c.handle, n, sl.ref(), xo.ptr, incx, yo.ptr, incy)); err != nil {
		return err
	}
	return c.writeBack(op, &yo)
}

// Copy copies x into y. y must be a device vector or a host slice.
func (c *Context) Copy(x any, incx int, y any, incy int) error {
	op := routineCopy.String()
	if err := c.alive(op); err != nil {
		return err
	}
	xo, yo, n, err := c.pair(op, x, incx, y, incy, true)
	if err != nil {
		return err
	}
	fn, _, err := lookupAs[backend.CopyFunc](c, routineCopy, xo.dtype)
	if err != nil {
		return err
	}
	if err := c.materialise(op, &xo); err != nil {
		return err
	}
	defer c.release(&xo)
	if err := c.materialise(op, &yo); err != nil {
		return err
	}
	defer c.release(&yo)

	if err := c.record(op, fn(c.handle, n, xo.ptr, incx, yo.ptr, incy)); err != nil {
		return err
	}
	return c.writeBack(op, &yo)
}

// Dot returns the dot product of x and y. With conjugate set, complex x is
// conjugated; it has no effect on real vectors.
func (c *Context) Dot(x any, incx int, y any, incy int, conjugate bool) (Scalar, error) {
	r := routineDotu
	if conjugate {
		r = routineDotc
	}
	op := r.String()
	if err := c.alive(op); err != nil {
		return Scalar{}, err
	}
	xo, yo, n, err := c.pair(op, x, incx, y, incy, false)
	if err != nil {
		return Scalar{}, err
	}
	fn, e, err := lookupAs[backend.DotFunc](c, r, xo.dtype)
	if err != nil {
		return Scalar{}, err
	}
	if err := c.materialise(op, &xo); err != nil {
		return Scalar{}, err
	}
	defer c.release(&xo)
	if err := c.materialise(op, &yo); err != nil {
		return Scalar{}, err
	}
	defer c.release(&yo)

	var s scratch
	sl, err := c.newSlot(op, &s, e.result, xo.dtype)
	if err != nil {
		return Scalar{}, err
	}
	defer c.freeSlot(sl)

	if err := c.record(op, fn(c.handle, n, xo.ptr, incx, yo.ptr, incy, sl.ref())); err != nil {
		return Scalar{}, err
	}
	if err := c.pull(op, sl); err != nil {
		return Scalar{}, err
	}
	return Scalar{DType: xo.dtype, value: s.value(e.result, xo.dtype)}, nil
}

// Dotu is Dot without conjugation.
func (c *Context) Dotu(x any, incx int, y any, incy int) (Scalar, error) {
	return c.Dot(x, incx, y, incy, false)
}

// Dotc is Dot with x conjugated.
func (c *Context) Dotc(x any, incx int, y any, incy int) (Scalar, error) {
	return c.Dot(x, incx, y, incy, true)
}

// pair classifies a two-operand call and returns the element count.
func (c *Context) pair(op string, x any, incx int, y any, incy int, yWritten bool) (operand, operand, int, error) {
	xo, err := c.classify(op, x)
	if err != nil {
		return operand{}, operand{}, 0, err
	}
	classifyY := c.classify
	if yWritten {
		classifyY = c.classifyDest
	}
	yo, err := classifyY(op, y)
	if err != nil {
		return operand{}, operand{}, 0, err
	}
	n := count(xo.len, incx)
	if err := checkPair(op, xo, yo, n, incy); err != nil {
		return operand{}, operand{}, 0, err
	}
	return xo, yo, n, nil
}
