package gpublas

import (
	"fmt"

	"github.com/samcharles93/gpublas/internal/backend"
)

type routine int

const (
	routineIamax routine = iota
	routineIamin
	routineAsum
	routineAxpy
	routineCopy
	routineDotu
	routineDotc

	numRoutines
)

var routineNames = [numRoutines]string{"iamax", "iamin", "asum", "axpy", "copy", "dotu", "dotc"}

func (r routine) String() string { return routineNames[r] }

// resultKind is the storage a routine writes its scalar result to.
type resultKind int

const (
	resultNone  resultKind = iota
	resultIndex            // int32, one-based
	resultReal             // real scalar of the vector's precision
	resultElem             // scalar of the vector's element type
)

type entry struct {
	symbol string
	result resultKind
}

// table maps each routine and dtype to its entry point. Real dtypes have no
// conjugating dot, so dotc falls back to the plain dot.
var table = [numRoutines][numDTypes]entry{
	routineIamax: {
		Float32:    {backend.SymIsamax, resultIndex},
		Float64:    {backend.SymIdamax, resultIndex},
		Complex64:  {backend.SymIcamax, resultIndex},
		Complex128: {backend.SymIzamax, resultIndex},
	},
	routineIamin: {
		Float32:    {backend.SymIsamin, resultIndex},
		Float64:    {backend.SymIdamin, resultIndex},
		Complex64:  {backend.SymIcamin, resultIndex},
		Complex128: {backend.SymIzamin, resultIndex},
	},
	routineAsum: {
		Float32:    {backend.SymSasum, resultReal},
		Float64:    {backend.SymDasum, resultReal},
		Complex64:  {backend.SymScasum, resultReal},
		Complex128: {backend.SymDzasum, resultReal},
	},
	routineAxpy: {
		Float32:    {backend.SymSaxpy, resultNone},
		Float64:    {backend.SymDaxpy, resultNone},
		Complex64:  {backend.SymCaxpy, resultNone},
		Complex128: {backend.SymZaxpy, resultNone},
	},
	routineCopy: {
		Float32:    {backend.SymScopy, resultNone},
		Float64:    {backend.SymDcopy, resultNone},
		Complex64:  {backend.SymCcopy, resultNone},
		Complex128: {backend.SymZcopy, resultNone},
	},
	routineDotu: {
		Float32:    {backend.SymSdot, resultElem},
		Float64:    {backend.SymDdot, resultElem},
		Complex64:  {backend.SymCdotu, resultElem},
		Complex128: {backend.SymZdotu, resultElem},
	},
	routineDotc: {
		Float32:    {backend.SymSdot, resultElem},
		Float64:    {backend.SymDdot, resultElem},
		Complex64:  {backend.SymCdotc, resultElem},
		Complex128: {backend.SymZdotc, resultElem},
	},
}

// lookupAs resolves the entry point for r and dt, caching it on the context.
// It never calls into the backend's numerics.
func lookupAs[F any](c *Context, r routine, dt DType) (F, entry, error) {
	var zero F
	if !dt.Valid() {
		return zero, entry{}, &StatusError{Op: r.String(), Status: StatusNotSupported, Err: fmt.Errorf("no entry point for %v", dt)}
	}
	e := table[r][dt]
	if e.symbol == "" {
		return zero, entry{}, &StatusError{Op: r.String(), Status: StatusNotSupported, Err: fmt.Errorf("no entry point for %v", dt)}
	}
	sym, ok := c.resolved[e.symbol]
	if !ok {
		sym, ok = c.lib.Symbol(e.symbol)
		if !ok {
			return zero, entry{}, &StatusError{
				Op:     r.String(),
				Status: StatusNotSupported,
				Err:    fmt.Errorf("%s backend does not export %s", c.lib.Name(), e.symbol),
			}
		}
		c.resolved[e.symbol] = sym
	}
	fn, ok := sym.(F)
	if !ok {
		return zero, entry{}, &StatusError{
			Op:     r.String(),
			Status: StatusInternalError,
			Err:    fmt.Errorf("%s has type %T, want %T", e.symbol, sym, zero),
		}
	}
	return fn, e, nil
}
