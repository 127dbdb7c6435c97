// Package gpublas exposes the BLAS Level-1 routines of a GPU backend through a
// single typed-dispatch facade.
//
// A Context owns one backend session. Each operation accepts device-resident
// vectors (DeviceArray or any Vector) or host slices, resolves the element
// type at run time, and routes the call to the entry point specialised for
// that type:
//
//	ctx, err := gpublas.Open("auto")
//	if err != nil {
//		return err
//	}
//	defer ctx.Destroy()
//
//	i, err := ctx.Iamax([]float64{3, -5, 1}, 1) // i == 1
//
// Host inputs are copied to a temporary device buffer that is released when
// the call returns. Index results are zero-based.
//
// Every call that reaches the backend records its Status (see LastStatus) and
// runs the optional status-check hook before returning. Failures are returned
// as *StatusError values; errors.Is matches them against Status constants.
package gpublas
