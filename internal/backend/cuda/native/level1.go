//go:build cuda

package native

// #include <stddef.h>
// typedef struct cublasContext* cublasHandle_t;
// typedef int cublasStatus_t;
// extern cublasStatus_t cublasIsamax_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIdamax_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIcamax_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIzamax_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIsamin_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIdamin_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIcamin_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasIzamin_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasSasum_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasDasum_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasScasum_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasDzasum_v2(cublasHandle_t, int, const void*, int, void*);
// extern cublasStatus_t cublasSaxpy_v2(cublasHandle_t, int, const void*, const void*, int, void*, int);
// extern cublasStatus_t cublasDaxpy_v2(cublasHandle_t, int, const void*, const void*, int, void*, int);
// extern cublasStatus_t cublasCaxpy_v2(cublasHandle_t, int, const void*, const void*, int, void*, int);
// extern cublasStatus_t cublasZaxpy_v2(cublasHandle_t, int, const void*, const void*, int, void*, int);
// extern cublasStatus_t cublasScopy_v2(cublasHandle_t, int, const void*, int, void*, int);
// extern cublasStatus_t cublasDcopy_v2(cublasHandle_t, int, const void*, int, void*, int);
// extern cublasStatus_t cublasCcopy_v2(cublasHandle_t, int, const void*, int, void*, int);
// extern cublasStatus_t cublasZcopy_v2(cublasHandle_t, int, const void*, int, void*, int);
// extern cublasStatus_t cublasSdot_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
// extern cublasStatus_t cublasDdot_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
// extern cublasStatus_t cublasCdotu_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
// extern cublasStatus_t cublasCdotc_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
// extern cublasStatus_t cublasZdotu_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
// extern cublasStatus_t cublasZdotc_v2(cublasHandle_t, int, const void*, int, const void*, int, void*);
import "C"

import "unsafe"

// Level-1 entry points return the raw cublasStatus_t. Scalar arguments and
// results are host or device addresses depending on the handle's pointer mode.
type (
	ReduceFn func(h BlasHandle, n int, x DeviceBuffer, incx int, result unsafe.Pointer) int
	AxpyFn   func(h BlasHandle, n int, alpha unsafe.Pointer, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int
	CopyFn   func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int
	DotFn    func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, result unsafe.Pointer) int
)

var Reduce = map[string]ReduceFn{
	"cublasIsamax_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIsamax_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIdamax_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIdamax_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIcamax_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIcamax_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIzamax_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIzamax_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIsamin_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIsamin_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIdamin_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIdamin_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIcamin_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIcamin_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasIzamin_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasIzamin_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasSasum_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasSasum_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasDasum_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasDasum_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasScasum_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasScasum_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
	"cublasDzasum_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, r unsafe.Pointer) int {
		return int(C.cublasDzasum_v2(h.ptr, C.int(n), x.ptr, C.int(incx), r))
	},
}

var Axpy = map[string]AxpyFn{
	"cublasSaxpy_v2": func(h BlasHandle, n int, a unsafe.Pointer, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasSaxpy_v2(h.ptr, C.int(n), a, x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasDaxpy_v2": func(h BlasHandle, n int, a unsafe.Pointer, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasDaxpy_v2(h.ptr, C.int(n), a, x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasCaxpy_v2": func(h BlasHandle, n int, a unsafe.Pointer, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasCaxpy_v2(h.ptr, C.int(n), a, x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasZaxpy_v2": func(h BlasHandle, n int, a unsafe.Pointer, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasZaxpy_v2(h.ptr, C.int(n), a, x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
}

var Copy = map[string]CopyFn{
	"cublasScopy_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasScopy_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasDcopy_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasDcopy_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasCcopy_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasCcopy_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
	"cublasZcopy_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int) int {
		return int(C.cublasZcopy_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy)))
	},
}

var Dot = map[string]DotFn{
	"cublasSdot_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasSdot_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
	"cublasDdot_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasDdot_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
	"cublasCdotu_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasCdotu_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
	"cublasCdotc_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasCdotc_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
	"cublasZdotu_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasZdotu_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
	"cublasZdotc_v2": func(h BlasHandle, n int, x DeviceBuffer, incx int, y DeviceBuffer, incy int, r unsafe.Pointer) int {
		return int(C.cublasZdotc_v2(h.ptr, C.int(n), x.ptr, C.int(incx), y.ptr, C.int(incy), r))
	},
}
