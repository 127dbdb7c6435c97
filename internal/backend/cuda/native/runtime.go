//go:build cuda

package native

/*
#cgo LDFLAGS: -lcudart -lcublas

// Minimal CUDA runtime forward declarations to avoid requiring headers at compile time.
// Linker will still require libcudart when building with the cuda tag.
// Data pointers are declared as void*; the ABI is identical to the typed prototypes.
typedef int cudaError_t;

extern const char* cudaGetErrorString(cudaError_t err);
extern cudaError_t cudaGetDeviceCount(int* count);
extern cudaError_t cudaMalloc(void** ptr, unsigned long long size);
extern cudaError_t cudaFree(void* ptr);
extern cudaError_t cudaMemcpy(void* dst, const void* src, unsigned long long size, int kind);
extern cudaError_t cudaMemGetInfo(unsigned long long* free, unsigned long long* total);

#define GPUBLAS_CUDA_MEMCPY_HOST_TO_DEVICE 1
#define GPUBLAS_CUDA_MEMCPY_DEVICE_TO_HOST 2

typedef struct cublasContext* cublasHandle_t;
typedef int cublasStatus_t;

extern cublasStatus_t cublasCreate_v2(cublasHandle_t* handle);
extern cublasStatus_t cublasDestroy_v2(cublasHandle_t handle);
extern cublasStatus_t cublasGetVersion_v2(cublasHandle_t handle, int* version);
extern cublasStatus_t cublasGetPointerMode_v2(cublasHandle_t handle, int* mode);
extern cublasStatus_t cublasSetPointerMode_v2(cublasHandle_t handle, int mode);
extern cublasStatus_t cublasGetAtomicsMode(cublasHandle_t handle, int* mode);
extern cublasStatus_t cublasSetAtomicsMode(cublasHandle_t handle, int mode);

static const char* gpublasCudaGetErrorString(cudaError_t err) {
	return cudaGetErrorString(err);
}

static int gpublasCudaGetDeviceCount(int* out) {
	cudaError_t err = cudaGetDeviceCount(out);
	return (int)err;
}

static int gpublasCudaMalloc(void** ptr, unsigned long long size) {
	cudaError_t err = cudaMalloc(ptr, size);
	return (int)err;
}

static int gpublasCudaFree(void* ptr) {
	cudaError_t err = cudaFree(ptr);
	return (int)err;
}

static int gpublasCudaMemcpy(void* dst, const void* src, unsigned long long size, int kind) {
	cudaError_t err = cudaMemcpy(dst, src, size, kind);
	return (int)err;
}

static int gpublasCudaMemGetInfo(unsigned long long* free, unsigned long long* total) {
	cudaError_t err = cudaMemGetInfo(free, total);
	return (int)err;
}

static int gpublasCublasCreate(cublasHandle_t* out) {
	cublasStatus_t st = cublasCreate_v2(out);
	return (int)st;
}

static int gpublasCublasDestroy(cublasHandle_t handle) {
	cublasStatus_t st = cublasDestroy_v2(handle);
	return (int)st;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type BlasHandle struct {
	ptr C.cublasHandle_t
}

type DeviceBuffer struct {
	ptr unsafe.Pointer
}

func DeviceCount() (int, error) {
	var count C.int
	if err := cudaErr(C.gpublasCudaGetDeviceCount(&count)); err != nil {
		return 0, err
	}
	return int(count), nil
}

// MemInfo returns free and total device memory in bytes.
func MemInfo() (free, total uint64, err error) {
	var f, t C.ulonglong
	if err := cudaErr(C.gpublasCudaMemGetInfo(&f, &t)); err != nil {
		return 0, 0, err
	}
	return uint64(f), uint64(t), nil
}

func AllocDevice(bytes int64) (DeviceBuffer, error) {
	if bytes <= 0 {
		return DeviceBuffer{}, fmt.Errorf("device alloc size must be > 0")
	}
	var ptr unsafe.Pointer
	if err := cudaErr(C.gpublasCudaMalloc((*unsafe.Pointer)(&ptr), C.ulonglong(bytes))); err != nil {
		return DeviceBuffer{}, err
	}
	return DeviceBuffer{ptr: ptr}, nil
}

// BufferAt wraps a device address previously returned by Addr.
func BufferAt(addr uintptr) DeviceBuffer {
	return DeviceBuffer{ptr: unsafe.Pointer(addr)} //nolint:govet // device address, not Go memory
}

func (b DeviceBuffer) Free() error {
	if b.ptr == nil {
		return nil
	}
	return cudaErr(C.gpublasCudaFree(b.ptr))
}

func (b DeviceBuffer) Ptr() unsafe.Pointer {
	return b.ptr
}

func (b DeviceBuffer) Addr() uintptr {
	return uintptr(b.ptr)
}

func MemcpyH2D(dst DeviceBuffer, src unsafe.Pointer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return cudaErr(C.gpublasCudaMemcpy(dst.ptr, src, C.ulonglong(bytes), C.GPUBLAS_CUDA_MEMCPY_HOST_TO_DEVICE))
}

func MemcpyD2H(dst unsafe.Pointer, src DeviceBuffer, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	return cudaErr(C.gpublasCudaMemcpy(dst, src.ptr, C.ulonglong(bytes), C.GPUBLAS_CUDA_MEMCPY_DEVICE_TO_HOST))
}

// NewBlasHandle creates a cuBLAS handle and returns the raw cublasStatus_t.
func NewBlasHandle() (BlasHandle, int) {
	var handle C.cublasHandle_t
	code := int(C.gpublasCublasCreate(&handle))
	return BlasHandle{ptr: handle}, code
}

// HandleAt wraps a handle address previously returned by Addr.
func HandleAt(addr uintptr) BlasHandle {
	return BlasHandle{ptr: C.cublasHandle_t(unsafe.Pointer(addr))} //nolint:govet // C handle
}

func (h BlasHandle) Destroy() int {
	if h.ptr == nil {
		return 0
	}
	return int(C.gpublasCublasDestroy(h.ptr))
}

func (h BlasHandle) Addr() uintptr {
	return uintptr(unsafe.Pointer(h.ptr))
}

func (h BlasHandle) Version() (int, int) {
	var v C.int
	code := int(C.cublasGetVersion_v2(h.ptr, &v))
	return int(v), code
}

func (h BlasHandle) PointerMode() (int, int) {
	var m C.int
	code := int(C.cublasGetPointerMode_v2(h.ptr, &m))
	return int(m), code
}

func (h BlasHandle) SetPointerMode(mode int) int {
	return int(C.cublasSetPointerMode_v2(h.ptr, C.int(mode)))
}

func (h BlasHandle) AtomicsMode() (int, int) {
	var m C.int
	code := int(C.cublasGetAtomicsMode(h.ptr, &m))
	return int(m), code
}

func (h BlasHandle) SetAtomicsMode(mode int) int {
	return int(C.cublasSetAtomicsMode(h.ptr, C.int(mode)))
}

func cudaErr(code C.int) error {
	if code == 0 {
		return nil
	}
	msg := C.GoString(C.gpublasCudaGetErrorString(C.cudaError_t(code)))
	return fmt.Errorf("cuda runtime error %d: %s", int(code), msg)
}
