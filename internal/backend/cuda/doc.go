// Package cuda binds the Level-1 entry points of the system cuBLAS library.
//
// The implementation requires cgo and the CUDA toolkit and is only compiled
// with the cuda build tag. Without it the package is empty and the backend is
// not registered.
package cuda
