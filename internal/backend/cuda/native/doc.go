// Package native holds the cgo bindings to the CUDA runtime and cuBLAS.
// It is only compiled with the cuda build tag.
package native
