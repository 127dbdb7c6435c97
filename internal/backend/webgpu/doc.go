// Package webgpu runs the single-precision Level-1 entry points as WGSL
// compute kernels through wgpu-native. It is compiled only with the webgpu
// build tag.
package webgpu
