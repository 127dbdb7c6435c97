//go:build webgpu

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// kernel identifies a compiled shader variant.
type kernel struct {
	name    string
	body    string
	cmp     string // replaces CMP in index shaders
	complex bool
}

func (k kernel) key() string {
	if k.complex {
		return k.name + "/c"
	}
	return k.name + "/s"
}

func (k kernel) source() string {
	prelude := realPrelude
	if k.complex {
		prelude = complexPrelude
	}
	body := k.body
	if k.cmp != "" {
		body = strings.ReplaceAll(body, "CMP", k.cmp)
	}
	return paramsDecl + prelude + body
}

// pipeline returns the cached ComputePipeline for k, compiling it on first use.
func (l *Library) pipeline(k kernel) *wgpu.ComputePipeline {
	name := k.key()
	l.mu.RLock()
	if p, ok := l.pipelines[name]; ok {
		l.mu.RUnlock()
		return p
	}
	l.mu.RUnlock()

	shader := l.device.CreateShaderModuleWGSL(k.source())
	// Create compute pipeline with auto layout (nil layout)
	p := l.device.CreateComputePipelineSimple(nil, shader, "main")

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.pipelines[name]; ok {
		p.Release()
		shader.Release()
		return existing
	}
	l.shaders = append(l.shaders, shader)
	l.pipelines[name] = p
	return p
}

// createBuffer creates a GPU buffer and uploads data through MappedAtCreation.
// The buffer size is rounded up to the 4-byte copy granularity.
func (l *Library) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := alignCopy(uint64(len(data)))
	buffer := l.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()
	return buffer
}

func (l *Library) createUniformBuffer(data []byte) *wgpu.Buffer {
	alignedSize := (uint64(len(data)) + 15) &^ 15
	padded := make([]byte, alignedSize)
	copy(padded, data)
	return l.createBuffer(padded, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
}

// readBuffer copies size bytes at offset out of src through a staging buffer.
// Offset and size must be multiples of 4.
func (l *Library) readBuffer(src *wgpu.Buffer, offset, size uint64) ([]byte, error) {
	staging := l.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := l.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, offset, staging, 0, size)
	l.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(l.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}
	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	out := make([]byte, size)
	copy(out, mappedSlice)
	staging.Unmap()
	return out, nil
}

// writeBuffer uploads data into dst at offset through a staging buffer.
// Offset and length must be multiples of 4.
func (l *Library) writeBuffer(dst *wgpu.Buffer, offset uint64, data []byte) {
	staging := l.createBuffer(data, wgpu.BufferUsageCopySrc)
	defer staging.Release()
	encoder := l.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, dst, offset, uint64(len(data)))
	l.queue.Submit(encoder.Finish(nil))
}

// copyBuffer copies size bytes between two device buffers.
func (l *Library) copyBuffer(src *wgpu.Buffer, srcOff uint64, dst *wgpu.Buffer, dstOff, size uint64) {
	encoder := l.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, srcOff, dst, dstOff, size)
	l.queue.Submit(encoder.Finish(nil))
}

// params is the host mirror of the Params uniform.
type params struct {
	n          uint32
	incx, incy int32
	offx, offy uint32
	conj       bool
	alpha      complex64
}

func (p params) bytes() []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:4], p.n)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(p.incx))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.incy))
	binary.LittleEndian.PutUint32(buf[12:16], p.offx)
	binary.LittleEndian.PutUint32(buf[16:20], p.offy)
	if p.conj {
		binary.LittleEndian.PutUint32(buf[20:24], 1)
	}
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(real(p.alpha)))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(imag(p.alpha)))
	return buf
}

// binding is a whole storage buffer bound to one slot.
type binding struct {
	buf  *wgpu.Buffer
	size uint64
}

// dispatch binds buffers in order followed by the params uniform and runs k.
// Reductions run one workgroup; element-wise kernels cover n threads.
func (l *Library) dispatch(k kernel, p params, reduction bool, buffers ...binding) {
	pipeline := l.pipeline(k)

	uniform := l.createUniformBuffer(p.bytes())
	defer uniform.Release()

	entries := make([]wgpu.BindGroupEntry, 0, len(buffers)+1)
	for i, b := range buffers {
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), b.buf, 0, b.size))
	}
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(buffers)), uniform, 0, paramsSize))

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := l.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := l.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	gx, gy := uint32(1), uint32(1)
	if !reduction {
		groups := max((p.n+workgroupSize-1)/workgroupSize, 1)
		gx = min(groups, maxGroupsX)
		gy = (groups + gx - 1) / gx
	}
	computePass.DispatchWorkgroups(gx, gy, 1)
	computePass.End()
	l.queue.Submit(encoder.Finish(nil))
}

func alignCopy(size uint64) uint64 {
	return max((size+3)&^3, 4)
}
