package cpu

import (
	"runtime"
	"strconv"

	"github.com/pbnjay/memory"
	"golang.org/x/sys/cpu"

	"github.com/samcharles93/gpublas/internal/backend"
)

var _ backend.DeviceInfoer = (*Library)(nil)

// DeviceInfo reports the host as the device.
func (l *Library) DeviceInfo() (backend.DeviceInfo, error) {
	return backend.DeviceInfo{
		Name:           "cpu (" + runtime.GOARCH + ", " + strconv.Itoa(runtime.NumCPU()) + " threads)",
		TotalMemory:    memory.TotalMemory(),
		AllocatedBytes: uint64(l.mem.InUse()),
		Features:       features(),
	}, nil
}

func features() []string {
	var out []string
	add := func(name string, ok bool) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add("sse4.1", cpu.X86.HasSSE41)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("fma", cpu.X86.HasFMA)
		add("avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("fphp", cpu.ARM64.HasFPHP)
		add("asimdhp", cpu.ARM64.HasASIMDHP)
		add("sve", cpu.ARM64.HasSVE)
	}
	return out
}
