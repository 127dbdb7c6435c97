package backend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

const (
	CPU    = "cpu"
	CUDA   = "cuda"
	WebGPU = "webgpu"
	Auto   = "auto"
)

// ErrUnavailable is returned by Load for backends not registered in this build.
var ErrUnavailable = errors.New("backend not available in this build")

// Factory opens a library. It is called at most once per process.
type Factory func() (Library, error)

var (
	mu        sync.Mutex
	factories = map[string]Factory{}
	loaded    = map[string]Library{}
)

// autoOrder is the preference order used to resolve Auto.
var autoOrder = []string{CUDA, WebGPU, CPU}

// Register makes a backend available under name. Backend packages call it
// from init; registering a name twice panics.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[name]; dup {
		panic("backend: duplicate registration of " + name)
	}
	factories[name] = f
}

func Normalize(name string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(name))
	if backend == "" {
		return Auto, nil
	}
	switch backend {
	case CPU, CUDA, WebGPU, Auto:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected auto, cpu, cuda, or webgpu)", backend)
	}
}

// Has reports whether name is registered in this build.
func Has(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := factories[name]
	return ok
}

// Available returns a comma-separated list of registered backends.
func Available() string {
	mu.Lock()
	defer mu.Unlock()
	entries := make([]string, 0, len(factories))
	for name := range factories {
		entries = append(entries, name)
	}
	slices.Sort(entries)
	return strings.Join(entries, ",")
}

// Load returns the process-wide library for name, opening it on first use.
// Auto picks the first backend in cuda, webgpu, cpu order that opens.
func Load(name string) (Library, error) {
	backend, err := Normalize(name)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	if backend != Auto {
		return loadLocked(backend)
	}
	var errs []error
	for _, candidate := range autoOrder {
		if _, ok := factories[candidate]; !ok {
			continue
		}
		lib, err := loadLocked(candidate)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrUnavailable
	}
	return nil, fmt.Errorf("no usable backend: %w", errors.Join(errs...))
}

func loadLocked(name string) (Library, error) {
	if lib, ok := loaded[name]; ok {
		return lib, nil
	}
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnavailable)
	}
	lib, err := f()
	if err != nil {
		return nil, fmt.Errorf("%s backend init failed: %w", name, err)
	}
	loaded[name] = lib
	return lib, nil
}
