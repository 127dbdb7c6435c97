package gpublas

import (
	"strings"

	"github.com/samcharles93/gpublas/internal/backend"
)

type (
	// PointerMode selects where scalar arguments and results live.
	PointerMode = backend.PointerMode
	// AtomicsMode controls whether the backend may use atomic reductions.
	AtomicsMode = backend.AtomicsMode
)

const (
	PointerModeHost   = backend.PointerModeHost
	PointerModeDevice = backend.PointerModeDevice

	AtomicsNotAllowed = backend.AtomicsNotAllowed
	AtomicsAllowed    = backend.AtomicsAllowed
)

// ParsePointerMode normalises a PointerMode, a raw code (0 or 1) or a
// case-insensitive name ("host", "device", "CUBLAS_POINTER_MODE_DEVICE").
// ok is false for anything else.
func ParsePointerMode(v any) (mode PointerMode, ok bool) {
	switch t := v.(type) {
	case PointerMode:
		return t, t == PointerModeHost || t == PointerModeDevice
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "host", "cublas_pointer_mode_host", "0":
			return PointerModeHost, true
		case "device", "cublas_pointer_mode_device", "1":
			return PointerModeDevice, true
		}
		return 0, false
	}
	if code, isInt := intCode(v); isInt {
		switch code {
		case 0:
			return PointerModeHost, true
		case 1:
			return PointerModeDevice, true
		}
	}
	return 0, false
}

// ParseAtomicsMode normalises an AtomicsMode, a raw code, a bool or a
// case-insensitive name ("allowed", "not_allowed", "CUBLAS_ATOMICS_ALLOWED").
func ParseAtomicsMode(v any) (mode AtomicsMode, ok bool) {
	switch t := v.(type) {
	case AtomicsMode:
		return t, t == AtomicsNotAllowed || t == AtomicsAllowed
	case bool:
		if t {
			return AtomicsAllowed, true
		}
		return AtomicsNotAllowed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "not_allowed", "notallowed", "not-allowed", "cublas_atomics_not_allowed", "0":
			return AtomicsNotAllowed, true
		case "allowed", "cublas_atomics_allowed", "1":
			return AtomicsAllowed, true
		}
		return 0, false
	}
	if code, isInt := intCode(v); isInt {
		switch code {
		case 0:
			return AtomicsNotAllowed, true
		case 1:
			return AtomicsAllowed, true
		}
	}
	return 0, false
}

func intCode(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	default:
		return 0, false
	}
}
