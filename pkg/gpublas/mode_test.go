package gpublas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePointerMode(t *testing.T) {
	tests := []struct {
		in   any
		want PointerMode
		ok   bool
	}{
		{PointerModeHost, PointerModeHost, true},
		{PointerModeDevice, PointerModeDevice, true},
		{PointerMode(4), 0, false},
		{0, PointerModeHost, true},
		{int32(1), PointerModeDevice, true},
		{uint8(1), PointerModeDevice, true},
		{2, 0, false},
		{-1, 0, false},
		{"Device", PointerModeDevice, true},
		{" host ", PointerModeHost, true},
		{"CUBLAS_POINTER_MODE_DEVICE", PointerModeDevice, true},
		{"cublas_pointer_mode_host", PointerModeHost, true},
		{"gpu", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{1.0, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePointerMode(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%#v", tt.in)
		}
	}
}

func TestParseAtomicsMode(t *testing.T) {
	tests := []struct {
		in   any
		want AtomicsMode
		ok   bool
	}{
		{AtomicsAllowed, AtomicsAllowed, true},
		{AtomicsMode(3), 0, false},
		{true, AtomicsAllowed, true},
		{false, AtomicsNotAllowed, true},
		{1, AtomicsAllowed, true},
		{0, AtomicsNotAllowed, true},
		{"allowed", AtomicsAllowed, true},
		{"NOT_ALLOWED", AtomicsNotAllowed, true},
		{"notallowed", AtomicsNotAllowed, true},
		{"CUBLAS_ATOMICS_ALLOWED", AtomicsAllowed, true},
		{"cublas_atomics_not_allowed", AtomicsNotAllowed, true},
		{"sometimes", 0, false},
		{PointerModeDevice, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAtomicsMode(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%#v", tt.in)
		}
	}
}
