package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type result struct {
	Op      string `json:"op"`
	Backend string `json:"backend"`
	DType   string `json:"dtype"`
	N       int    `json:"n"`
	Value   any    `json:"value"`
}

func (a *app) print(r result) error {
	if a.opts.jsonOut {
		r.Value = jsonValue(r.Value)
		enc := json.NewEncoder(a.out)
		return enc.Encode(r)
	}
	_, err := fmt.Fprintln(a.out, formatValue(r.Value))
	return err
}

// jsonValue replaces complex numbers, which JSON cannot represent, with
// [re, im] pairs.
func jsonValue(v any) any {
	switch t := v.(type) {
	case complex64:
		return [2]float32{real(t), imag(t)}
	case complex128:
		return [2]float64{real(t), imag(t)}
	case []complex64:
		out := make([][2]float32, len(t))
		for i, c := range t {
			out[i] = [2]float32{real(c), imag(c)}
		}
		return out
	case []complex128:
		out := make([][2]float64, len(t))
		for i, c := range t {
			out[i] = [2]float64{real(c), imag(c)}
		}
		return out
	default:
		return v
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case []float32:
		return joinFormatted(t, func(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) })
	case []float64:
		return joinFormatted(t, func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
	case []complex64:
		return joinFormatted(t, func(c complex64) string { return strconv.FormatComplex(complex128(c), 'g', -1, 64) })
	case []complex128:
		return joinFormatted(t, func(c complex128) string { return strconv.FormatComplex(c, 'g', -1, 128) })
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func joinFormatted[T any](xs []T, f func(T) string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = f(x)
	}
	return strings.Join(parts, " ")
}

func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
