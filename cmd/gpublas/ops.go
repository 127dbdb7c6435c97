package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/gpublas/pkg/gpublas"
)

func (a *app) indexCmd(name, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[x values...]",
		Flags:     append(a.opts.commonFlags(), a.opts.vectorFlags(false)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, cmd, func(s *session) error {
				x, err := a.xValues(cmd, s.dtype)
				if err != nil {
					return err
				}
				var idx int
				if name == "amax" {
					idx, err = s.Iamax(x, int(a.opts.incx))
				} else {
					idx, err = s.Iamin(x, int(a.opts.incx))
				}
				if err != nil {
					return err
				}
				return a.print(a.result(s, name, x, idx))
			})
		},
	}
}

func (a *app) asumCmd() *cli.Command {
	return &cli.Command{
		Name:      "asum",
		Usage:     "Sum of magnitudes",
		ArgsUsage: "[x values...]",
		Flags:     append(a.opts.commonFlags(), a.opts.vectorFlags(false)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, cmd, func(s *session) error {
				x, err := a.xValues(cmd, s.dtype)
				if err != nil {
					return err
				}
				sum, err := s.Asum(x, int(a.opts.incx))
				if err != nil {
					return err
				}
				return a.print(a.result(s, "asum", x, sum))
			})
		},
	}
}

func (a *app) axpyCmd() *cli.Command {
	flags := append(a.opts.commonFlags(), a.opts.vectorFlags(true)...)
	flags = append(flags, &cli.StringFlag{
		Name:        "alpha",
		Aliases:     []string{"a"},
		Usage:       "scale factor, real or complex (e.g. 2, 1+2i)",
		Value:       "1",
		Destination: &a.opts.alpha,
	})
	return &cli.Command{
		Name:      "axpy",
		Usage:     "Compute y = alpha*x + y and print y",
		ArgsUsage: "[x values...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			alpha, err := parseAlpha(a.opts.alpha)
			if err != nil {
				return err
			}
			return a.run(ctx, cmd, func(s *session) error {
				x, y, err := a.pair(cmd, s.dtype)
				if err != nil {
					return err
				}
				if err := s.Axpy(alpha, x, int(a.opts.incx), y, int(a.opts.incy)); err != nil {
					return err
				}
				return a.print(a.result(s, "axpy", x, y))
			})
		},
	}
}

func (a *app) copyCmd() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy x into y and print y. Without --y, y starts as zeros",
		ArgsUsage: "[x values...]",
		Flags:     append(a.opts.commonFlags(), a.opts.vectorFlags(true)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, cmd, func(s *session) error {
				x, err := a.xValues(cmd, s.dtype)
				if err != nil {
					return err
				}
				var y any
				if a.opts.y == "" {
					y = zeros(s.dtype, span(vectorLen(x), int(a.opts.incx), int(a.opts.incy)))
				} else if y, err = a.yValues(s.dtype); err != nil {
					return err
				}
				if err := s.Copy(x, int(a.opts.incx), y, int(a.opts.incy)); err != nil {
					return err
				}
				return a.print(a.result(s, "copy", x, y))
			})
		},
	}
}

func (a *app) dotCmd() *cli.Command {
	flags := append(a.opts.commonFlags(), a.opts.vectorFlags(true)...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "conj",
		Usage:       "conjugate x (complex dtypes only)",
		Destination: &a.opts.conj,
	})
	return &cli.Command{
		Name:      "dot",
		Usage:     "Dot product of x and y",
		ArgsUsage: "[x values...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, cmd, func(s *session) error {
				x, y, err := a.pair(cmd, s.dtype)
				if err != nil {
					return err
				}
				dot, err := s.Dot(x, int(a.opts.incx), y, int(a.opts.incy), a.opts.conj)
				if err != nil {
					return err
				}
				var v any = dot.Complex128()
				if !dot.DType.IsComplex() {
					v = dot.Float64()
				}
				return a.print(a.result(s, "dot", x, v))
			})
		},
	}
}

func (a *app) pair(cmd *cli.Command, dt gpublas.DType) (any, any, error) {
	x, err := a.xValues(cmd, dt)
	if err != nil {
		return nil, nil, err
	}
	y, err := a.yValues(dt)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (a *app) result(s *session, op string, x any, v any) result {
	return result{
		Op:      op,
		Backend: s.Backend(),
		DType:   s.dtype.String(),
		N:       vectorLen(x),
		Value:   v,
	}
}

func vectorLen(v any) int {
	switch t := v.(type) {
	case []float32:
		return len(t)
	case []float64:
		return len(t)
	case []complex64:
		return len(t)
	case []complex128:
		return len(t)
	default:
		return 0
	}
}

// span is the length y needs to receive every element visited in a vector
// of length n with stride incx, written with stride incy.
func span(n, incx, incy int) int {
	if incx < 0 {
		incx = -incx
	}
	if incy < 0 {
		incy = -incy
	}
	visited := n
	if incx > 1 {
		visited = (n + incx - 1) / incx
	}
	if visited == 0 {
		return 0
	}
	return 1 + (visited-1)*max(incy, 1)
}

func zeros(dt gpublas.DType, n int) any {
	switch dt {
	case gpublas.Float32:
		return make([]float32, n)
	case gpublas.Float64:
		return make([]float64, n)
	case gpublas.Complex64:
		return make([]complex64, n)
	case gpublas.Complex128:
		return make([]complex128, n)
	default:
		panic(fmt.Sprintf("zeros: unsupported dtype %v", dt))
	}
}
