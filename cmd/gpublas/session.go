package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/gpublas/internal/logger"
	"github.com/samcharles93/gpublas/pkg/gpublas"
)

// session is an opened backend context plus the resolved options of one
// command invocation.
type session struct {
	*gpublas.Context
	log   logger.Logger
	dtype gpublas.DType
}

// open applies the config file, builds the logger and opens a context.
func (a *app) open(ctx context.Context, cmd *cli.Command) (context.Context, *session, error) {
	cfg, err := loadConfig(a.opts.configPath)
	if err != nil {
		return ctx, nil, err
	}
	applyConfig(cmd, cfg, &a.opts)

	level := logger.ParseLevel(a.opts.logLevel)
	if a.opts.debug {
		level = logger.ParseLevel("debug")
	}
	log := logger.ForFormat(a.opts.logFormat, a.errOut, level)
	ctx = logger.WithContext(ctx, log)

	dtype := gpublas.Float32
	if a.opts.dtype != "" {
		if dtype, err = gpublas.ParseDType(a.opts.dtype); err != nil {
			return ctx, nil, err
		}
	}
	pm, ok := gpublas.ParsePointerMode(a.opts.pointerMode)
	if !ok {
		return ctx, nil, fmt.Errorf("invalid --pointer-mode %q", a.opts.pointerMode)
	}
	am, ok := gpublas.ParseAtomicsMode(a.opts.atomicsMode)
	if !ok {
		return ctx, nil, fmt.Errorf("invalid --atomics-mode %q", a.opts.atomicsMode)
	}

	check := gpublas.LogFailures(log)
	if a.opts.failFast {
		check = gpublas.Chain(check, gpublas.PanicOnFailure)
	}
	c, err := gpublas.Open(a.opts.backend,
		gpublas.WithLogger(log),
		gpublas.WithStatusCheck(check),
		gpublas.WithPointerMode(pm),
		gpublas.WithAtomicsMode(am),
	)
	if err != nil {
		return ctx, nil, err
	}
	log.Debug("context opened", "backend", c.Backend(), "session", c.ID().String(), "dtype", dtype.String())
	return ctx, &session{Context: c, log: log, dtype: dtype}, nil
}

// run opens a session, runs fn and destroys the session. Panics raised by
// --fail-fast come back as errors.
func (a *app) run(ctx context.Context, cmd *cli.Command, fn func(*session) error) (err error) {
	defer gpublas.Recover(&err)
	ctx, s, err := a.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if derr := s.Destroy(); derr != nil && err == nil {
			err = derr
		}
	}()
	err = fn(s)
	logger.FromContext(ctx).Debug("command finished", "command", cmd.Name, "status", s.LastStatus().String())
	return err
}

// xValues parses x from --x or the positional arguments.
func (a *app) xValues(cmd *cli.Command, dt gpublas.DType) (any, error) {
	fields := splitValues(a.opts.x)
	if len(fields) == 0 {
		fields = cmd.Args().Slice()
	}
	if len(fields) == 0 {
		return nil, errors.New("no x values given (use --x or positional arguments)")
	}
	return parseVector(fields, dt)
}

func (a *app) yValues(dt gpublas.DType) (any, error) {
	fields := splitValues(a.opts.y)
	if len(fields) == 0 {
		return nil, errors.New("no y values given (use --y)")
	}
	return parseVector(fields, dt)
}

func splitValues(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// parseVector parses fields into a slice of dt's Go type. Complex values use
// Go syntax ("1+2i", "(3-1i)", "4").
func parseVector(fields []string, dt gpublas.DType) (any, error) {
	switch dt {
	case gpublas.Float32:
		return parseAll(fields, func(s string) (float32, error) {
			v, err := strconv.ParseFloat(s, 32)
			return float32(v), err
		})
	case gpublas.Float64:
		return parseAll(fields, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
	case gpublas.Complex64:
		return parseAll(fields, func(s string) (complex64, error) {
			v, err := strconv.ParseComplex(s, 64)
			return complex64(v), err
		})
	case gpublas.Complex128:
		return parseAll(fields, func(s string) (complex128, error) {
			return strconv.ParseComplex(s, 128)
		})
	default:
		return nil, fmt.Errorf("unsupported dtype %v", dt)
	}
}

func parseAll[T any](fields []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, len(fields))
	for i, f := range fields {
		v, err := parse(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseAlpha accepts a real or complex number.
func parseAlpha(s string) (complex128, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	v, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, fmt.Errorf("invalid --alpha %q: %w", s, err)
	}
	return v, nil
}
