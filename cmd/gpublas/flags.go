package main

import "github.com/urfave/cli/v3"

type options struct {
	configPath  string
	backend     string
	pointerMode string
	atomicsMode string
	failFast    bool
	jsonOut     bool

	dtype string
	x     string
	y     string
	incx  int64
	incy  int64
	alpha string
	conj  bool

	logLevel  string
	logFormat string
	debug     bool
}

func (o *options) commonFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config file (default $XDG_CONFIG_HOME/gpublas/config.yaml)",
			Destination: &o.configPath,
		},
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "execution backend (auto, cpu, cuda, webgpu)",
			Value:       "auto",
			Destination: &o.backend,
		},
		&cli.StringFlag{
			Name:        "pointer-mode",
			Usage:       "scalar pointer mode (host, device)",
			Value:       "host",
			Destination: &o.pointerMode,
		},
		&cli.StringFlag{
			Name:        "atomics-mode",
			Usage:       "atomics mode (allowed, not_allowed)",
			Value:       "not_allowed",
			Destination: &o.atomicsMode,
		},
		&cli.BoolFlag{
			Name:        "fail-fast",
			Usage:       "panic on the first non-success status",
			Destination: &o.failFast,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print results as JSON",
			Destination: &o.jsonOut,
		},
	}
	return append(flags, o.loggingFlags()...)
}

// vectorFlags are the operand flags. Values are comma or space separated;
// use --x=-1,2 for values starting with a minus sign, or pass x as
// positional arguments after --.
func (o *options) vectorFlags(withY bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dtype",
			Aliases:     []string{"t"},
			Usage:       "element type (float32, float64, complex64, complex128)",
			Value:       "float32",
			Destination: &o.dtype,
		},
		&cli.StringFlag{
			Name:        "x",
			Usage:       "x values",
			Destination: &o.x,
		},
		&cli.Int64Flag{
			Name:        "incx",
			Usage:       "stride of x",
			Value:       1,
			Destination: &o.incx,
		},
	}
	if withY {
		flags = append(flags,
			&cli.StringFlag{
				Name:        "y",
				Usage:       "y values",
				Destination: &o.y,
			},
			&cli.Int64Flag{
				Name:        "incy",
				Usage:       "stride of y",
				Value:       1,
				Destination: &o.incy,
			},
		)
	}
	return flags
}

func (o *options) loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &o.logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &o.debug,
		},
	}
}
