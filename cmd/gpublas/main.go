package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the parsed flags of one invocation.
type app struct {
	opts   options
	out    io.Writer
	errOut io.Writer
}

func newApp(out, errOut io.Writer) *cli.Command {
	a := &app{out: out, errOut: errOut}
	return &cli.Command{
		Name:      "gpublas",
		Usage:     "Run BLAS Level-1 routines on a GPU backend",
		Writer:    out,
		ErrWriter: errOut,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			a.versionCmd(),
			a.infoCmd(),
			a.indexCmd("amax", "Index of the element with the largest magnitude"),
			a.indexCmd("amin", "Index of the element with the smallest magnitude"),
			a.asumCmd(),
			a.axpyCmd(),
			a.copyCmd(),
			a.dotCmd(),
		},
	}
}
