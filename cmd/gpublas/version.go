package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/gpublas/internal/version"
	"github.com/samcharles93/gpublas/pkg/gpublas"
)

func (a *app) versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			_, _ = fmt.Fprintf(a.out, "version:    %s\n", info.Version)
			if info.Commit != "" {
				_, _ = fmt.Fprintf(a.out, "commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				_, _ = fmt.Fprintf(a.out, "build time: %s\n", info.BuildTime)
			}
			_, _ = fmt.Fprintf(a.out, "backends:   %s\n", gpublas.Available())
			return nil
		},
	}
}
