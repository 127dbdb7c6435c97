package main

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/gpublas/pkg/gpublas"
)

type infoReport struct {
	Backend        string   `json:"backend"`
	Available      string   `json:"available"`
	Session        string   `json:"session"`
	Version        int      `json:"version"`
	PointerMode    string   `json:"pointer_mode"`
	AtomicsMode    string   `json:"atomics_mode"`
	Device         string   `json:"device"`
	TotalMemory    uint64   `json:"total_memory"`
	AllocatedBytes uint64   `json:"allocated_bytes"`
	Features       []string `json:"features,omitempty"`
}

func (a *app) infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Describe the selected backend and its device",
		Flags: a.opts.commonFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, cmd, func(s *session) error {
				r, err := collectInfo(s.Context)
				if err != nil {
					return err
				}
				if a.opts.jsonOut {
					return a.print(result{Op: "info", Backend: r.Backend, Value: r})
				}
				writeLine(a.out, "backend:      %s (available: %s)", r.Backend, r.Available)
				writeLine(a.out, "session:      %s", r.Session)
				writeLine(a.out, "version:      %d", r.Version)
				writeLine(a.out, "pointer mode: %s", r.PointerMode)
				writeLine(a.out, "atomics mode: %s", r.AtomicsMode)
				writeLine(a.out, "device:       %s", r.Device)
				if r.TotalMemory > 0 {
					writeLine(a.out, "memory:       %s", humanize.IBytes(r.TotalMemory))
				}
				writeLine(a.out, "allocated:    %s", humanize.IBytes(r.AllocatedBytes))
				if len(r.Features) > 0 {
					writeLine(a.out, "features:     %s", strings.Join(r.Features, " "))
				}
				return nil
			})
		},
	}
}

func collectInfo(c *gpublas.Context) (infoReport, error) {
	v, err := c.Version()
	if err != nil {
		return infoReport{}, err
	}
	pm, err := c.PointerMode()
	if err != nil {
		return infoReport{}, err
	}
	am, err := c.AtomicsMode()
	if err != nil {
		return infoReport{}, err
	}
	dev, err := c.DeviceInfo()
	if err != nil {
		return infoReport{}, err
	}
	return infoReport{
		Backend:        c.Backend(),
		Available:      gpublas.Available(),
		Session:        c.ID().String(),
		Version:        v,
		PointerMode:    pm.String(),
		AtomicsMode:    am.String(),
		Device:         dev.Name,
		TotalMemory:    dev.TotalMemory,
		AllocatedBytes: dev.AllocatedBytes,
		Features:       dev.Features,
	}, nil
}
