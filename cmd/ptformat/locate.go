package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func locateCmd() *cli.Command {
	var (
		offset string
		decode bool
	)
	flags := append(parseFlags(), renderFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "offset",
			Aliases:     []string{"o"},
			Usage:       "byte offset, decimal or 0x-prefixed hex",
			Required:    true,
			Destination: &offset,
		},
		&cli.BoolFlag{
			Name:        "decode",
			Usage:       "also decode the innermost block",
			Destination: &decode,
		},
	)

	return &cli.Command{
		Name:      "locate",
		Usage:     "Find the blocks containing a byte offset",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "--offset N <file>"); err != nil {
				return err
			}
			applyParseConfig(cmd, cfg)
			applyRenderConfig(cmd, cfg)

			off, err := parseOffset(offset)
			if err != nil {
				return cli.Exit(fmt.Sprintf("locate: %v", err), 1)
			}
			f, err := ptf.Open(cmd.Args().First(), parseOptions(ctx))
			if err != nil {
				return cli.Exit(fmt.Sprintf("locate: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			chain := ptf.NewIndex(f.Tree).Locate(off)
			if len(chain) == 0 {
				return cli.Exit(fmt.Sprintf("locate: offset %d is not inside any block", off), 1)
			}
			ropts := renderOptions()
			render.ChainTable(os.Stdout, off, chain, ropts.Registry)
			if decode {
				for _, l := range render.BlockLines(f.Tree, chain[len(chain)-1], ropts) {
					if _, err := fmt.Fprintln(os.Stdout, l); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func parseOffset(s string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative offset %d", v)
	}
	return int(v), nil
}
