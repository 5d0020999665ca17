package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/logger"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func unxorCmd() *cli.Command {
	return &cli.Command{
		Name:      "unxor",
		Usage:     "Descramble a raw session into the plain container",
		ArgsUsage: "<in> <out>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2, "<in> <out>"); err != nil {
				return err
			}
			log := logger.FromContext(ctx)
			in, out := cmd.Args().Get(0), cmd.Args().Get(1)

			data, err := os.ReadFile(in)
			if err != nil {
				return cli.Exit(fmt.Sprintf("unxor: %v", err), 1)
			}
			plain, descrambled, err := ptf.Prepare(data, nil)
			if err != nil {
				return cli.Exit(fmt.Sprintf("unxor: %s: %v", in, err), 1)
			}
			if !descrambled {
				log.Warn("input is already a plain container", "path", in)
			}
			if err := os.WriteFile(out, plain, 0o644); err != nil {
				return cli.Exit(fmt.Sprintf("unxor: %v", err), 1)
			}
			log.Info("wrote session", "path", out, "bytes", len(plain), "descrambled", descrambled)
			return nil
		},
	}
}
