package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func typesCmd() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the known content types",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			render.TypesTable(os.Stdout, ptf.DefaultRegistry())
			return nil
		},
	}
}
