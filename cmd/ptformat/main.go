package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "ptformat",
		Usage:   "Inspect tagged session containers",
		Version: version.String(),
		Flags:   loggingFlags(),
		Before:  setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			describeCmd(),
			statsCmd(),
			locateCmd(),
			unxorCmd(),
			typesCmd(),
			exploreCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
