package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func statsCmd() *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:      "stats",
		Usage:     "Summarise content types, depth and anomalies",
		ArgsUsage: "<file>",
		Flags: append(parseFlags(), &cli.BoolFlag{
			Name:        "json",
			Usage:       "print the statistics as JSON",
			Destination: &asJSON,
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "<file>"); err != nil {
				return err
			}
			applyParseConfig(cmd, cfg)
			path := cmd.Args().First()

			f, err := ptf.Open(path, parseOptions(ctx))
			if err != nil {
				return cli.Exit(fmt.Sprintf("stats: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			stats := ptf.CollectStats(f.Tree, ptf.DefaultRegistry())
			if asJSON {
				b, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, string(b))
				return err
			}
			render.StatsTable(os.Stdout, path, stats)
			return render.WriteAnomalies(os.Stdout, f.Tree, renderOptions().Color)
		},
	}
}
