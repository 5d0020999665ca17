package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/logger"
	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func describeCmd() *cli.Command {
	var (
		format  string
		workers int64
	)

	flags := append(parseFlags(), renderFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml)",
			Value:       formatText,
			Destination: &format,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"j"},
			Usage:       "number of files parsed concurrently",
			Value:       4,
			Destination: &workers,
		},
	)

	return &cli.Command{
		Name:      "describe",
		Usage:     "Print the block tree of one or more sessions",
		ArgsUsage: "<file>...",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "<file>..."); err != nil {
				return err
			}
			applyParseConfig(cmd, cfg)
			applyRenderConfig(cmd, cfg)
			applyDescribeConfig(cmd, cfg, &format, &workers)

			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return cli.Exit(fmt.Sprintf("describe: unknown format %q", format), 1)
			}

			results := describeAll(ctx, cmd.Args().Slice(), int(workers), format, parseOptions(ctx), renderOptions())
			return writeResults(os.Stdout, os.Stderr, format, results)
		},
	}
}

type describeResult struct {
	path   string
	text   []byte
	report render.Report
	err    error
}

// describeAll parses every path with at most workers files open at once.
// Results keep the order of paths.
func describeAll(ctx context.Context, paths []string, workers int, format string, popts ptf.Options, ropts render.Options) []describeResult {
	if workers < 1 {
		workers = 1
	}
	log := logger.FromContext(ctx)
	results := make([]describeResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(workers, len(paths)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = describeOne(paths[i], format, popts, ropts)
				if err := results[i].err; err != nil {
					log.Debug("describe failed", "path", paths[i], "error", err)
				}
			}
		}()
	}
	for i := range paths {
		if ctx.Err() != nil {
			results[i] = describeResult{path: paths[i], err: ctx.Err()}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func describeOne(path, format string, popts ptf.Options, ropts render.Options) describeResult {
	res := describeResult{path: path}
	f, err := ptf.Open(path, popts)
	if err != nil {
		res.err = err
		return res
	}
	defer func() { _ = f.Close() }()

	src := render.Source{Name: path, Tree: f.Tree, Descrambled: f.Descrambled}
	if format == formatText {
		var buf bytes.Buffer
		res.err = render.Text(&buf, src, ropts)
		res.text = buf.Bytes()
		return res
	}
	res.report = render.BuildReport(src, ropts)
	return res
}

// writeResults prints successful results to out and failures to errOut. Any
// failure makes the command exit non-zero after everything was printed.
func writeResults(out, errOut io.Writer, format string, results []describeResult) error {
	failed := 0
	var reports []render.Report
	for i, r := range results {
		if r.err != nil {
			failed++
			_, _ = fmt.Fprintf(errOut, "%s: %v\n", r.path, r.err)
			continue
		}
		if format != formatText {
			reports = append(reports, r.report)
			continue
		}
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if _, err := out.Write(r.text); err != nil {
			return err
		}
	}

	var err error
	switch {
	case len(reports) == 0:
	case format == formatJSON:
		err = render.JSON(out, reports...)
	case format == formatYAML:
		err = render.YAML(out, reports...)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("describe: %d of %d files failed", failed, len(results)), 1)
	}
	return nil
}
