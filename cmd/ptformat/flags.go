package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/logger"
	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	strict   bool
	maxDepth int64
	unxor    bool

	fullHex  bool
	hexWidth int64
	noColor  bool

	cfg Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir, or $PTFORMAT_CONFIG)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       logger.FormatPretty,
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func parseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject block headers whose type does not fit in one byte",
			Value:       true,
			Destination: &strict,
		},
		&cli.Int64Flag{
			Name:        "max-depth",
			Usage:       "maximum block nesting depth",
			Value:       ptf.DefaultMaxDepth,
			Destination: &maxDepth,
		},
		&cli.BoolFlag{
			Name:        "unxor",
			Usage:       "descramble raw session files before parsing",
			Value:       true,
			Destination: &unxor,
		},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "fullhex",
			Usage:       "dump the content of decoded blocks as well",
			Destination: &fullHex,
		},
		&cli.Int64Flag{
			Name:        "hex-width",
			Usage:       "bytes per hex dump row",
			Value:       render.DefaultHexWidth,
			Destination: &hexWidth,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable coloured output",
			Destination: &noColor,
		},
	}
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = configPath()
	}
	loaded, err := loadConfig(path)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}
	cfg = loaded
	applyLoggingConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Open(os.Stderr, logFormat, level, !color.NoColor)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}
	return logger.WithContext(ctx, log), nil
}

func parseOptions(ctx context.Context) ptf.Options {
	return ptf.Options{
		Strict:     strict,
		MaxDepth:   int(maxDepth),
		Descramble: unxor,
		Logger:     logger.FromContext(ctx),
	}
}

func renderOptions() render.Options {
	return render.Options{
		Registry: ptf.DefaultRegistry(),
		FullHex:  fullHex,
		HexWidth: int(hexWidth),
		Color:    !noColor && !color.NoColor,
	}
}

func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return cli.Exit(fmt.Sprintf("%s: usage: ptformat %s %s", cmd.Name, cmd.Name, usage), 1)
	}
	return nil
}
