package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/api"
	"github.com/zamaudio/ptformat/internal/logger"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxBody     int64
		storeSize   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the describe API over HTTP",
		Flags: append(parseFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-body",
				Usage:       "largest accepted session in bytes",
				Value:       api.DefaultMaxBodyBytes,
				Destination: &maxBody,
			},
			&cli.Int64Flag{
				Name:        "reports",
				Usage:       "number of reports kept for retrieval",
				Value:       api.DefaultStoreSize,
				Destination: &storeSize,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyParseConfig(cmd, cfg)
			applyServeConfig(cmd, cfg, &addr)
			log := logger.FromContext(ctx)

			popts := parseOptions(ctx)
			popts.Logger = nil
			server := api.NewServer(api.Config{
				Registry:     ptf.DefaultRegistry(),
				Parse:        popts,
				MaxBodyBytes: maxBody,
				StoreSize:    int(storeSize),
				Logger:       log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
