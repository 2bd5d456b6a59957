package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mapdb/internal/api"
	"github.com/samcharles93/mapdb/internal/library"
	"github.com/samcharles93/mapdb/internal/logger"
	"github.com/samcharles93/mapdb/internal/version"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		trustProxy  bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Scan the maps folder and serve it over HTTP",
		Flags: append(libraryFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.BoolFlag{
				Name:        "trust-proxy",
				Usage:       "rate limit by the first X-Forwarded-For hop",
				Destination: &trustProxy,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			libCfg, err := libraryConfig(cmd, cfg)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			applyServeConfig(cmd, cfg, &addr, &trustProxy)

			lib, err := library.Scan(ctx, libCfg, log)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			server, err := api.NewServer(lib, api.Options{
				Links:      cfg.links(),
				TrustProxy: trustProxy,
			}, log)
			if err != nil {
				return err
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "version", version.String(), "address", addr, "maps", lib.Len(), "trust_proxy", trustProxy)
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
