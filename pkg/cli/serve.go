package cli

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/errlog/pkg/cli/config"
	server "github.com/m-mizutani/errlog/pkg/controller/http"
	"github.com/m-mizutani/errlog/pkg/controller/http/errlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var (
		addr     string
		metrics  bool
		errorCfg config.ErrorLog
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Sources:     cli.EnvVars("ERRLOG_ADDR"),
			Usage:       "Listen address (default: 127.0.0.1:8080)",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Sources:     cli.EnvVars("ERRLOG_METRICS"),
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Destination: &metrics,
		},
	}
	flags = append(flags, errorCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run demo server raising errors on /fail/*",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("starting server",
				"addr", addr,
				"metrics", metrics,
				"error", errorCfg,
			)

			var (
				errorOpts     []errlog.Option
				serverOptions []server.Options
			)
			if metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				m, err := errlog.NewMetrics(reg)
				if err != nil {
					return err
				}
				errorOpts = append(errorOpts, errlog.WithMetrics(m))
				serverOptions = append(serverOptions,
					server.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
				)
			}

			h, closer, err := errorCfg.Configure(ctx, errorOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to configure error handler")
			}
			defer closer()
			serverOptions = append(serverOptions, server.WithErrorHandler(h))

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(serverOptions...),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)
			eg.Go(func() error {
				logger.Info("server started", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to serve", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()
				logger.Info("shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})

			return eg.Wait()
		},
	}
}
