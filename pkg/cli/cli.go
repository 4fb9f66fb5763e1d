package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/errlog/pkg/cli/config"
	"github.com/m-mizutani/errlog/pkg/utils/errors"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		closer    = func() {}
	)
	defer func() { closer() }()

	app := &cli.Command{
		Name:  "errlog",
		Usage: "HTTP error response normalizer and logger",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, cleanup, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = cleanup

			ctx = ctxlog.With(ctx, logger)
			ctxlog.From(ctx).Debug("base options", "logger", loggerCfg)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdNormalize(),
			cmdTool(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to run app"))
		return err
	}

	return nil
}
