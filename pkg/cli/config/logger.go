package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/errlog/pkg/utils/logging"
	"github.com/m-mizutani/errlog/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Logger holds the configuration for logging
type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Category:    "logging",
			Aliases:     []string{"l"},
			Sources:     cli.EnvVars("ERRLOG_LOG_LEVEL"),
			Usage:       "Set log level [debug|info|warn|error]",
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Category:    "logging",
			Aliases:     []string{"f"},
			Sources:     cli.EnvVars("ERRLOG_LOG_FORMAT"),
			Usage:       "Set log format [auto|console|json]",
			Value:       "auto",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Category:    "logging",
			Aliases:     []string{"o"},
			Sources:     cli.EnvVars("ERRLOG_LOG_OUTPUT"),
			Usage:       "Set log output (create file other than '-', 'stdout', 'stderr')",
			Value:       "stdout",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Category:    "logging",
			Aliases:     []string{"q"},
			Usage:       "Quiet mode (no log output)",
			Sources:     cli.EnvVars("ERRLOG_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Category:    "logging",
			Aliases:     []string{"s"},
			Usage:       "Show stacktrace (only for console format)",
			Sources:     cli.EnvVars("ERRLOG_LOG_STACKTRACE"),
			Destination: &x.stacktrace,
			Value:       true,
		},
	}
}

// LogValue returns the logger configuration as a slog.Value for logging
func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
		slog.Bool("quiet", x.quiet),
		slog.Bool("stacktrace", x.stacktrace),
	)
}

// Configure sets up logger and returns the configured logger. The returned
// function closes the log file, if one was opened.
func (x *Logger) Configure() (*slog.Logger, func(), error) {
	if x.quiet {
		return logging.Quiet(), func() {}, nil
	}

	level, err := logging.ParseLevel(x.level)
	if err != nil {
		return nil, func() {}, err
	}

	format, err := logging.ParseFormat(x.format)
	if err != nil {
		return nil, func() {}, err
	}

	output, closer, err := x.openOutput()
	if err != nil {
		return nil, func() {}, err
	}

	logger := logging.New(output, level, format, x.stacktrace)
	logging.SetDefault(logger)

	return logger, closer, nil
}

// openOutput opens the output writer based on configuration
func (x *Logger) openOutput() (io.Writer, func(), error) {
	switch strings.ToLower(x.output) {
	case "stdout", "-":
		return os.Stdout, func() {}, nil

	case "stderr":
		return os.Stderr, func() {}, nil

	default:
		// Open file for logging
		f, err := os.OpenFile(filepath.Clean(x.output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, func() {}, goerr.Wrap(err, "failed to open log file",
				goerr.V(apperr.PathKey, x.output),
			)
		}

		closer := func() {
			safe.Close(context.Background(), f)
		}

		return f, closer, nil
	}
}
