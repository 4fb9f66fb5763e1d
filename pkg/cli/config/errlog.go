package config

import (
	"context"
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/errlog/pkg/controller/http/errlog"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/errlog/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed templates/status_names.yaml
var statusNamesTemplate string

// ErrorLog holds the configuration of the error response handler
type ErrorLog struct {
	render      bool
	output      string
	view        string
	statusNames string
}

// Flags returns CLI flags for error handler configuration
func (x *ErrorLog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "error-render",
			Category:    "error",
			Sources:     cli.EnvVars("ERRLOG_ERROR_RENDER"),
			Usage:       "Send error responses as rendered HTML instead of JSON",
			Destination: &x.render,
		},
		&cli.StringFlag{
			Name:        "error-log",
			Category:    "error",
			Sources:     cli.EnvVars("ERRLOG_ERROR_LOG"),
			Usage:       "Where failed requests are logged [stderr|stdout|slog|none|<file path>]",
			Value:       "stderr",
			Destination: &x.output,
		},
		&cli.StringFlag{
			Name:        "error-view",
			Category:    "error",
			Sources:     cli.EnvVars("ERRLOG_ERROR_VIEW"),
			Usage:       "HTML template file used with --error-render",
			Destination: &x.view,
		},
		&cli.StringFlag{
			Name:        "status-names",
			Category:    "error",
			Sources:     cli.EnvVars("ERRLOG_STATUS_NAMES"),
			Usage:       "YAML file overriding status names, e.g. `404: Nothing Here`",
			Destination: &x.statusNames,
		},
	}
}

// LogValue returns the error handler configuration as a slog.Value for logging
func (x ErrorLog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("render", x.render),
		slog.String("output", x.output),
		slog.String("view", x.view),
		slog.String("status_names", x.statusNames),
	)
}

// Configure builds the error handler. The returned function closes the log
// file, if one was opened.
func (x *ErrorLog) Configure(ctx context.Context, opts ...errlog.Option) (*errlog.Handler, func(), error) {
	namer, err := x.namer()
	if err != nil {
		return nil, func() {}, err
	}
	opts = append(opts, errlog.WithNamer(namer), errlog.WithRender(x.render))

	if x.view != "" {
		data, err := os.ReadFile(filepath.Clean(x.view))
		if err != nil {
			return nil, func() {}, goerr.Wrap(err, "failed to read error view",
				goerr.V(apperr.PathKey, x.view),
			)
		}
		view, err := errlog.NewTemplateRenderer(filepath.Base(x.view), string(data))
		if err != nil {
			return nil, func() {}, err
		}
		opts = append(opts, errlog.WithRenderer(view))
	}

	logger, closer, err := x.openLogger(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	opts = append(opts, errlog.WithLogger(logger))

	h, err := errlog.New(opts...)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	return h, closer, nil
}

func (x *ErrorLog) openLogger(ctx context.Context) (any, func(), error) {
	switch strings.ToLower(x.output) {
	case "stderr", "":
		return os.Stderr, func() {}, nil

	case "stdout", "-":
		return os.Stdout, func() {}, nil

	case "slog":
		// nil logger: the one in the request context is used
		return errlog.NewSlogSink(nil), func() {}, nil

	case "none", "false":
		return false, func() {}, nil

	default:
		f, err := os.OpenFile(filepath.Clean(x.output), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, func() {}, goerr.Wrap(err, "failed to open error log file",
				goerr.V(apperr.PathKey, x.output),
			)
		}
		return f, func() { safe.Close(ctx, f) }, nil
	}
}

func (x *ErrorLog) namer() (failure.Namer, error) {
	if x.statusNames == "" {
		return failure.DefaultNamer, nil
	}

	data, err := os.ReadFile(filepath.Clean(x.statusNames))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read status names",
			goerr.V(apperr.PathKey, x.statusNames),
		)
	}

	names, err := ParseStatusNames(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load status names",
			goerr.V(apperr.PathKey, x.statusNames),
		)
	}
	return failure.WithOverrides(failure.DefaultNamer, names), nil
}

// ParseStatusNames reads a YAML mapping of status codes to names.
func ParseStatusNames(data []byte) (map[int]string, error) {
	var names map[int]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, goerr.Wrap(apperr.ErrInvalidStatusNames, "failed to parse YAML",
			goerr.V("yaml_error", err.Error()),
		)
	}

	for code, name := range names {
		if code < 100 || code > 599 {
			return nil, goerr.Wrap(apperr.ErrInvalidStatusNames, "status code out of range",
				goerr.V("code", code),
			)
		}
		if strings.TrimSpace(name) == "" {
			return nil, goerr.Wrap(apperr.ErrInvalidStatusNames, "empty status name",
				goerr.V("code", code),
			)
		}
	}
	return names, nil
}

// GenerateStatusNamesFile writes a status names template to path
func GenerateStatusNamesFile(path string) error {
	if err := os.WriteFile(filepath.Clean(path), []byte(statusNamesTemplate), 0600); err != nil {
		return goerr.Wrap(err, "failed to write status names template",
			goerr.V(apperr.PathKey, path),
		)
	}
	return nil
}
