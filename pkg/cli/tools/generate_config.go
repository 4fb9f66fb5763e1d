package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/errlog/pkg/cli/config"
	"github.com/m-mizutani/errlog/pkg/controller/http/errlog"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// CmdGenerateConfig returns the generate-config command
func CmdGenerateConfig() *cli.Command {
	return &cli.Command{
		Name:    "generate-config",
		Aliases: []string{"g"},
		Usage:   "Generate configuration file templates",
		Commands: []*cli.Command{
			cmdGenerate("status-names", "status_names.yaml",
				"Generate status names override template (--status-names)",
				config.GenerateStatusNamesFile),
			cmdGenerate("view", "error_view.html",
				"Generate HTML error view template (--error-view)",
				writeView),
		},
	}
}

func writeView(path string) error {
	if err := os.WriteFile(filepath.Clean(path), []byte(errlog.DefaultView), 0600); err != nil {
		return goerr.Wrap(err, "failed to write error view template",
			goerr.V(apperr.PathKey, path),
		)
	}
	return nil
}

func cmdGenerate(name, defaultPath, usage string, generate func(path string) error) *cli.Command {
	var (
		outputPath string
		force      bool
	)

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file path",
				Value:       defaultPath,
				Destination: &outputPath,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "Overwrite existing file",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// Check if file exists
			if _, err := os.Stat(outputPath); err == nil && !force {
				return goerr.New("file already exists, use --force to overwrite",
					goerr.V(apperr.PathKey, outputPath),
				)
			}

			if err := generate(outputPath); err != nil {
				return err
			}

			ctxlog.From(ctx).Info("template generated", "kind", name, "path", outputPath)
			fmt.Fprintf(cmd.Root().Writer, "✅ %s template generated: %s\n", name, outputPath)
			return nil
		},
	}
}
