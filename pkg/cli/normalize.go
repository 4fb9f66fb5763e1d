package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type normalizeInput struct {
	status  string
	message string
	details string
	cause   string
}

// build picks the input form: a lone numeric status is the status shorthand,
// a lone message is the message shorthand, anything else is structured.
func (x normalizeInput) build(cmd *cli.Command) (failure.Input, error) {
	hasStatus := cmd.IsSet("status")
	hasMessage := cmd.IsSet("message")

	if hasStatus && !hasMessage && x.details == "" && x.cause == "" {
		if n, err := strconv.Atoi(x.status); err == nil {
			return failure.StatusCode(n), nil
		}
	}
	if hasMessage && !hasStatus && x.details == "" && x.cause == "" {
		return failure.Message(x.message), nil
	}

	s := &failure.Structured{}
	if hasStatus {
		s.Status = failure.StatusText(x.status)
	}
	if hasMessage {
		s.Message = x.message
	}
	if x.details != "" {
		var details any
		if err := json.Unmarshal([]byte(x.details), &details); err != nil {
			return nil, goerr.Wrap(err, "details must be JSON",
				goerr.T(apperr.ErrTagInvalidInput),
				goerr.V(apperr.DetailsKey, x.details),
			)
		}
		s.Details = details
	}
	if x.cause != "" {
		s.Cause = goerr.New(x.cause)
	}
	return s, nil
}

func cmdNormalize() *cli.Command {
	var (
		input normalizeInput
		req   failure.Request
	)

	return &cli.Command{
		Name:    "normalize",
		Aliases: []string{"n"},
		Usage:   "Print the response and log line produced for an error",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "Status code, or status text for a structured error",
				Destination: &input.status,
			},
			&cli.StringFlag{
				Name:        "message",
				Usage:       "Error message",
				Destination: &input.message,
			},
			&cli.StringFlag{
				Name:        "details",
				Usage:       "Details as JSON",
				Destination: &input.details,
			},
			&cli.StringFlag{
				Name:        "cause",
				Usage:       "Message of the error that caused this one",
				Destination: &input.cause,
			},
			&cli.StringFlag{
				Name:        "method",
				Category:    "request",
				Value:       "GET",
				Destination: &req.Method,
			},
			&cli.StringFlag{
				Name:        "url",
				Category:    "request",
				Value:       "/",
				Destination: &req.URL,
			},
			&cli.StringFlag{
				Name:        "id",
				Category:    "request",
				Usage:       "Request id",
				Destination: &req.ID,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			in, err := input.build(cmd)
			if err != nil {
				return err
			}

			resp := failure.Normalize(in, req)
			body, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal response")
			}

			w := cmd.Root().Writer
			if _, err := fmt.Fprintf(w, "%s\n%s\n", body, failure.FormatLine(req, resp, in)); err != nil {
				return goerr.Wrap(err, "failed to write output")
			}
			return nil
		},
	}
}
