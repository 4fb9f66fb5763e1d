package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/gt"
)

func runNormalize(t *testing.T, args ...string) (failure.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	cmd := cmdNormalize()
	cmd.Writer = &buf
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"normalize"}, args...))).Required()

	dec := json.NewDecoder(&buf)
	var resp failure.Response
	gt.NoError(t, dec.Decode(&resp)).Required()

	rest, err := io.ReadAll(io.MultiReader(dec.Buffered(), &buf))
	gt.NoError(t, err).Required()
	return resp, strings.TrimSpace(string(rest))
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		status  int
		message string
		line    string
	}{
		{
			name:    "status shorthand",
			args:    []string{"--status", "404"},
			status:  404,
			message: "Not Found",
			line:    "GET / (404) - Not Found",
		},
		{
			name:    "message shorthand",
			args:    []string{"--message", "Uh-oh", "--method", "POST", "--url", "/x"},
			status:  500,
			message: "Uh-oh",
			line:    "POST /x (500) - Uh-oh",
		},
		{
			name:    "structured with status text",
			args:    []string{"--status", "429", "--message", "Slow down", "--id", "abc"},
			status:  429,
			message: "Slow down",
			line:    "abc - GET / (429) - Slow down",
		},
		{
			name:    "non numeric status",
			args:    []string{"--status", "abc"},
			status:  500,
			message: "Internal Server Error",
			line:    "GET / (500) - Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, line := runNormalize(t, tc.args...)
			gt.Equal(t, resp.Status, tc.status)
			gt.Equal(t, resp.Message, tc.message)
			gt.Equal(t, line, tc.line)
		})
	}
}

func TestNormalize_Details(t *testing.T) {
	resp, line := runNormalize(t, "--status", "400", "--details", `{"field":"name"}`)
	gt.Equal(t, resp.Details, any(map[string]any{"field": "name"}))
	gt.S(t, line).Contains(`>>> {"field":"name"}`)
}

func TestNormalize_InvalidDetails(t *testing.T) {
	cmd := cmdNormalize()
	cmd.Writer = &bytes.Buffer{}
	gt.Error(t, cmd.Run(context.Background(), []string{"normalize", "--details", "{"}))
}
