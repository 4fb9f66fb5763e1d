package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/errlog/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name  string
		level slog.Level
	}{
		{name: "debug", level: slog.LevelDebug},
		{name: "info", level: slog.LevelInfo},
		{name: "WARN", level: slog.LevelWarn},
		{name: "error", level: slog.LevelError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level, err := logging.ParseLevel(tc.name)
			gt.NoError(t, err)
			gt.Equal(t, level, tc.level)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := logging.ParseLevel("verbose")
		gt.Error(t, err)
	})
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false)

	logger.Debug("hidden")
	logger.Error("GET / (500) - Internal Server Error", "status", 500)

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	gt.Equal(t, record["msg"], any("GET / (500) - Internal Server Error"))
	gt.Equal(t, record["status"], any(float64(500)))
	gt.Equal(t, record["level"], any("ERROR"))
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		name   string
		format logging.Format
	}{
		{name: "", format: logging.FormatAuto},
		{name: "auto", format: logging.FormatAuto},
		{name: "Console", format: logging.FormatConsole},
		{name: "json", format: logging.FormatJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			format, err := logging.ParseFormat(tc.name)
			gt.NoError(t, err)
			gt.Equal(t, format, tc.format)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := logging.ParseFormat("xml")
		gt.Error(t, err)
	})
}

func TestNew_AutoIsJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, slog.LevelInfo, logging.FormatAuto, true).Info("hello")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Equal(t, record["msg"], any("hello"))
}
