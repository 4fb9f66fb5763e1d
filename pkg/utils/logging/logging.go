package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/mattn/go-isatty"
)

// Format represents the logging output format
type Format int

const (
	// FormatAuto picks console output for terminals and JSON otherwise
	FormatAuto Format = iota
	FormatConsole
	FormatJSON
)

var formatNames = map[string]Format{
	"auto":    FormatAuto,
	"console": FormatConsole,
	"json":    FormatJSON,
}

// ParseFormat converts a format name to Format. Empty means auto.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	format, ok := formatNames[strings.ToLower(name)]
	if !ok {
		return FormatAuto, goerr.New("invalid log format",
			goerr.V("format", name),
			goerr.V("valid_formats", []string{"auto", "console", "json"}),
		)
	}
	return format, nil
}

// resolve replaces FormatAuto with the format suited to w
func (x Format) resolve(w io.Writer) Format {
	if x != FormatAuto {
		return x
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatConsole
	}
	return FormatJSON
}

// SetDefault sets the default logger, used by ctxlog when the context
// carries none
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// Quiet sets the logger to discard all output
func Quiet() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	SetDefault(logger)
	return logger
}

// New creates a new slog.Logger with the specified configuration
func New(w io.Writer, level slog.Level, format Format, stacktrace bool) *slog.Logger {
	// Configure masq filter for sensitive data
	filter := createMasqFilter()

	// Configure attribute hook based on stacktrace setting
	attrHook := clog.GoerrHook
	if !stacktrace {
		attrHook = goerrNoStacktrace
	}

	var handler slog.Handler
	switch format.resolve(w) {
	case FormatConsole:
		handler = createConsoleHandler(w, level, filter, attrHook)
	case FormatJSON:
		handler = createJSONHandler(w, level, filter)
	default:
		panic(fmt.Sprintf("unsupported log format: %d", format))
	}

	return slog.New(handler)
}

// createMasqFilter masks credentials that may travel inside error details
// or request headers attached to a failure
func createMasqFilter() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("password_"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("Cookie"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("ApiKey"),
		masq.WithFieldName("Secret"),
	)
}

// createConsoleHandler creates a console handler with colors
func createConsoleHandler(w io.Writer, level slog.Level, filter func([]string, slog.Attr) slog.Attr, attrHook func([]string, slog.Attr) *clog.HandleAttr) slog.Handler {
	return clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithReplaceAttr(filter),
		clog.WithAttrHook(attrHook),
		clog.WithColorMap(defaultColorMap()),
	)
}

// createJSONHandler creates a JSON handler
func createJSONHandler(w io.Writer, level slog.Level, filter func([]string, slog.Attr) slog.Attr) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: filter,
	})
}

// defaultColorMap returns the default color mapping for console output
func defaultColorMap() *clog.ColorMap {
	return &clog.ColorMap{
		Level: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgGreen, color.Bold),
			slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
			slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
		LevelDefault: color.New(color.FgBlue, color.Bold),
		Time:         color.New(color.FgWhite),
		Message:      color.New(color.FgHiWhite),
		AttrKey:      color.New(color.FgHiCyan),
		AttrValue:    color.New(color.FgHiWhite),
	}
}

// goerrNoStacktrace removes stacktrace from goerr errors for cleaner output
func goerrNoStacktrace(_ []string, attr slog.Attr) *clog.HandleAttr {
	goErr, ok := attr.Value.Any().(*goerr.Error)
	if !ok {
		return nil
	}

	// Extract error values without stacktrace
	var attrs []any
	for k, v := range goErr.Values() {
		attrs = append(attrs, slog.Any(k, v))
	}

	// Add the error message
	attrs = append(attrs, slog.String("message", goErr.Error()))

	// If there's a cause, add it
	if cause := goErr.Unwrap(); cause != nil {
		attrs = append(attrs, slog.Any("cause", cause))
	}

	newAttr := slog.Group(attr.Key, attrs...)
	return &clog.HandleAttr{
		NewAttr: &newAttr,
	}
}

// ErrAttr creates an error attribute for logging
func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

// ParseLevel converts a level name to slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, goerr.Wrap(err, "invalid log level",
			goerr.V("level", name),
			goerr.V("valid_levels", []string{"debug", "info", "warn", "error"}),
		)
	}
	return level, nil
}
