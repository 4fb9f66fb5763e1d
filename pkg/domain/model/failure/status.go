package failure

import (
	"net/http"
	"strconv"
	"strings"
)

// Namer returns the canonical name of a status code, or "" if unknown.
type Namer func(code int) string

// DefaultNamer uses the names registered in net/http.
func DefaultNamer(code int) string {
	return http.StatusText(code)
}

// WithOverrides returns a Namer preferring names from overrides and falling
// back to base.
func WithOverrides(base Namer, overrides map[int]string) Namer {
	if base == nil {
		base = DefaultNamer
	}
	if len(overrides) == 0 {
		return base
	}

	names := make(map[int]string, len(overrides))
	for code, name := range overrides {
		names[code] = name
	}
	return func(code int) string {
		if name, ok := names[code]; ok && name != "" {
			return name
		}
		return base(code)
	}
}

const (
	minStatus = 100
	maxStatus = 599

	unknownError = "Unknown Error"
)

func validStatus(code int) bool {
	return code >= minStatus && code <= maxStatus
}

// parseStatus reads a leading integer the way a lenient parser does:
// surrounding whitespace and trailing garbage are ignored, so " 404 " and
// "404abc" both yield 404. A 0x prefix reads hex, so "0x190" is 400. ok is
// false when no digits lead the text.
func parseStatus(text string) (int, bool) {
	s := strings.TrimLeft(text, " \t\n\r\v\f")

	sign := ""
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit, s = 16, isHex, s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(sign+s[:end], base, 0)
	if err != nil {
		// overflow; any such value is out of range anyway
		return 0, false
	}
	return int(n), true
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
