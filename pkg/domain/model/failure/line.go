package failure

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatLine renders the log line of a failed request:
//
//	[id - ]METHOD URL (STATUS) - MESSAGE
//
// followed by one "\n  >>> " block per extra and, for error extras with a
// recorded stack, the stack indented on the next line. Extras are the
// original error (or, without one, the details) and then the cause.
func FormatLine(req Request, resp Response, in Input) string {
	var b strings.Builder
	if req.ID != "" {
		b.WriteString(req.ID)
		b.WriteString(" - ")
	}
	b.WriteString(req.Method)
	b.WriteByte(' ')
	b.WriteString(req.URL)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(resp.Status))
	b.WriteString(") - ")
	b.WriteString(resp.Message)

	s, ok := in.(*Structured)
	if !ok || s == nil {
		return b.String()
	}

	if s.Err != nil {
		writeExtra(&b, s.Err, s.Stack)
	} else if truthy(s.Details) {
		writeExtra(&b, s.Details, "")
	}
	if s.Cause != nil {
		writeExtra(&b, s.Cause, stackOf(s.Cause))
	}

	return b.String()
}

func writeExtra(b *strings.Builder, extra any, stack string) {
	if more := Inspect(extra); more != "{}" && more != "" {
		b.WriteString("\n  >>> ")
		b.WriteString(more)
	}
	if stack != "" {
		b.WriteString("\n  ")
		b.WriteString(stack)
	}
}

// Inspect renders an extra value for a log line. Errors render as their
// message, other values as compact JSON, or with %+v when they cannot be
// encoded.
func Inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case error:
		return x.Error()
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}
