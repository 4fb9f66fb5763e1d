package errlog

import (
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/goerr/v2"
)

// Renderer writes the view of an error response.
type Renderer interface {
	Render(w io.Writer, resp failure.Response) error
}

// TemplateRenderer renders responses with an html/template. Sprig functions
// are available, e.g. {{ toPrettyJson .Details }}.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses text as the error view.
func NewTemplateRenderer(name, text string) (*TemplateRenderer, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse error view template",
			goerr.V("name", name),
		)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

func (x *TemplateRenderer) Render(w io.Writer, resp failure.Response) error {
	if err := x.tmpl.Execute(w, resp); err != nil {
		return goerr.Wrap(err, "failed to execute error view template",
			goerr.V("name", x.tmpl.Name()),
		)
	}
	return nil
}

// DefaultView is the template used in render mode when no renderer is given.
const DefaultView = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .Status }} {{ .Message }}</title></head>
<body>
<h1>{{ .Status }} {{ .Message }}</h1>
{{- if .RequestID }}
<p>Request ID: <code>{{ .RequestID }}</code></p>
{{- end }}
{{- if .Details }}
<pre>{{ toPrettyJson .Details }}</pre>
{{- end }}
</body>
</html>
`

func defaultRenderer() Renderer {
	r, err := NewTemplateRenderer("error", DefaultView)
	if err != nil {
		// the built-in view always parses
		panic(err)
	}
	return r
}
