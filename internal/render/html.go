package render

import (
	"bytes"
	"embed"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/nao1215/reportdeck/internal/model"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

// pageTemplate is parsed once; writers share it.
var pageTemplate = template.Must(
	template.New("page.html.tmpl").
		Funcs(template.FuncMap{
			"segments": segmentsHTML,
			"toggle":   func(t model.Theme) string { return t.Toggle().String() },
		}).
		ParseFS(templateFS, "templates/page.html.tmpl"),
)

// HTMLWriter outputs the view as a complete HTML page.
// The page is a single GET form, so every control (search box, facet
// checkboxes, window, language and theme buttons) round-trips through
// query parameters and works without JavaScript.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the view as an HTML page.
func (w *HTMLWriter) Write(v *View) (int, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// segmentsHTML escapes each segment and wraps search hits in <mark>.
func segmentsHTML(t Text) template.HTML {
	var sb strings.Builder
	for _, s := range t {
		if s.Match {
			sb.WriteString("<mark>")
			sb.WriteString(html.EscapeString(s.Text))
			sb.WriteString("</mark>")
			continue
		}
		sb.WriteString(html.EscapeString(s.Text))
	}
	return template.HTML(sb.String()) //nolint:gosec // every segment is escaped above
}
