package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/nao1215/reportdeck/internal/model"
)

// defaultWordWrap is the wrap width of GlamourWriter.
const defaultWordWrap = 80

// GlamourWriter renders the Markdown output for the terminal.
// The mermaid chart is left out because terminals cannot draw it.
type GlamourWriter struct {
	baseWriter

	// wordWrap is the column at which glamour wraps text.
	wordWrap int
}

// GlamourWriterOption configures a GlamourWriter.
type GlamourWriterOption func(*GlamourWriter)

// WithWordWrap sets the wrap width.
func WithWordWrap(width int) GlamourWriterOption {
	return func(w *GlamourWriter) {
		if width > 0 {
			w.wordWrap = width
		}
	}
}

// NewGlamourWriter creates a GlamourWriter that outputs to the given writer.
func NewGlamourWriter(output io.Writer, opts ...GlamourWriterOption) *GlamourWriter {
	w := &GlamourWriter{
		baseWriter: newBaseWriter(output),
		wordWrap:   defaultWordWrap,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the view as styled terminal Markdown.
func (w *GlamourWriter) Write(v *View) (int, error) {
	var md bytes.Buffer
	if _, err := NewMarkdownWriter(&md, WithSourceChart(false)).Write(v); err != nil {
		return 0, err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(glamourStyle(v.Theme)),
		glamour.WithWordWrap(w.wordWrap),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(md.String())
	if err != nil {
		return 0, fmt.Errorf("failed to render markdown: %w", err)
	}
	return io.WriteString(w.output, out)
}

// glamourStyle maps a theme onto a glamour standard style.
func glamourStyle(theme model.Theme) string {
	if theme == model.ThemeDark {
		return "dark"
	}
	return "light"
}
