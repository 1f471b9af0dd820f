package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Writer lays out a View on its destination.
type Writer interface {
	// Write outputs the view. It returns the number of bytes written.
	Write(v *View) (int, error)
}

// Format names an output format.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatHTML}

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, markdown, json or html)", ErrUnknownFormat, s)
	}
}

// MultiWriter writes a view to several writers in order.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the view to every writer and returns the total byte count.
func (m *MultiWriter) Write(v *View) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for view writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// NewWriter returns the writer for format.
// pretty selects the terminal-rendered Markdown and indented JSON variants.
func NewWriter(format Format, output io.Writer, pretty bool) Writer {
	switch format {
	case FormatMarkdown:
		if pretty {
			return NewGlamourWriter(output)
		}
		return NewMarkdownWriter(output)
	case FormatJSON:
		if pretty {
			return NewJSONWriter(output, WithPrettyPrint())
		}
		return NewJSONWriter(output)
	case FormatHTML:
		return NewHTMLWriter(output)
	default:
		return NewTextWriter(output)
	}
}
