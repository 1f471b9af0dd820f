package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs the view in GitHub-flavored Markdown.
// Search hits are set in bold, the facet counts become tables and the
// source distribution is drawn as a mermaid pie chart.
type MarkdownWriter struct {
	baseWriter

	// chart enables the mermaid pie chart of sources.
	chart bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithSourceChart toggles the mermaid pie chart. It is on by default;
// terminal renderers that cannot draw mermaid turn it off.
func WithSourceChart(enabled bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.chart = enabled
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		chart:      true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the view in Markdown format.
func (w *MarkdownWriter) Write(v *View) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, v)

	if v.Error != nil {
		md.Cautionf("%s: %s", v.Error.Title, v.Error.Message)
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	w.writeFacets(md, v)
	w.writeCards(md, v)

	return len(md.String()), md.Build()
}

// writeHeader writes the title line with the result count.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, v *View) {
	md.H1(v.Labels.Reports + " (" + strconv.Itoa(v.Count) + ")")
	md.PlainText("")

	if v.LastUpdated != "" {
		md.PlainText(markdown.Bold(v.Labels.LastUpdate) + ": " + v.LastUpdated)
		md.PlainText("")
	}
	if v.Term != "" {
		md.PlainText("🔍 " + markdown.Code(v.Term))
		md.PlainText("")
	}
}

// writeFacets writes the source and category tables.
func (w *MarkdownWriter) writeFacets(md *markdown.Markdown, v *View) {
	md.H2(v.Labels.Filters)
	md.PlainText("")

	if len(v.Sources) > 0 {
		md.Table(markdown.TableSet{
			Header: []string{v.Labels.Source, "#"},
			Rows:   facetRows(v.Sources),
		})
		md.PlainText("")

		if v.HiddenSources > 0 {
			md.PlainText(markdown.Italic(v.Labels.ShowMore + " (+" + strconv.Itoa(v.HiddenSources) + ")"))
			md.PlainText("")
		}

		if w.chart {
			w.writeSourceChart(md, v)
		}
	}

	if len(v.Categories) > 0 {
		md.Table(markdown.TableSet{
			Header: []string{v.Labels.Categories, "#"},
			Rows:   facetRows(v.Categories),
		})
		md.PlainText("")
	}
}

// writeSourceChart writes a mermaid pie chart of the visible source facets.
func (w *MarkdownWriter) writeSourceChart(md *markdown.Markdown, v *View) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(v.Labels.Source),
		piechart.WithShowData(true),
	)
	for _, s := range v.Sources {
		chart.LabelAndIntValue(s.Value, uint64(s.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeCards writes one section per report, or the empty state.
func (w *MarkdownWriter) writeCards(md *markdown.Markdown, v *View) {
	md.HorizontalRule()
	md.PlainText("")

	if v.Empty != nil {
		md.Note(v.Empty.Title + ". " + v.Empty.Message)
		md.PlainText("")
		return
	}

	for _, c := range v.Cards {
		md.H3("🛡️ " + markdownText(c.Title))
		md.PlainText("")

		meta := []string{
			v.Labels.SourceLabel + " " + c.Source,
			"🕒 " + c.Date + " (" + c.DateISO + ")",
		}
		if !c.CVE.IsEmpty() {
			meta = append(meta, markdownCode(c.CVE))
		}
		md.BulletList(meta...)
		md.PlainText("")

		if !c.Description.IsEmpty() {
			md.PlainText(markdownText(c.Description))
			md.PlainText("")
		}

		if len(c.Tags) > 0 {
			tags := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				tags[i] = markdownCode(t.Value)
			}
			md.PlainText(strings.Join(tags, " "))
			md.PlainText("")
		}

		if c.URL != "" {
			md.PlainText(markdown.Link(v.Labels.ViewFullReport, c.URL))
			md.PlainText("")
		}
	}
}

// markdownCode renders t as a code span, or as markdownText when it holds a
// search hit since code spans cannot carry emphasis.
func markdownCode(t Text) string {
	if t.HasMatch() {
		return markdownText(t)
	}
	return markdown.Code(t.String())
}

// markdownText renders segments with search hits in bold.
func markdownText(t Text) string {
	var sb strings.Builder
	for _, s := range t {
		if s.Match {
			sb.WriteString(markdown.Bold(s.Text))
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func facetRows(items []FacetItem) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		value := strings.ReplaceAll(item.Value, "|", `\|`)
		if item.Selected {
			value = "✅ " + markdown.Bold(value)
		}
		rows[i] = []string{value, strconv.Itoa(item.Count)}
	}
	return rows
}
