package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/reportdeck/internal/model"
)

// ruleWidth is the width of the section rules.
const ruleWidth = 70

// Palette holds the colours of one theme.
type Palette struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Highlight  lipgloss.Color
	Error      lipgloss.Color
	Tags       map[string]lipgloss.Color
}

// LightPalette is used with model.ThemeLight.
func LightPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#1f2937"),
		Primary:    lipgloss.Color("#2563eb"),
		Muted:      lipgloss.Color("#6b7280"),
		Highlight:  lipgloss.Color("#fde68a"),
		Error:      lipgloss.Color("#dc2626"),
		Tags: map[string]lipgloss.Color{
			"tag-malware":       lipgloss.Color("#dc2626"),
			"tag-apt":           lipgloss.Color("#7c3aed"),
			"tag-ransomware":    lipgloss.Color("#ea580c"),
			"tag-phishing":      lipgloss.Color("#0891b2"),
			"tag-vulnerability": lipgloss.Color("#ca8a04"),
			"tag-default":       lipgloss.Color("#4b5563"),
		},
	}
}

// DarkPalette is used with model.ThemeDark.
func DarkPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#e5e7eb"),
		Primary:    lipgloss.Color("#60a5fa"),
		Muted:      lipgloss.Color("#9ca3af"),
		Highlight:  lipgloss.Color("#854d0e"),
		Error:      lipgloss.Color("#f87171"),
		Tags: map[string]lipgloss.Color{
			"tag-malware":       lipgloss.Color("#f87171"),
			"tag-apt":           lipgloss.Color("#a78bfa"),
			"tag-ransomware":    lipgloss.Color("#fb923c"),
			"tag-phishing":      lipgloss.Color("#22d3ee"),
			"tag-vulnerability": lipgloss.Color("#facc15"),
			"tag-default":       lipgloss.Color("#9ca3af"),
		},
	}
}

// PaletteFor returns the palette of theme.
func PaletteFor(theme model.Theme) Palette {
	if theme == model.ThemeDark {
		return DarkPalette()
	}
	return LightPalette()
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Title     lipgloss.Style
	Heading   lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Match     lipgloss.Style
	Badge     lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
	tagColors map[string]lipgloss.Color
}

// NewStyles builds the styles for theme.
func NewStyles(theme model.Theme) Styles {
	p := PaletteFor(theme)
	return Styles{
		Title:     lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Heading:   lipgloss.NewStyle().Foreground(p.Foreground).Bold(true),
		Body:      lipgloss.NewStyle().Foreground(p.Foreground),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Match:     lipgloss.NewStyle().Background(p.Highlight).Bold(true),
		Badge:     lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		tagColors: p.Tags,
	}
}

// Tag returns the style for a tag class.
func (s Styles) Tag(class string) lipgloss.Style {
	c, ok := s.tagColors[class]
	if !ok {
		c = s.tagColors["tag-default"]
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Text renders segments with matches highlighted on top of base.
func (s Styles) Text(t Text, base lipgloss.Style) string {
	var sb strings.Builder
	for _, seg := range t {
		if seg.Match {
			sb.WriteString(s.Match.Inherit(base).Render(seg.Text))
			continue
		}
		sb.WriteString(base.Render(seg.Text))
	}
	return sb.String()
}

// TextWriter outputs the view as coloured terminal text.
// Colours follow the view's theme; when the output is not a terminal
// lipgloss drops them and the layout stays readable as plain text.
type TextWriter struct {
	baseWriter

	// showFacets controls whether the facet lists are printed.
	showFacets bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithFacets controls whether the facet lists are printed.
func WithFacets(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showFacets = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		showFacets: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the view in terminal text format.
func (w *TextWriter) Write(v *View) (int, error) {
	var sb strings.Builder
	styles := NewStyles(v.Theme)

	w.writeHeader(&sb, v, styles)

	if v.Error != nil {
		sb.WriteString(styles.Error.Render("✖ " + v.Error.Title))
		sb.WriteString("\n")
		sb.WriteString(styles.Body.Render(v.Error.Message))
		sb.WriteString("\n")
		return w.output.Write([]byte(sb.String()))
	}

	if w.showFacets {
		w.writeFacets(&sb, v, styles)
	}
	w.writeCards(&sb, v, styles)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the title, count and active filters.
func (w *TextWriter) writeHeader(sb *strings.Builder, v *View, styles Styles) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s (%d/%d)", strings.ToUpper(v.Labels.Reports), v.Count, v.Total)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	if v.LastUpdated != "" {
		sb.WriteString(styles.Muted.Render(v.Labels.LastUpdate + ": " + v.LastUpdated))
		sb.WriteString("\n")
	}
	if v.Term != "" {
		sb.WriteString(styles.Muted.Render("🔍 " + v.Term))
		sb.WriteString("\n")
	}
	for _, opt := range v.Windows {
		if opt.Active {
			sb.WriteString(styles.Muted.Render("🕒 " + opt.Label))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

// writeFacets writes the source and category lists.
func (w *TextWriter) writeFacets(sb *strings.Builder, v *View, styles Styles) {
	writeList := func(title string, items []FacetItem) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(styles.Heading.Render(title))
		sb.WriteString("\n")
		for _, item := range items {
			mark, style := "[ ]", styles.Body
			if item.Selected {
				mark, style = "[x]", styles.Selected
			}
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", mark, style.Render(item.Value), styles.Muted.Render(fmt.Sprintf("(%d)", item.Count))))
		}
	}

	writeList(v.Labels.Source, v.Sources)
	if v.HiddenSources > 0 {
		sb.WriteString(styles.Muted.Render(fmt.Sprintf("  %s (+%d)", v.Labels.ShowMore, v.HiddenSources)))
		sb.WriteString("\n")
	}
	writeList(v.Labels.Categories, v.Categories)
	sb.WriteString("\n")
}

// writeCards writes each report card, or the empty state.
func (w *TextWriter) writeCards(sb *strings.Builder, v *View, styles Styles) {
	if v.Empty != nil {
		sb.WriteString(strings.Repeat("-", ruleWidth))
		sb.WriteString("\n")
		sb.WriteString(styles.Heading.Render(v.Empty.Title))
		sb.WriteString("\n")
		sb.WriteString(styles.Muted.Render(v.Empty.Message))
		sb.WriteString("\n")
		return
	}

	for _, c := range v.Cards {
		sb.WriteString(strings.Repeat("-", ruleWidth))
		sb.WriteString("\n")
		sb.WriteString(styles.Text(c.Title, styles.Title))
		sb.WriteString("\n")

		meta := v.Labels.SourceLabel + " " + c.Source + "  ·  " + c.Date
		sb.WriteString(styles.Muted.Render(meta))
		if !c.CVE.IsEmpty() {
			sb.WriteString("  ")
			sb.WriteString(styles.Text(c.CVE, styles.Badge))
		}
		sb.WriteString("\n")

		if !c.Description.IsEmpty() {
			sb.WriteString(styles.Text(c.Description, styles.Body))
			sb.WriteString("\n")
		}

		if len(c.Tags) > 0 {
			tags := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				tags[i] = "#" + styles.Text(t.Value, styles.Tag(t.Class))
			}
			sb.WriteString(strings.Join(tags, " "))
			sb.WriteString("\n")
		}

		if c.URL != "" {
			sb.WriteString(styles.Muted.Render("↗ " + v.Labels.ViewFullReport + ": " + c.URL))
			sb.WriteString("\n")
		}
	}
}
