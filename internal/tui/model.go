package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/reportdeck/internal/catalog"
	"github.com/nao1215/reportdeck/internal/filter"
	"github.com/nao1215/reportdeck/internal/i18n"
	"github.com/nao1215/reportdeck/internal/model"
	"github.com/nao1215/reportdeck/internal/render"
)

const (
	facetPaneWidth = 32
	chromeHeight   = 4
	reloadTimeout  = 30 * time.Second
)

// Catalog is what the browser reads from. app.Controller implements it.
type Catalog interface {
	Reload(ctx context.Context) (catalog.Snapshot, error)
	Snapshot() catalog.Snapshot
	ViewOf(snap catalog.Snapshot, spec model.FilterSpec, lang string, theme model.Theme) *render.View
}

// Preferences persists display choices. database.PrefsDB implements it.
type Preferences interface {
	SetTheme(ctx context.Context, theme model.Theme) error
	SetLanguage(ctx context.Context, lang string) (string, error)
}

// pane is the part of the screen that receives navigation keys.
type pane int

const (
	paneReports pane = iota
	paneFacets
)

// facetKind tells sources and categories apart in the facet list.
type facetKind int

const (
	kindSource facetKind = iota
	kindCategory
)

// facetRow is one line of the facet list.
type facetRow struct {
	kind     facetKind
	value    string
	count    int
	selected bool
}

// reloadedMsg carries the outcome of a reload command.
type reloadedMsg struct {
	err error
}

// Model is the bubbletea model of the browser.
type Model struct {
	catalog Catalog
	prefs   Preferences
	logger  *slog.Logger

	spec  model.FilterSpec
	lang  string
	theme model.Theme

	search   textinput.Model
	viewport viewport.Model
	focus    pane

	view         *render.View
	rows         []facetRow
	cursor       int
	showSources  bool
	status       string
	reloadActive bool
}

// Option configures a Model.
type Option func(*Model)

// WithPreferences persists theme and language changes.
func WithPreferences(p Preferences) Option {
	return func(m *Model) {
		m.prefs = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithSpec sets the initial filter.
func WithSpec(spec model.FilterSpec) Option {
	return func(m *Model) {
		m.spec = spec
	}
}

// New creates the browser model.
func New(c Catalog, lang string, theme model.Theme, opts ...Option) Model {
	search := textinput.New()
	search.CharLimit = 200
	search.Width = 40

	m := Model{
		catalog:  c,
		spec:     model.NewFilterSpec(),
		lang:     i18n.Resolve(lang),
		theme:    model.ParseTheme(theme.String()),
		search:   search,
		viewport: viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.search.SetValue(m.spec.Term)
	m.refresh()
	return m
}

// Init loads the catalog unless it is already loaded.
func (m Model) Init() tea.Cmd {
	if m.catalog.Snapshot().Ready() {
		return nil
	}
	return m.reload()
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case reloadedMsg:
		m.reloadActive = false
		if msg.err != nil {
			m.status = "reload failed"
		} else {
			m.status = fmt.Sprintf("loaded %d reports", len(m.catalog.Snapshot().Records))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateSearch handles keys while the search box has focus.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.spec.Term = strings.TrimSpace(m.search.Value())
		m.refresh()
		return m, nil
	case "esc":
		m.search.Blur()
		m.search.SetValue(m.spec.Term)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// updateKeys handles keys outside the search box.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.search.Placeholder = m.view.Labels.SearchPlaceholder
		cmd := m.search.Focus()
		return m, cmd

	case "w":
		m.spec.Window = m.spec.Window.Next()
		m.refresh()

	case "c":
		m.spec = model.NewFilterSpec()
		m.search.SetValue("")
		m.refresh()

	case "m":
		m.showSources = !m.showSources
		m.refresh()

	case "t":
		m.theme = m.theme.Toggle()
		m.persistTheme()
		m.refresh()

	case "l":
		m.lang = nextLanguage(m.lang)
		m.persistLanguage()
		m.refresh()

	case "r":
		if m.reloadActive {
			return m, nil
		}
		m.status = "reloading..."
		cmd := m.reload()
		return m, cmd

	case "tab":
		if m.focus == paneReports && len(m.rows) > 0 {
			m.focus = paneFacets
		} else {
			m.focus = paneReports
		}

	case "up", "k":
		if m.focus == paneFacets {
			if m.cursor > 0 {
				m.cursor--
			}
		} else {
			m.viewport.LineUp(1)
		}

	case "down", "j":
		if m.focus == paneFacets {
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		} else {
			m.viewport.LineDown(1)
		}

	case " ", "enter":
		if m.focus == paneFacets && m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.kind == kindSource {
				m.spec = m.spec.ToggleSource(row.value)
			} else {
				m.spec = m.spec.ToggleCategory(row.value)
			}
			m.refresh()
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// reload runs a catalog reload off the event loop.
func (m *Model) reload() tea.Cmd {
	m.reloadActive = true
	c := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		_, err := c.Reload(ctx)
		return reloadedMsg{err: err}
	}
}

// persistTheme stores the theme when preferences are attached.
func (m *Model) persistTheme() {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetTheme(context.Background(), m.theme); err != nil {
		m.logger.Warn("failed to save theme", "error", err)
		m.status = "theme not saved"
	}
}

// persistLanguage stores the language when preferences are attached.
func (m *Model) persistLanguage() {
	if m.prefs == nil {
		return
	}
	if _, err := m.prefs.SetLanguage(context.Background(), m.lang); err != nil {
		m.logger.Warn("failed to save language", "error", err)
		m.status = "language not saved"
	}
}

// setSize splits the terminal between the facet pane and the reports.
func (m *Model) setSize(width, height int) {
	m.viewport.Width = max(width-facetPaneWidth-1, 20)
	m.viewport.Height = max(height-chromeHeight, 3)
}

// refresh rebuilds the view, the facet rows and the viewport content.
func (m *Model) refresh() {
	snap := m.catalog.Snapshot()
	m.view = m.catalog.ViewOf(snap, m.spec, m.lang, m.theme)
	m.rows = m.facetRows(snap)
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	if len(m.rows) == 0 {
		m.focus = paneReports
	}

	var buf bytes.Buffer
	if _, err := render.NewTextWriter(&buf, render.WithFacets(false)).Write(m.view); err != nil {
		m.logger.Warn("failed to render reports", "error", err)
	}
	m.viewport.SetContent(buf.String())
	m.viewport.GotoTop()
}

// facetRows lists the sources then the categories of the view. With
// showSources set the source list is not capped.
func (m *Model) facetRows(snap catalog.Snapshot) []facetRow {
	if m.view.Error != nil {
		return nil
	}

	var rows []facetRow
	if m.showSources {
		for _, f := range filter.ComputeFacets(snap.Records).Sources {
			rows = append(rows, facetRow{kind: kindSource, value: f.Value, count: f.Count, selected: m.spec.HasSource(f.Value)})
		}
	} else {
		for _, item := range m.view.Sources {
			rows = append(rows, facetRow{kind: kindSource, value: item.Value, count: item.Count, selected: item.Selected})
		}
	}
	for _, item := range m.view.Categories {
		rows = append(rows, facetRow{kind: kindCategory, value: item.Value, count: item.Count, selected: item.Selected})
	}
	return rows
}

// View renders the screen.
func (m Model) View() string {
	styles := render.NewStyles(m.theme)

	var header strings.Builder
	header.WriteString(styles.Title.Render(fmt.Sprintf("%s %d/%d", m.view.Labels.Reports, m.view.Count, m.view.Total)))
	header.WriteString("  ")
	header.WriteString(m.search.View())
	header.WriteString("\n")
	header.WriteString(styles.Muted.Render(m.chromeLine()))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(facetPaneWidth).Render(m.facetPane(styles)),
		" ",
		m.viewport.View(),
	)

	footer := styles.Muted.Render("/ search  w window  tab facets  space toggle  m sources  c clear  t theme  l language  r reload  q quit")
	if m.status != "" {
		footer = styles.Muted.Render(m.status) + "\n" + footer
	}

	return header.String() + "\n" + body + "\n" + footer
}

// chromeLine shows the active window, language and theme.
func (m Model) chromeLine() string {
	window := ""
	for _, opt := range m.view.Windows {
		if opt.Active {
			window = opt.Label
		}
	}
	if window == "" {
		window = m.spec.Window.String()
	}
	return fmt.Sprintf("🕒 %s   %s %s   %s", window, i18n.Flag(m.lang), m.lang, m.theme)
}

// facetPane lists the facet rows with the cursor.
func (m Model) facetPane(styles render.Styles) string {
	var sb strings.Builder
	lastKind := facetKind(-1)
	for i, row := range m.rows {
		if row.kind != lastKind {
			title := m.view.Labels.Source
			if row.kind == kindCategory {
				title = m.view.Labels.Categories
			}
			sb.WriteString(styles.Heading.Render(title))
			sb.WriteString("\n")
			lastKind = row.kind
		}

		pointer := "  "
		if m.focus == paneFacets && i == m.cursor {
			pointer = "> "
		}
		mark, style := "[ ]", styles.Body
		if row.selected {
			mark, style = "[x]", styles.Selected
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n", pointer, mark, style.Render(row.value), styles.Muted.Render(fmt.Sprintf("(%d)", row.count))))

		if row.kind == kindSource && !m.showSources && m.view.HiddenSources > 0 &&
			(i+1 == len(m.rows) || m.rows[i+1].kind != kindSource) {
			sb.WriteString(styles.Muted.Render(fmt.Sprintf("  %s (+%d)", m.view.Labels.ShowMore, m.view.HiddenSources)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Spec returns the active filter.
func (m Model) Spec() model.FilterSpec {
	return m.spec
}

// Language returns the active language.
func (m Model) Language() string {
	return m.lang
}

// Theme returns the active theme.
func (m Model) Theme() model.Theme {
	return m.theme
}

// nextLanguage returns the supported language after lang, wrapping around.
func nextLanguage(lang string) string {
	langs := i18n.Languages()
	for i, l := range langs {
		if l == lang {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

// Run starts the browser on the terminal and blocks until it quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal browser failed: %w", err)
	}
	return nil
}
