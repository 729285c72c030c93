package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"onepager/internal/compose"
	"onepager/internal/config"
	"onepager/internal/loader"
)

const (
	defaultWidth = 100
	cardWidth    = 40
)

type model struct {
	source        loader.Source
	branding      compose.Branding
	session       *loader.Session
	spinner       spinner.Model
	viewport      viewport.Model
	result        loader.Result
	doc           *compose.Document
	err           error
	status        string
	width         int
	height        int
	viewportReady bool
}

// loadedMsg carries the resolution of one session. Results from a session
// that has since been replaced by a reload are dropped.
type loadedMsg struct {
	session *loader.Session
	result  loader.Result
}

func loadReport(s *loader.Session) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{session: s, result: s.Load(context.Background())}
	}
}

func initialModel(source loader.Source, branding compose.Branding) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(overallColor)

	vp := viewport.New(defaultWidth, 20)
	vp.Style = lipgloss.NewStyle()

	return model{
		source:   source,
		branding: branding,
		session:  loader.NewSession(source),
		spinner:  sp,
		viewport: vp,
		result:   loader.Result{State: loader.Loading},
		width:    defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadReport(m.session))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve 3 lines: scroll indicator, status and help text
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.viewportReady = true
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		if m.result.State != loader.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.result = msg.result
		m.doc, m.err = nil, nil
		switch msg.result.State {
		case loader.Ready:
			m.doc, m.err = compose.Build(msg.result.Report, m.branding)
			if m.err != nil {
				logger.Error("Failed to compose report", zap.Error(m.err))
			}
		case loader.Error:
			logger.Error("Failed to load evaluation data", zap.Error(msg.result.Err))
		}
		m.updateViewport()
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.MouseMsg:
		if m.doc != nil {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "r":
		if m.result.State == loader.Loading {
			return m, nil
		}
		m.session = loader.NewSession(m.source)
		m.result = loader.Result{State: loader.Loading}
		m.doc, m.err = nil, nil
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, loadReport(m.session))

	case "ctrl+y":
		if m.doc == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(summaryLine(m.doc)); err != nil {
			logger.Warn("Clipboard write failed", zap.Error(err))
			m.status = "Clipboard unavailable"
			return m, nil
		}
		m.status = "Copied summary to clipboard"
		return m, nil
	}

	if m.doc != nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// summaryLine is what ctrl+y copies.
func summaryLine(doc *compose.Document) string {
	return fmt.Sprintf("%s: %s %s, %s %s",
		doc.Title,
		doc.Insights.Gain.Value, strings.ToLower(doc.Insights.Gain.Caption),
		doc.Insights.Respondents.Value, strings.ToLower(doc.Insights.Respondents.Caption))
}

func (m *model) updateViewport() {
	if !m.viewportReady || m.doc == nil {
		return
	}
	m.viewport.SetContent(m.reportContent())
}

func (m model) View() string {
	switch {
	case m.result.State == loader.Loading:
		return m.loadingView()
	case m.result.State == loader.Error:
		return m.errorView(loader.ErrorMessage)
	case m.err != nil:
		return m.errorView(fmt.Sprintf("Report cannot be laid out: %v", m.err))
	}
	return m.readyView()
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
)

func (m model) loadingView() string {
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" Loading evaluation data…\n\n")
	b.WriteString(helpStyle.Render("q: Quit"))
	return b.String()
}

func (m model) errorView(message string) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(message))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r: Retry | q: Quit"))
	return b.String()
}

func (m model) readyView() string {
	if !m.viewportReady {
		return m.reportContent()
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Add scroll indicator if content is scrollable
	if m.viewport.TotalLineCount() > m.viewport.Height {
		b.WriteString(helpStyle.Render(fmt.Sprintf("─── %d%% ───", int(m.viewport.ScrollPercent()*100))))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render("✓ " + m.status))
		b.WriteString("  ")
	}
	b.WriteString(helpStyle.Render("↑/↓/PgUp/PgDn: Scroll | r: Reload | Ctrl+Y: Copy summary | q: Quit"))
	return b.String()
}

// reportContent renders the document in the same block order as the page:
// header, summary row, competency grid and footer.
func (m model) reportContent() string {
	doc := m.doc
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	var b strings.Builder

	// Header
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(doc.Title),
		helpStyle.Render(doc.Branding.Subtitle),
	)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, header))
	b.WriteString("\n")

	// Summary row
	overall := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(doc.OverallHeading),
		ScoreChart(doc.Series.Points, 30, overallColor),
	)
	insights := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(doc.Insights.Heading),
		InfoBox(doc.Insights.Gain.Caption, doc.Insights.Gain.Value, lipgloss.Color(doc.Insights.Gain.Color)),
		InfoBox(doc.Insights.Respondents.Caption, doc.Insights.Respondents.Value, lipgloss.Color(doc.Insights.Respondents.Color)),
		lipgloss.NewStyle().Italic(true).Width(36).Render(doc.Insights.Narrative),
	)
	if width >= 90 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, overall, "    ", insights))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, overall, insights))
	}
	b.WriteString("\n")

	// Competency grid, row-major in question order
	b.WriteString(headingStyle.Render(doc.Heading))
	b.WriteString("\n")
	cols := width / (cardWidth + 2)
	if cols < 1 {
		cols = 1
	}
	var row []string
	for i, p := range doc.Panels {
		row = append(row, QuestionCard(p.Label, doc.Questions[i].Points, p.Gain, lipgloss.Color(p.GainColor), cardWidth))
		if len(row) == cols || i == len(doc.Panels)-1 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
			row = nil
		}
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(overallColor).Render(doc.Branding.Brand))
	b.WriteString(helpStyle.Render(doc.Branding.Attribution()))
	b.WriteString("\n")
	return b.String()
}

func launchTUI(cfg *config.Config, source loader.Source) error {
	p := tea.NewProgram(
		initialModel(source, cfg.Branding),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI exited with error", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
