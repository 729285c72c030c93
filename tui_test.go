package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"onepager/internal/compose"
	"onepager/internal/loader"
	"onepager/internal/report"
)

// loaded feeds the resolution of the model's own session back into it.
func loaded(t *testing.T, m model) model {
	t.Helper()
	res := resolved(m.source)
	newModel, _ := m.Update(loadedMsg{session: m.session, result: res.Snapshot()})
	return newModel.(model)
}

// TestInitialModel tests the initial model creation
func TestInitialModel(t *testing.T) {
	m := initialModel(loader.NewStaticSource(), compose.DefaultBranding())

	if m.result.State != loader.Loading {
		t.Errorf("Expected initial state to be loading, got %v", m.result.State)
	}

	if m.doc != nil {
		t.Error("Expected no document initially")
	}

	if m.Init() == nil {
		t.Error("Expected Init to start the load")
	}
}

// TestLoadingViewHasNoCharts tests the loading indicator
func TestLoadingViewHasNoCharts(t *testing.T) {
	m := initialModel(loader.NewStaticSource(), compose.DefaultBranding())
	view := m.View()

	if !strings.Contains(view, "Loading evaluation data") {
		t.Errorf("Expected loading indicator, got %q", view)
	}

	for _, s := range []string{"█", "Pre", "Performance by Competency"} {
		if strings.Contains(view, s) {
			t.Errorf("Expected no chart content while loading, found %q", s)
		}
	}
}

// TestReadyView tests the report after a successful load
func TestReadyView(t *testing.T) {
	m := loaded(t, initialModel(loader.NewStaticSource(), compose.DefaultBranding()))

	if m.result.State != loader.Ready {
		t.Fatalf("Expected ready state, got %v", m.result.State)
	}
	if m.doc == nil {
		t.Fatal("Expected a composed document")
	}

	view := m.View()
	for _, s := range []string{
		report.DefaultTitle,
		"Overall Performance",
		"14.5%",
		"Respondents",
		"Performance by Competency",
		"+29.2%",
		"Learnformance",
	} {
		if !strings.Contains(view, s) {
			t.Errorf("Expected view to contain %q", s)
		}
	}
}

// TestReadyViewKeepsQuestionOrder tests that question cards follow the dataset
func TestReadyViewKeepsQuestionOrder(t *testing.T) {
	m := loaded(t, initialModel(loader.NewStaticSource(), compose.DefaultBranding()))
	m.width = 40 // one card per row
	view := m.reportContent()

	last := -1
	for _, q := range report.Sample().Questions {
		// long labels wrap inside the card
		prefix := q.Label[:20]
		i := strings.Index(view, prefix)
		if i < 0 {
			t.Fatalf("Expected view to contain %q", prefix)
		}
		if i < last {
			t.Errorf("Expected %q after the previous question", q.Label)
		}
		last = i
	}
}

// TestErrorView tests that only the fixed message is shown
func TestErrorView(t *testing.T) {
	m := loaded(t, initialModel(failingSource{}, compose.DefaultBranding()))

	if m.result.State != loader.Error {
		t.Fatalf("Expected error state, got %v", m.result.State)
	}

	view := m.View()
	if !strings.Contains(view, "Could not load evaluation data.") {
		t.Errorf("Expected fixed error message, got %q", view)
	}
	if strings.Contains(view, "connection refused") {
		t.Error("Expected the error cause to stay out of the view")
	}
	if strings.Contains(view, "█") {
		t.Error("Expected no charts in the error view")
	}
}

// TestOverflowView tests a dataset that does not fit one page
func TestOverflowView(t *testing.T) {
	src := &loader.StaticSource{Report: MockReport(12)}
	m := loaded(t, initialModel(src, compose.DefaultBranding()))

	if m.err == nil {
		t.Fatal("Expected a layout error")
	}
	if !strings.Contains(m.View(), "cannot be laid out") {
		t.Errorf("Expected layout error in view, got %q", m.View())
	}
}

// TestStaleLoadIgnored tests that results from a replaced session are dropped
func TestStaleLoadIgnored(t *testing.T) {
	m := initialModel(loader.NewStaticSource(), compose.DefaultBranding())
	stale := resolved(failingSource{})

	newModel, _ := m.Update(loadedMsg{session: stale, result: stale.Snapshot()})
	m = newModel.(model)

	if m.result.State != loader.Loading {
		t.Errorf("Expected stale result to be ignored, got %v", m.result.State)
	}
}

// TestReloadKey tests that r starts a new load
func TestReloadKey(t *testing.T) {
	m := loaded(t, initialModel(loader.NewStaticSource(), compose.DefaultBranding()))
	old := m.session

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = newModel.(model)

	if m.session == old {
		t.Error("Expected a new session")
	}
	if m.result.State != loader.Loading || m.doc != nil {
		t.Error("Expected the model to return to loading")
	}
	if cmd == nil {
		t.Error("Expected a load command")
	}

	// a second r while loading is ignored
	again, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if again.(model).session != m.session {
		t.Error("Expected reload to be ignored while loading")
	}
}

// TestQuitKeys tests the quit bindings
func TestQuitKeys(t *testing.T) {
	m := initialModel(loader.NewStaticSource(), compose.DefaultBranding())

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("Expected a command for %q", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Expected %q to quit", key.String())
		}
	}
}

// TestWindowSizeHandling tests window size message handling
func TestWindowSizeHandling(t *testing.T) {
	m := loaded(t, initialModel(loader.NewStaticSource(), compose.DefaultBranding()))

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = newModel.(model)

	if m.width != 100 {
		t.Errorf("Expected width 100, got %d", m.width)
	}

	if m.height != 30 {
		t.Errorf("Expected height 30, got %d", m.height)
	}

	if !m.viewportReady {
		t.Error("Expected viewport to be ready after window size message")
	}

	if m.viewport.Height != 27 {
		t.Errorf("Expected viewport height 27, got %d", m.viewport.Height)
	}

	if !strings.Contains(m.View(), "Ctrl+Y") {
		t.Error("Expected help text in the ready view")
	}
}

// TestSummaryLine tests the clipboard text
func TestSummaryLine(t *testing.T) {
	doc, err := compose.Build(report.Sample(), compose.DefaultBranding())
	if err != nil {
		t.Fatal(err)
	}

	want := report.DefaultTitle + ": 14.5% overall improvement, 9 respondents"
	if got := summaryLine(doc); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
