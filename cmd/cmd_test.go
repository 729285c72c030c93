package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onepager/internal/config"
	"onepager/internal/loader"
	"onepager/internal/report"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestSummaryMarkdown(t *testing.T) {
	md := summaryMarkdown(report.Sample())

	assert.Contains(t, md, "# Level 2 – Learning Outcomes")
	assert.Contains(t, md, "**Overall:** 2.9 → 3.3 (14.5%)")
	assert.Contains(t, md, "**Respondents:** 9")
	assert.Contains(t, md, "| Formulating effective GenAI prompts | 2.8 | 2.8 | 0% |")
	assert.Contains(t, md, "| Knowing which GenAI tools to use when | 2.7 | 3.4 | +29.2% |")
	// header plus one row per question
	assert.Equal(t, 6, strings.Count(md, "\n| "))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\*bold\* \| \<b\> \_x\_`, escapeMarkdown("*bold* | <b> _x_"))
	assert.Equal(t, "two lines", escapeMarkdown("two\nlines"))
}

func TestBuildSeriesOutput(t *testing.T) {
	out := buildSeriesOutput(report.Sample())

	assert.Equal(t, report.DefaultTitle, out.Title)
	assert.Equal(t, 9, out.Respondents)
	require.Len(t, out.Questions, 5)
	assert.Equal(t, 2.9, out.Overall.Points[0].Value)
	assert.Equal(t, "Q5", out.Questions[4].ID)
}

func TestRunCheck(t *testing.T) {
	withConfig(t, config.Default())
	checkTolerance = 1.0

	out, err := runCheck(context.Background(), report.Sample(), false)
	require.NoError(t, err)
	assert.True(t, out.Fits)
	assert.Equal(t, 5, out.Questions)
	assert.Equal(t, 9, out.Capacity)
	assert.Less(t, out.ContentBottom, out.FooterTop)
	assert.Len(t, out.Discrepancies, 3)
	assert.Nil(t, out.Measured)

	big := report.Sample()
	for i := 6; i <= 12; i++ {
		big.Questions = append(big.Questions, report.CompetencyQuestion{ID: fmt.Sprintf("Q%d", i), Pre: 2, Post: 2})
	}
	out, err = runCheck(context.Background(), big, true)
	require.NoError(t, err)
	assert.False(t, out.Fits)
	assert.Greater(t, out.ContentBottom, out.FooterTop)
}

func TestLoadReportFailureUsesFixedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := config.Default()
	c.Source = config.SourceConfig{Kind: config.SourceHTTP, URL: srv.URL}
	withConfig(t, c)

	res, err := loadReport(context.Background())
	require.Error(t, err)
	assert.Equal(t, loader.ErrorMessage, err.Error())
	assert.Equal(t, loader.Error, res.State)
	assert.Equal(t, "Could not load evaluation data.", errorText(err, "Failed to load evaluation data"))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, loader.ErrorMessage, errorText(errLoadFailed, "Failed to render report"))
	assert.Equal(t, "Error: Failed to render report: unknown format \"docx\"",
		errorText(fmt.Errorf("unknown format %q", "docx"), "Failed to render report"))
}

func TestLoadReportStatic(t *testing.T) {
	withConfig(t, config.Default())

	res, err := loadReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, loader.Ready, res.State)
	assert.Len(t, res.Report.Questions, 5)
}

func TestExporterFor(t *testing.T) {
	ex, err := exporterFor(config.EngineNative)
	require.NoError(t, err)
	assert.Nil(t, ex.Chrome)

	ex, err = exporterFor(config.EngineChrome)
	require.NoError(t, err)
	assert.NotNil(t, ex.Chrome)

	_, err = exporterFor("latex")
	assert.Error(t, err)
}

func TestRunRenderWritesFile(t *testing.T) {
	c := config.Default()
	c.Output.Dir = t.TempDir()
	withConfig(t, c)
	renderFormat, renderOut, renderEngine = "html", "", ""

	path, err := runRender(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Output.Dir, "onepager.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Performance by Competency")
}

func TestRunRenderRejectsUnknownFormat(t *testing.T) {
	withConfig(t, config.Default())
	renderFormat = "docx"
	defer func() { renderFormat = "pdf" }()

	_, err := runRender(context.Background())
	assert.Error(t, err)
}
