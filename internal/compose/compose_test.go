package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onepager/internal/chart"
	"onepager/internal/insight"
	"onepager/internal/layout"
	"onepager/internal/report"
)

func TestBuildSample(t *testing.T) {
	doc, err := Build(report.Sample(), DefaultBranding())
	require.NoError(t, err)

	assert.Equal(t, report.DefaultTitle, doc.Title)
	assert.Equal(t, "14.5%", doc.Insights.Gain.Value)
	assert.Equal(t, "9", doc.Insights.Respondents.Value)

	require.Len(t, doc.Panels, 5)
	var ids, gains []string
	for _, p := range doc.Panels {
		ids = append(ids, p.ID)
		gains = append(gains, p.Gain)
	}
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, ids)
	assert.Equal(t, []string{"0%", "+29.2%", "+29.2%", "+3.6%", "+13.3%"}, gains)
	assert.Equal(t, insight.Neutral, doc.Panels[0].GainColor)
	assert.Equal(t, insight.Positive, doc.Panels[1].GainColor)

	assert.Equal(t, chart.OverallStyle.Accent, doc.Overall.Style.Accent)
	assert.Equal(t, chart.QuestionStyle.Accent, doc.Panels[0].Chart.Style.Accent)
	assert.Equal(t, "2.9", doc.Overall.ValueLabels[0].Text)
	assert.Equal(t, "3.3", doc.Overall.ValueLabels[1].Text)
	assert.True(t, doc.Page.Fits())
}

func TestBuildChartsSitInsideTheirCells(t *testing.T) {
	doc, err := Build(report.Sample(), DefaultBranding())
	require.NoError(t, err)

	for _, p := range doc.Panels {
		assert.Equal(t, p.Cell.Chart, p.Chart.Frame)
		assert.GreaterOrEqual(t, p.Chart.Frame.Y, p.Cell.Y)
		assert.LessOrEqual(t, p.Chart.Frame.Bottom(), p.Cell.Bottom())
	}
	assert.Equal(t, doc.Page.OverallChart, doc.Overall.Frame)
}

func TestBuildOverflow(t *testing.T) {
	r := report.Sample()
	for i := 6; i <= 12; i++ {
		r.Questions = append(r.Questions, report.CompetencyQuestion{ID: fmt.Sprintf("Q%d", i), Pre: 3, Post: 3.5})
	}

	_, err := Build(r, DefaultBranding())
	require.Error(t, err)
	assert.True(t, errors.Is(err, layout.ErrPageOverflow))
}

func TestBuildCustomTitle(t *testing.T) {
	r := report.Sample()
	r.Title = "Cohort B"

	doc, err := Build(r, DefaultBranding())
	require.NoError(t, err)
	assert.Equal(t, "Cohort B", doc.Title)
}

func TestBuildNilReport(t *testing.T) {
	_, err := Build(nil, DefaultBranding())
	assert.Error(t, err)
}

func TestAttribution(t *testing.T) {
	b := DefaultBranding()
	assert.Equal(t, "Learnformance", b.Brand)
	assert.Equal(t, " - Turning your learning data into measurable impact", b.Attribution())
}
