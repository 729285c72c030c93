// Package compose runs the one-way rendering pipeline: report to series,
// series to charts and insights, everything onto the page layout.
package compose

import (
	"errors"
	"fmt"

	"onepager/internal/chart"
	"onepager/internal/insight"
	"onepager/internal/layout"
	"onepager/internal/report"
	"onepager/internal/series"
)

// Heading sits above the per-question grid.
const Heading = "Performance by Competency"

// Branding is the fixed header and footer furniture.
type Branding struct {
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Brand    string `yaml:"brand" json:"brand"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	LogoPath string `yaml:"logo" json:"logo,omitempty"`
	// Logo holds the loaded image bytes; renderers skip the logo when empty.
	Logo []byte `yaml:"-" json:"-"`
}

// DefaultBranding returns the house branding.
func DefaultBranding() Branding {
	return Branding{
		Subtitle: "GenAI Skills Training Evaluation",
		Brand:    "Learnformance",
		Tagline:  "Turning your learning data into measurable impact",
	}
}

// Attribution is the footer line after the brand name.
func (b Branding) Attribution() string {
	return " - " + b.Tagline
}

// Panel is one per-question cell, ready to draw.
type Panel struct {
	ID        string
	Label     string
	Gain      string
	GainColor string
	Cell      layout.Cell
	Chart     chart.Chart
}

// Document is everything an output renderer needs for one page.
type Document struct {
	Title    string
	Branding Branding
	Page     layout.Page

	OverallHeading string
	Overall        chart.Chart
	Insights       insight.Panel

	Heading string
	Panels  []Panel

	Series    series.Overall
	Questions []series.Question
}

// Build composes r onto a single A4 page. It fails with
// layout.ErrPageOverflow when r has more questions than one page holds.
func Build(r *report.EvaluationReport, b Branding) (*Document, error) {
	if r == nil {
		return nil, errors.New("compose: no report")
	}

	overall, questions := series.Build(r)

	page, err := layout.Compose(len(questions), layout.A4)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", r, err)
	}

	doc := &Document{
		Title:          r.DisplayTitle(),
		Branding:       b,
		Page:           page,
		OverallHeading: "Overall Performance",
		Overall:        chart.Layout(overall.Points, page.OverallChart, chart.OverallStyle),
		Insights:       insight.Build(r),
		Heading:        Heading,
		Series:         overall,
		Questions:      questions,
	}
	for i, q := range questions {
		cell := page.Cells[i]
		doc.Panels = append(doc.Panels, Panel{
			ID:        q.ID,
			Label:     q.Label,
			Gain:      insight.QuestionGain(q.GainPct),
			GainColor: insight.GainColor(q.GainPct),
			Cell:      cell,
			Chart:     chart.Layout(q.Points, cell.Chart, chart.QuestionStyle),
		})
	}
	return doc, nil
}
