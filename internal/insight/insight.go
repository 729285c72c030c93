// Package insight formats the precomputed scalar metrics of a report into
// the highlighted stat blocks shown next to the overall chart.
package insight

import (
	"strconv"

	"onepager/internal/report"
)

// Highlight colours keyed on the sign of a gain.
const (
	Positive   = "#27AE60"
	Neutral    = "#2C3E50"
	Respondent = "#3FA9F5"
)

// OverallGain renders the overall gain as supplied. A leading "+" is never
// added.
func OverallGain(v float64) string {
	return percent(v)
}

// QuestionGain renders a per-question gain, prefixed with "+" when strictly
// positive.
func QuestionGain(v float64) string {
	if v > 0 {
		return "+" + percent(v)
	}
	return percent(v)
}

// GainColor returns Positive for a gain above zero and Neutral otherwise.
// Exactly zero is non-positive.
func GainColor(v float64) string {
	if v > 0 {
		return Positive
	}
	return Neutral
}

// Respondents renders the respondent count as a plain integer.
func Respondents(n int) string {
	return strconv.Itoa(n)
}

func percent(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Stat is one highlighted figure with its caption.
type Stat struct {
	Value   string `json:"value"`
	Caption string `json:"caption"`
	Color   string `json:"color"`
}

// Panel is the content of the key-insights panel. Narrative is plain text;
// renderers must escape it.
type Panel struct {
	Heading     string `json:"heading"`
	Gain        Stat   `json:"gain"`
	Respondents Stat   `json:"respondents"`
	Narrative   string `json:"narrative"`
}

// Build assembles the insights panel for r.
func Build(r *report.EvaluationReport) Panel {
	return Panel{
		Heading: "Key Insights",
		Gain: Stat{
			Value:   OverallGain(r.Overall.GainPct),
			Caption: "Overall Improvement",
			Color:   GainColor(r.Overall.GainPct),
		},
		Respondents: Stat{
			Value:   Respondents(r.Respondents),
			Caption: "Respondents",
			Color:   Respondent,
		},
		Narrative: r.Narrative,
	}
}
