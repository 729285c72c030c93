// Package report holds the evaluation dataset rendered onto the one-page
// summary, together with its JSON decoding and the compiled-in sample.
package report

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTitle is shown when a dataset carries no title of its own.
const DefaultTitle = "Level 2 – Learning Outcomes"

// ScaleMin and ScaleMax bound every score. The chart domain is fixed to this
// range; scores are never re-scaled to fit it.
const (
	ScaleMin = 0.0
	ScaleMax = 5.0
)

// Overall is the aggregate before/after comparison across all questions.
type Overall struct {
	AvgPre  float64 `json:"avg_pre"`
	AvgPost float64 `json:"avg_post"`
	GainPct float64 `json:"gain_pct"` // precomputed, signed
}

// CompetencyQuestion is one measured skill item with a before/after pair.
type CompetencyQuestion struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Pre     float64 `json:"pre"`
	Post    float64 `json:"post"`
	GainPct float64 `json:"gain_pct"`
}

// EvaluationReport is the root dataset. It is treated as read-only for the
// lifetime of a render; a reload replaces it wholesale.
type EvaluationReport struct {
	Title       string               `json:"title,omitempty"`
	Overall     Overall              `json:"overall"`
	Questions   []CompetencyQuestion `json:"questions"`
	Respondents int                  `json:"n_respondents"`
	Narrative   string               `json:"narrative"`
}

// DisplayTitle returns the title, falling back to DefaultTitle.
func (r *EvaluationReport) DisplayTitle() string {
	if strings.TrimSpace(r.Title) == "" {
		return DefaultTitle
	}
	return r.Title
}

// Discrepancy records a supplied gain that differs from (post-pre)/pre.
type Discrepancy struct {
	ID       string  `json:"id"`
	Supplied float64 `json:"supplied_gain_pct"`
	Derived  float64 `json:"derived_gain_pct"`
}

// Discrepancies compares each supplied gain percentage against the one
// implied by its pre/post pair. It is advisory: nothing in the rendering
// pipeline consults it, and supplied gains are always what gets displayed.
// Items with a zero pre score are skipped.
func (r *EvaluationReport) Discrepancies(tolerance float64) []Discrepancy {
	var out []Discrepancy
	check := func(id string, pre, post, supplied float64) {
		if pre == 0 {
			return
		}
		derived := (post - pre) / pre * 100
		if math.Abs(derived-supplied) > tolerance {
			out = append(out, Discrepancy{
				ID:       id,
				Supplied: supplied,
				Derived:  math.Round(derived*10) / 10,
			})
		}
	}

	check("overall", r.Overall.AvgPre, r.Overall.AvgPost, r.Overall.GainPct)
	for _, q := range r.Questions {
		check(q.ID, q.Pre, q.Post, q.GainPct)
	}
	return out
}

// String is used in log lines.
func (r *EvaluationReport) String() string {
	return fmt.Sprintf("%q (%d questions, %d respondents)", r.DisplayTitle(), len(r.Questions), r.Respondents)
}
