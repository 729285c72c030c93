// Package series maps an evaluation report onto chart-ready two-point
// Pre/Post series.
package series

import "onepager/internal/report"

// Category names, in display order.
const (
	Pre  = "Pre"
	Post = "Post"
)

// Point is one bar of a chart.
type Point struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Overall is the aggregate Pre/Post comparison.
type Overall struct {
	Points []Point `json:"points"`
}

// Question is the Pre/Post comparison for one competency question, tagged
// with what the per-question panel displays next to the chart.
type Question struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	GainPct float64 `json:"gain_pct"`
	Points  []Point `json:"points"`
}

// Build derives one overall series and one series per question, in
// question order. Values are passed through untouched.
func Build(r *report.EvaluationReport) (Overall, []Question) {
	overall := Overall{Points: pair(r.Overall.AvgPre, r.Overall.AvgPost)}

	questions := make([]Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, Question{
			ID:      q.ID,
			Label:   q.Label,
			GainPct: q.GainPct,
			Points:  pair(q.Pre, q.Post),
		})
	}
	return overall, questions
}

// Values returns the raw pre and post values of a two-point series.
func Values(points []Point) (pre, post float64) {
	for _, p := range points {
		switch p.Category {
		case Pre:
			pre = p.Value
		case Post:
			post = p.Value
		}
	}
	return pre, post
}

func pair(pre, post float64) []Point {
	return []Point{
		{Category: Pre, Value: pre},
		{Category: Post, Value: post},
	}
}
