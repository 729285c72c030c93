package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// ErrParse marks a document that is not valid JSON or does not have the
// EvaluationReport shape.
var ErrParse = errors.New("malformed evaluation report")

// Parse decodes an EvaluationReport from a JSON document. Required paths
// must be present with the right JSON type; numeric ranges are not checked.
//
// The respondent count may be supplied as n_respondents or n_overlap. When
// both are present n_respondents wins.
func Parse(body []byte) (*EvaluationReport, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrParse)
	}

	var r EvaluationReport
	var err error

	if t := doc.Get("title"); t.Exists() && t.Type != gjson.Null {
		if t.Type != gjson.String {
			return nil, fmt.Errorf("%w: title must be a string", ErrParse)
		}
		r.Title = t.String()
	}

	overall := doc.Get("overall")
	if !overall.IsObject() {
		return nil, fmt.Errorf("%w: missing overall", ErrParse)
	}
	if r.Overall.AvgPre, err = number(overall, "avg_pre", "overall"); err != nil {
		return nil, err
	}
	if r.Overall.AvgPost, err = number(overall, "avg_post", "overall"); err != nil {
		return nil, err
	}
	if r.Overall.GainPct, err = number(overall, "gain_pct", "overall"); err != nil {
		return nil, err
	}

	questions := doc.Get("questions")
	if !questions.IsArray() {
		return nil, fmt.Errorf("%w: missing questions", ErrParse)
	}
	for i, q := range questions.Array() {
		cq, err := question(q, i)
		if err != nil {
			return nil, err
		}
		r.Questions = append(r.Questions, cq)
	}
	if r.Questions == nil {
		r.Questions = []CompetencyQuestion{}
	}

	if r.Respondents, err = respondents(doc); err != nil {
		return nil, err
	}

	narrative := doc.Get("narrative")
	if narrative.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing narrative", ErrParse)
	}
	r.Narrative = narrative.String()

	return &r, nil
}

func question(q gjson.Result, idx int) (CompetencyQuestion, error) {
	where := fmt.Sprintf("questions[%d]", idx)
	if !q.IsObject() {
		return CompetencyQuestion{}, fmt.Errorf("%w: %s is not an object", ErrParse, where)
	}

	var cq CompetencyQuestion
	id := q.Get("id")
	switch id.Type {
	case gjson.String, gjson.Number:
		cq.ID = id.String()
	default:
		return cq, fmt.Errorf("%w: %s.id missing", ErrParse, where)
	}

	label := q.Get("label")
	if label.Type != gjson.String {
		return cq, fmt.Errorf("%w: %s.label missing", ErrParse, where)
	}
	cq.Label = label.String()

	var err error
	if cq.Pre, err = number(q, "pre", where); err != nil {
		return cq, err
	}
	if cq.Post, err = number(q, "post", where); err != nil {
		return cq, err
	}
	if cq.GainPct, err = number(q, "gain_pct", where); err != nil {
		return cq, err
	}
	return cq, nil
}

func respondents(doc gjson.Result) (int, error) {
	field := "n_respondents"
	n := doc.Get(field)
	if !n.Exists() {
		field = "n_overlap"
		n = doc.Get(field)
	}
	if !n.Exists() {
		return 0, fmt.Errorf("%w: missing n_respondents or n_overlap", ErrParse)
	}
	if n.Type != gjson.Number || n.Num != math.Trunc(n.Num) || n.Num < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrParse, field)
	}
	// float64(math.MaxInt) rounds up to the first value int cannot hold
	if n.Num >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrParse, field)
	}
	return int(n.Num), nil
}

func number(obj gjson.Result, key, where string) (float64, error) {
	v := obj.Get(key)
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s.%s must be a number", ErrParse, where, key)
	}
	return v.Num, nil
}
