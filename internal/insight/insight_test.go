package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"onepager/internal/report"
)

func TestGainColorBoundaries(t *testing.T) {
	testCases := []struct {
		gain float64
		want string
	}{
		{-1, Neutral},
		{0, Neutral},
		{0.1, Positive},
		{29.2, Positive},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, GainColor(tc.gain), "GainColor(%v)", tc.gain)
	}
}

func TestQuestionGain(t *testing.T) {
	testCases := []struct {
		gain float64
		want string
	}{
		{0, "0%"},
		{-1, "-1%"},
		{0.1, "+0.1%"},
		{29.2, "+29.2%"},
		{-3.75, "-3.75%"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, QuestionGain(tc.gain))
	}
}

func TestOverallGainHasNoForcedSign(t *testing.T) {
	assert.Equal(t, "14.5%", OverallGain(14.5))
	assert.Equal(t, "-2%", OverallGain(-2))
	assert.Equal(t, "0%", OverallGain(0))
}

func TestSampleGains(t *testing.T) {
	r := report.Sample()

	var got []string
	for _, q := range r.Questions {
		got = append(got, QuestionGain(q.GainPct))
	}
	assert.Equal(t, []string{"0%", "+29.2%", "+29.2%", "+3.6%", "+13.3%"}, got)
}

func TestBuild(t *testing.T) {
	r := report.Sample()
	r.Narrative = `<b>bold</b> & "quoted"`

	p := Build(r)

	assert.Equal(t, "14.5%", p.Gain.Value)
	assert.Equal(t, Positive, p.Gain.Color)
	assert.Equal(t, "9", p.Respondents.Value)
	assert.Equal(t, Respondent, p.Respondents.Color)
	assert.Equal(t, `<b>bold</b> & "quoted"`, p.Narrative, "narrative is kept verbatim")
}

func TestBuildNonPositiveOverall(t *testing.T) {
	r := report.Sample()
	r.Overall.GainPct = 0
	r.Respondents = 0

	p := Build(r)
	assert.Equal(t, "0%", p.Gain.Value)
	assert.Equal(t, Neutral, p.Gain.Color)
	assert.Equal(t, "0", p.Respondents.Value)
}
