package report

// Sample returns the dataset compiled into the binary. Each call returns a
// fresh copy so callers cannot share mutations.
func Sample() *EvaluationReport {
	return &EvaluationReport{
		Overall: Overall{
			AvgPre:  2.9,
			AvgPost: 3.3,
			GainPct: 14.5,
		},
		Questions: []CompetencyQuestion{
			{ID: "Q1", Label: "Formulating effective GenAI prompts", Pre: 2.8, Post: 2.8, GainPct: 0},
			{ID: "Q2", Label: "Knowing which GenAI tools to use when", Pre: 2.7, Post: 3.4, GainPct: 29.2},
			{ID: "Q3", Label: "Using advanced GenAI features", Pre: 2.7, Post: 3.4, GainPct: 29.2},
			{ID: "Q4", Label: "Using GenAI safely and responsibly", Pre: 3.1, Post: 3.2, GainPct: 3.6},
			{ID: "Q5", Label: "Creating GenAI images", Pre: 3.3, Post: 3.8, GainPct: 13.3},
		},
		Respondents: 9,
		Narrative:   "Participants show a 14.5% overall improvement across the five GenAI skills.",
	}
}
