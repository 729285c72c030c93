package main

import (
	"context"
	"errors"

	"onepager/internal/config"
	"onepager/internal/loader"
	"onepager/internal/report"
)

// failingSource always fails with a cause that must never reach users.
type failingSource struct{}

func (failingSource) Fetch(ctx context.Context) (*report.EvaluationReport, error) {
	return nil, errors.New("dial tcp 10.0.0.1:443: connection refused")
}

// blockingSource holds every fetch until release is closed.
type blockingSource struct {
	release chan struct{}
}

func newBlockingSource() *blockingSource {
	return &blockingSource{release: make(chan struct{})}
}

func (s *blockingSource) Fetch(ctx context.Context) (*report.EvaluationReport, error) {
	select {
	case <-s.release:
		return report.Sample(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// MockReport returns the sample dataset with n questions, cycling the
// sample questions and giving each a unique ID.
func MockReport(n int) *report.EvaluationReport {
	r := report.Sample()
	base := r.Questions
	r.Questions = nil
	for i := 0; i < n; i++ {
		q := base[i%len(base)]
		q.ID = "Q" + string(rune('A'+i))
		r.Questions = append(r.Questions, q)
	}
	return r
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Refresh = 1
	return cfg
}

// resolved returns a session that has already finished loading src.
func resolved(src loader.Source) *loader.Session {
	s := loader.NewSession(src)
	s.Load(context.Background())
	return s
}
