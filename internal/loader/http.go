package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"onepager/internal/report"
)

// HTTPSource fetches the dataset with a single GET to a fixed URL. There is
// no authentication, request body, query string, retry or backoff.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = c
	}
}

// WithTimeout bounds the request. Zero means no timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(s *HTTPSource) {
		s.logger = l
	}
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:        url,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the endpoint the source reads from.
func (s *HTTPSource) URL() string {
	return s.url
}

// Fetch performs the request. Transport failures and non-2xx statuses wrap
// ErrNetwork; undecodable bodies wrap report.ErrParse.
func (s *HTTPSource) Fetch(ctx context.Context) (*report.EvaluationReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Evaluation data request failed", zap.String("url", s.url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("Evaluation data request returned non-success status",
			zap.String("url", s.url), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	r, err := report.Parse(body)
	if err != nil {
		s.logger.Warn("Evaluation data could not be parsed",
			zap.String("url", s.url), zap.Error(err), zap.String("body", truncate(body, 200)))
		return nil, err
	}

	s.logger.Info("Evaluation data fetched",
		zap.String("url", s.url),
		zap.Int("questions", len(r.Questions)),
		zap.Duration("elapsed", time.Since(start)))
	return r, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
