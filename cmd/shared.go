package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"onepager/internal/config"
	"onepager/internal/loader"
)

// These variables will be set by main package
var (
	LaunchTUI   func(cfg *config.Config, source loader.Source) error
	StartServer func(ctx context.Context, cfg *config.Config, source loader.Source) error
	SetupLogger func(cfg *config.Config) (*zap.Logger, error)
)

// cfg and logger are populated before any command runs.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

// errLoadFailed is returned for any failed dataset load. Its text is the
// fixed user-facing message.
var errLoadFailed = errors.New(loader.ErrorMessage)

// HandleError prints error and exits
func HandleError(err error, message string) {
	logger.Error(message, zap.Error(err))
	fmt.Fprintln(os.Stderr, errorText(err, message))
	os.Exit(1)
}

// errorText is the line shown for err. A failed load shows the fixed
// message and nothing else.
func errorText(err error, message string) string {
	if errors.Is(err, errLoadFailed) {
		return loader.ErrorMessage
	}
	return fmt.Sprintf("Error: %s: %v", message, err)
}

// newSource builds the dataset source selected by the configuration.
func newSource(c *config.Config) loader.Source {
	if c.Source.Kind == config.SourceHTTP {
		return loader.NewHTTPSource(c.Source.URL,
			loader.WithTimeout(c.Source.Timeout),
			loader.WithLogger(logger))
	}
	return loader.NewStaticSource()
}

// loadReport resolves the dataset once. A failed load is reported with the
// fixed user-facing message only; the cause goes to the log.
func loadReport(ctx context.Context) (loader.Result, error) {
	res := loader.NewSession(newSource(cfg)).Load(ctx)
	switch res.State {
	case loader.Ready:
		return res, nil
	case loader.Error:
		logger.Error("Load failed", zap.Error(res.Err))
		return res, errLoadFailed
	default:
		return res, fmt.Errorf("load did not finish: %w", ctx.Err())
	}
}
