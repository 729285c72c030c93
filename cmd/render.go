package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"onepager/internal/compose"
	"onepager/internal/config"
	"onepager/internal/export"
)

var (
	renderFormat string
	renderOut    string
	renderEngine string
	renderCmd    = &cobra.Command{
		Use:   "render",
		Short: "Render the report to a PDF, HTML or SVG file",
		Long: `Load the dataset once and write the composed one-page report.

PDFs are drawn natively by default; --engine chrome prints the HTML page
through headless Chrome instead.

Examples:
  onepager render
  onepager render --format html --out report.html
  onepager render --url https://hooks.example.com/eval --engine chrome
  onepager render --format svg --out -`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			path, err := runRender(ctx)
			if err != nil {
				HandleError(err, "Failed to render report")
			}
			if path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			}
		},
	}
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "pdf", "Output format: pdf, html or svg")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default <output dir>/onepager.<format>, - for stdout)")
	renderCmd.Flags().StringVar(&renderEngine, "engine", "", "PDF engine: native or chrome (default from config)")
}

func runRender(ctx context.Context) (string, error) {
	format, err := export.ParseFormat(renderFormat)
	if err != nil {
		return "", err
	}
	engine := cfg.Output.Engine
	if renderEngine != "" {
		engine = renderEngine
	}

	res, err := loadReport(ctx)
	if err != nil {
		return "", err
	}
	doc, err := compose.Build(res.Report, cfg.Branding)
	if err != nil {
		return "", err
	}

	ex, err := exporterFor(engine)
	if err != nil {
		return "", err
	}
	renderID := uuid.NewString()
	out, err := ex.Export(ctx, doc, format, renderID)
	if err != nil {
		return "", err
	}

	path := renderOut
	if path == "" {
		path = filepath.Join(cfg.Output.Dir, "onepager."+string(format))
	}
	if err := writeOutput(path, out); err != nil {
		return "", err
	}
	logger.Info("Report rendered",
		zap.String("render_id", renderID),
		zap.String("format", string(format)),
		zap.String("engine", engine),
		zap.String("path", path),
		zap.Int("bytes", len(out)))
	return path, nil
}

func exporterFor(engine string) (export.Exporter, error) {
	switch engine {
	case config.EngineNative:
		return export.Exporter{}, nil
	case config.EngineChrome:
		return export.Exporter{Chrome: export.NewPrinter(logger)}, nil
	default:
		return export.Exporter{}, fmt.Errorf("unknown pdf engine %q", engine)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
