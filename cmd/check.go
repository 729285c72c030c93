package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"onepager/internal/compose"
	"onepager/internal/export"
	"onepager/internal/layout"
	"onepager/internal/loader"
	"onepager/internal/render"
	"onepager/internal/report"
)

// checkOutput is the JSON shape of `onepager check`.
type checkOutput struct {
	Questions     int                  `json:"questions"`
	Capacity      int                  `json:"capacity"`
	Fits          bool                 `json:"fits"`
	ContentBottom float64              `json:"content_bottom_mm"`
	FooterTop     float64              `json:"footer_top_mm"`
	PageHeight    float64              `json:"page_height_mm"`
	Measured      *export.Measurement  `json:"measured,omitempty"`
	Discrepancies []report.Discrepancy `json:"gain_discrepancies"`
}

var (
	checkTolerance float64
	checkMeasure   bool
	checkCmd       = &cobra.Command{
		Use:   "check",
		Short: "Check that the dataset fits one page and its gains add up",
		Long: `Load the dataset and report, as JSON:
  - whether the layout fits one A4 page, and how many questions it can hold
  - supplied gain percentages that differ from (post-pre)/pre by more than
    --tolerance points (advisory; rendering always shows supplied gains)

With --measure the page is also laid out in headless Chrome and the
measured height is checked against the sheet.

Exits with status 2 if the page does not fit.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			res, err := loadReport(ctx)
			if err != nil {
				HandleError(err, "Failed to load evaluation data")
			}
			out, err := runCheck(ctx, res.Report, checkMeasure)
			if err != nil {
				HandleError(err, "Check failed")
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				HandleError(err, "Failed to encode JSON")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if !out.Fits {
				os.Exit(2)
			}
		},
	}
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Float64Var(&checkTolerance, "tolerance", 1.0, "Allowed gain difference in percentage points")
	checkCmd.Flags().BoolVar(&checkMeasure, "measure", false, "Also measure the rendered page in headless Chrome")
}

func runCheck(ctx context.Context, r *report.EvaluationReport, measure bool) (checkOutput, error) {
	page, err := layout.Compose(len(r.Questions), layout.A4)
	if err != nil && !errors.Is(err, layout.ErrPageOverflow) {
		return checkOutput{}, err
	}
	out := checkOutput{
		Questions:     len(r.Questions),
		Capacity:      layout.Capacity(layout.A4),
		Fits:          err == nil,
		ContentBottom: page.ContentBottom(),
		FooterTop:     page.Footer.Y,
		PageHeight:    layout.PageHeight,
		Discrepancies: r.Discrepancies(checkTolerance),
	}
	if out.Discrepancies == nil {
		out.Discrepancies = []report.Discrepancy{}
	}
	if !out.Fits || !measure {
		return out, nil
	}

	doc, err := compose.Build(r, cfg.Branding)
	if err != nil {
		return out, err
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, render.View{State: loader.Ready, Doc: doc}); err != nil {
		return out, err
	}
	m, err := export.NewPrinter(logger).Measure(ctx, buf.Bytes())
	if err != nil {
		return out, err
	}
	out.Measured = &m
	out.Fits = m.Fits(layout.PageHeight)
	return out, nil
}
