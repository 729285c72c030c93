package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"onepager/internal/report"
	"onepager/internal/series"
)

// seriesOutput is the JSON shape of `onepager series`.
type seriesOutput struct {
	Title       string            `json:"title"`
	Respondents int               `json:"n_respondents"`
	Overall     series.Overall    `json:"overall"`
	Questions   []series.Question `json:"questions"`
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the chart series as JSON",
	Long: `Load the dataset and print the chart-ready series: one overall Pre/Post
pair and one Pre/Post pair per competency question, in display order.
Values are exactly as loaded; nothing is rounded.

Example:
  onepager series --url https://hooks.example.com/eval`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		res, err := loadReport(context.Background())
		if err != nil {
			HandleError(err, "Failed to load evaluation data")
		}

		// Convert to JSON output format
		output, err := json.MarshalIndent(buildSeriesOutput(res.Report), "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(output))
	},
}

func init() {
	rootCmd.AddCommand(seriesCmd)
}

func buildSeriesOutput(r *report.EvaluationReport) seriesOutput {
	overall, questions := series.Build(r)
	return seriesOutput{
		Title:       r.DisplayTitle(),
		Respondents: r.Respondents,
		Overall:     overall,
		Questions:   questions,
	}
}
