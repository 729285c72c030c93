package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"onepager/internal/chart"
	"onepager/internal/insight"
	"onepager/internal/report"
)

var (
	summaryRaw   bool
	summaryWidth int
	summaryCmd   = &cobra.Command{
		Use:   "summary",
		Short: "Print the report as Markdown",
		Long: `Load the dataset and print a Markdown summary of the report: overall
scores and gain, respondents, narrative and a per-question table.

The output is styled for the terminal; use --raw for plain Markdown.

Examples:
  onepager summary
  onepager summary --raw > summary.md`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			res, err := loadReport(context.Background())
			if err != nil {
				HandleError(err, "Failed to load evaluation data")
			}

			md := summaryMarkdown(res.Report)
			if summaryRaw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(summaryWidth),
			)
			if err != nil {
				HandleError(err, "Failed to create renderer")
			}
			out, err := renderer.Render(md)
			if err != nil {
				HandleError(err, "Failed to render summary")
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		},
	}
)

func init() {
	summaryCmd.Flags().BoolVar(&summaryRaw, "raw", false, "Print plain Markdown")
	summaryCmd.Flags().IntVarP(&summaryWidth, "width", "w", 80, "Word wrap width")
	rootCmd.AddCommand(summaryCmd)
}

// summaryMarkdown renders r as Markdown. Dataset text is escaped so it is
// always shown literally.
func summaryMarkdown(r *report.EvaluationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(r.DisplayTitle()))
	fmt.Fprintf(&b, "**Overall:** %s → %s (%s)  \n",
		chart.FormatValue(r.Overall.AvgPre), chart.FormatValue(r.Overall.AvgPost), insight.OverallGain(r.Overall.GainPct))
	fmt.Fprintf(&b, "**Respondents:** %s\n\n", insight.Respondents(r.Respondents))
	if r.Narrative != "" {
		fmt.Fprintf(&b, "> %s\n\n", escapeMarkdown(r.Narrative))
	}

	if len(r.Questions) > 0 {
		b.WriteString("| Competency | Pre | Post | Gain |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, q := range r.Questions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				escapeMarkdown(q.Label), chart.FormatValue(q.Pre), chart.FormatValue(q.Post), insight.QuestionGain(q.GainPct))
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(strings.ReplaceAll(s, "\n", " "))
}
