package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"onepager/internal/chart"
	"onepager/internal/series"
)

// Terminal colours matching the page palette.
var (
	overallColor  = lipgloss.Color(chart.OverallStyle.Accent)
	questionColor = lipgloss.Color(chart.QuestionStyle.Accent)
	mutedColor    = lipgloss.Color("240")
)

// BarChart creates a horizontal bar on the fixed 0-5 score domain. Values
// outside the domain are clipped in the drawing only; the label always
// shows the value itself.
func BarChart(label string, value float64, width int, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}

	fraction := (value - chart.DomainMin) / (chart.DomainMax - chart.DomainMin)
	filledWidth := int(math.Round(float64(width) * fraction))
	if filledWidth < 0 {
		filledWidth = 0
	}
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	barStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(mutedColor)

	return fmt.Sprintf("%-4s %s%s %s",
		label,
		barStyle.Render(filled),
		emptyStyle.Render(empty),
		chart.FormatValue(value),
	)
}

// Axis renders the tick scale under a BarChart of the same width.
func Axis(width int) string {
	if width < len(chart.Ticks) {
		width = len(chart.Ticks)
	}
	line := []rune(strings.Repeat(" ", width+1))
	for _, t := range chart.Ticks {
		pos := int(math.Round(float64(width) * (t - chart.DomainMin) / (chart.DomainMax - chart.DomainMin)))
		if pos > width {
			pos = width
		}
		line[pos] = rune('0' + int(t))
	}
	return lipgloss.NewStyle().Foreground(mutedColor).Render("     " + string(line))
}

// ScoreChart draws one Pre/Post series as two bars over a tick axis.
func ScoreChart(points []series.Point, width int, color lipgloss.Color) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(BarChart(p.Category, p.Value, width, color))
		b.WriteString("\n")
	}
	b.WriteString(Axis(width))
	return b.String()
}

// InfoBox creates a styled info box with a value
func InfoBox(label string, value string, color lipgloss.Color) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(mutedColor).
		Width(22).
		Align(lipgloss.Left)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(8).
		Align(lipgloss.Right)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value),
	)

	return boxStyle.Render(content)
}

// QuestionCard is the terminal version of one competency panel: label,
// Pre/Post bars and the gain in its colour.
func QuestionCard(label string, points []series.Point, gain string, gainColor lipgloss.Color, width int) string {
	barWidth := width - 16
	if barWidth < 10 {
		barWidth = 10
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Width(barWidth + 11).
		Render(label)
	footer := lipgloss.NewStyle().Bold(true).Foreground(gainColor).Render(gain) +
		lipgloss.NewStyle().Foreground(mutedColor).Render(" gain")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		ScoreChart(points, barWidth, questionColor),
		footer,
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Padding(0, 1).
		Render(body)
}
