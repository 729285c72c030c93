// Package chart lays out the Pre/Post bar charts of the one-pager. Geometry
// is computed once, in millimetres, and shared by the SVG and PDF outputs.
package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"onepager/internal/series"
)

// The value domain is fixed; it is never derived from data.
const (
	DomainMin = 0.0
	DomainMax = 5.0
)

// Ticks are the gridline and axis tick positions.
var Ticks = []float64{0, 1, 2, 3, 4, 5}

// Palette shared by both chart styles.
const (
	TextColor  = "#2C3E50"
	GridColor  = "#E0E0E0"
	PanelColor = "#F5F7FA"
)

// PxToMM converts CSS pixels to millimetres.
const PxToMM = 25.4 / 96

// Rect is an axis-aligned box in millimetres.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Point is a position in millimetres.
type Point struct {
	X, Y float64
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Anchor is the horizontal alignment of a label relative to its point.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Label is a piece of text placed at a point.
type Label struct {
	X, Y   float64
	Text   string
	Anchor Anchor
}

// LabelFunc places the value label of a bar. pos is the top centre of the
// bar. Implementations must be pure.
type LabelFunc func(pos Point, value float64) Label

// valueLabelGap is the distance between a bar top and its label baseline.
const valueLabelGap = 5 * PxToMM

// ValueLabel is the default LabelFunc: the one-decimal value centred just
// above the bar.
func ValueLabel(pos Point, value float64) Label {
	return Label{
		X:      pos.X,
		Y:      pos.Y - valueLabelGap,
		Text:   FormatValue(value),
		Anchor: AnchorMiddle,
	}
}

// FormatValue renders v with one decimal place, rounding half away from
// zero on the shortest decimal form of v, so 1.15 reads "1.2" even though
// the nearest float64 is slightly below it. Display only.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(math.Abs(v), 'f', -1, 64), ".")
	frac += "00"
	tenths, _ := strconv.ParseInt(whole+frac[:1], 10, 64)
	if frac[1] >= '5' {
		tenths++
	}
	if tenths == 0 {
		return "0.0"
	}

	out := strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
	if v < 0 {
		out = "-" + out
	}
	return out
}

// TooltipText shows the raw, unrounded value.
func TooltipText(category string, v float64) string {
	return fmt.Sprintf("%s: %s", category, strconv.FormatFloat(v, 'f', -1, 64))
}

// Style is the cosmetic presentation of a chart. Both styles run through
// the same layout.
type Style struct {
	Name          string
	Accent        string
	TickFontPx    float64
	LabelFontPx   float64
	TooltipFontPx float64
	Label         LabelFunc
}

// OverallStyle is used for the page-one summary chart.
var OverallStyle = Style{
	Name:          "overall",
	Accent:        "#1F3A93",
	TickFontPx:    10,
	LabelFontPx:   14,
	TooltipFontPx: 11,
	Label:         ValueLabel,
}

// QuestionStyle is used for the per-question grid.
var QuestionStyle = Style{
	Name:          "question",
	Accent:        "#00B894",
	TickFontPx:    9,
	LabelFontPx:   14,
	TooltipFontPx: 10,
	Label:         ValueLabel,
}

// Bar is one drawn bar.
type Bar struct {
	Rect
	Category string
	Value    float64
	Tooltip  string
}

// Chart is a fully laid out bar chart.
type Chart struct {
	Frame       Rect
	Plot        Rect
	Style       Style
	Bars        []Bar
	Grid        []Line
	Axes        []Line
	TickLabels  []Label
	Categories  []Label
	ValueLabels []Label
}

// Insets between the frame and the plot area, in millimetres.
const (
	insetLeft   = 7.0
	insetRight  = 2.0
	insetTop    = 6.0
	insetBottom = 5.0
	barFraction = 0.55
)

// Layout computes the geometry of a bar chart for points inside frame.
// Values outside the domain are not clamped; renderers clip bars to Plot.
func Layout(points []series.Point, frame Rect, style Style) Chart {
	label := style.Label
	if label == nil {
		label = ValueLabel
	}

	plot := Rect{
		X: frame.X + insetLeft,
		Y: frame.Y + insetTop,
		W: math.Max(frame.W-insetLeft-insetRight, 0),
		H: math.Max(frame.H-insetTop-insetBottom, 0),
	}
	c := Chart{Frame: frame, Plot: plot, Style: style}

	for _, t := range Ticks {
		y := c.YOf(t)
		c.Grid = append(c.Grid, Line{X1: plot.X, Y1: y, X2: plot.Right(), Y2: y})
		c.TickLabels = append(c.TickLabels, Label{
			X:      plot.X - 1.5,
			Y:      y,
			Text:   strconv.FormatFloat(t, 'f', -1, 64),
			Anchor: AnchorEnd,
		})
	}
	c.Axes = []Line{
		{X1: plot.X, Y1: plot.Y, X2: plot.X, Y2: plot.Bottom()},
		{X1: plot.X, Y1: plot.Bottom(), X2: plot.Right(), Y2: plot.Bottom()},
	}

	if len(points) == 0 {
		return c
	}

	band := plot.W / float64(len(points))
	barW := band * barFraction
	base := c.YOf(DomainMin)
	for i, p := range points {
		center := plot.X + band*(float64(i)+0.5)
		y := c.YOf(p.Value)

		bar := Bar{
			Rect:     Rect{X: center - barW/2, Y: math.Min(y, base), W: barW, H: math.Abs(base - y)},
			Category: p.Category,
			Value:    p.Value,
			Tooltip:  TooltipText(p.Category, p.Value),
		}
		c.Bars = append(c.Bars, bar)
		c.Grid = append(c.Grid, Line{X1: center, Y1: plot.Y, X2: center, Y2: plot.Bottom()})
		c.Categories = append(c.Categories, Label{X: center, Y: plot.Bottom() + 3.5, Text: p.Category, Anchor: AnchorMiddle})
		c.ValueLabels = append(c.ValueLabels, label(Point{X: center, Y: bar.Y}, p.Value))
	}
	return c
}

// YOf maps a domain value to a y coordinate inside the plot area.
func (c Chart) YOf(v float64) float64 {
	frac := (v - DomainMin) / (DomainMax - DomainMin)
	return c.Plot.Bottom() - frac*c.Plot.H
}
