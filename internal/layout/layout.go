// Package layout places every block of the one-pager on a fixed A4 portrait
// sheet. All coordinates are millimetres from the top-left corner.
//
// The page holds, top to bottom: header, summary row (overall chart and
// insights), the competency heading and a fixed-column grid with one cell
// per question. The footer is pinned a fixed distance above the bottom edge
// and never moves with content. Compose refuses a question count whose grid
// would run into the footer; there is no second page.
package layout

import (
	"errors"
	"fmt"
	"math"

	"onepager/internal/chart"
)

// Sheet size.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// ErrPageOverflow is returned when the content would not fit on one page.
var ErrPageOverflow = errors.New("content does not fit on one page")

// Spec holds the block sizes of the page.
type Spec struct {
	Margin        float64
	Gap           float64 // vertical gap between blocks
	HeaderHeight  float64
	LogoSize      float64
	SummaryHeight float64
	SummaryGap    float64 // between the two summary panels
	PanelPadding  float64
	PanelHeading  float64
	HeadingHeight float64
	Columns       int
	CellHeight    float64
	CellGap       float64
	CellPadding   float64
	CellTitle     float64
	CellGain      float64
	FooterHeight  float64
	FooterOffset  float64 // distance from the footer bottom to the sheet edge
	FooterLogo    float64
}

// A4 is the page used for every report.
var A4 = Spec{
	Margin:        8,
	Gap:           4,
	HeaderHeight:  16,
	LogoSize:      12,
	SummaryHeight: 58,
	SummaryGap:    3,
	PanelPadding:  3,
	PanelHeading:  6,
	HeadingHeight: 8,
	Columns:       3,
	CellHeight:    48,
	CellGap:       2,
	CellPadding:   2,
	CellTitle:     8,
	CellGain:      5,
	FooterHeight:  12,
	FooterOffset:  20,
	FooterLogo:    8,
}

// Cell is one per-question panel.
type Cell struct {
	chart.Rect
	Title chart.Rect
	Chart chart.Rect
	Gain  chart.Rect
}

// Page is the computed position of every block.
type Page struct {
	Width, Height float64
	Gap           float64

	Header chart.Rect
	Logo   chart.Rect
	Title  chart.Rect

	OverallPanel chart.Rect
	OverallChart chart.Rect
	InsightPanel chart.Rect
	GainStat     chart.Rect
	CountStat    chart.Rect
	Narrative    chart.Rect

	Heading chart.Rect
	Cells   []Cell

	Footer     chart.Rect
	FooterLogo chart.Rect
}

// ContentBottom is the lowest edge of anything above the footer.
func (p Page) ContentBottom() float64 {
	bottom := math.Max(p.Header.Bottom(), p.OverallPanel.Bottom())
	bottom = math.Max(bottom, p.InsightPanel.Bottom())
	bottom = math.Max(bottom, p.Heading.Bottom())
	for _, c := range p.Cells {
		bottom = math.Max(bottom, c.Bottom())
	}
	return bottom
}

// Fits reports whether the content clears the footer and the footer lies on
// the sheet.
func (p Page) Fits() bool {
	return p.ContentBottom() <= p.Footer.Y-p.Gap && p.Footer.Bottom() <= p.Height
}

// Compose lays out a page for n questions. On ErrPageOverflow the returned
// Page is still populated so callers can report by how much it overflowed.
func Compose(n int, s Spec) (Page, error) {
	if n < 0 {
		return Page{}, fmt.Errorf("negative question count %d", n)
	}
	if s.Columns < 1 {
		return Page{}, fmt.Errorf("layout needs at least one column, got %d", s.Columns)
	}

	p := Page{Width: PageWidth, Height: PageHeight, Gap: s.Gap}
	inner := PageWidth - 2*s.Margin
	y := s.Margin

	p.Header = chart.Rect{X: s.Margin, Y: y, W: inner, H: s.HeaderHeight}
	p.Logo = chart.Rect{X: s.Margin, Y: y, W: s.LogoSize, H: s.LogoSize}
	// the title is centred on the page, with room for a logo on either side
	side := s.LogoSize + s.Gap
	p.Title = chart.Rect{X: s.Margin + side, Y: y, W: inner - 2*side, H: s.HeaderHeight}
	y = p.Header.Bottom() + s.Gap

	half := (inner - s.SummaryGap) / 2
	p.OverallPanel = chart.Rect{X: s.Margin, Y: y, W: half, H: s.SummaryHeight}
	p.InsightPanel = chart.Rect{X: s.Margin + half + s.SummaryGap, Y: y, W: half, H: s.SummaryHeight}
	p.OverallChart = panelBody(p.OverallPanel, s)

	body := panelBody(p.InsightPanel, s)
	stat := (body.H - 2*s.CellGap) / 3
	p.GainStat = chart.Rect{X: body.X, Y: body.Y, W: body.W, H: stat}
	p.CountStat = chart.Rect{X: body.X, Y: p.GainStat.Bottom() + s.CellGap, W: body.W, H: stat}
	p.Narrative = chart.Rect{X: body.X, Y: p.CountStat.Bottom() + s.CellGap, W: body.W, H: body.Bottom() - p.CountStat.Bottom() - s.CellGap}
	y = p.OverallPanel.Bottom() + s.Gap

	p.Heading = chart.Rect{X: s.Margin, Y: y, W: inner, H: s.HeadingHeight}
	y = p.Heading.Bottom() + s.CellGap

	cellW := (inner - float64(s.Columns-1)*s.CellGap) / float64(s.Columns)
	for i := 0; i < n; i++ {
		row, col := i/s.Columns, i%s.Columns
		r := chart.Rect{
			X: s.Margin + float64(col)*(cellW+s.CellGap),
			Y: y + float64(row)*(s.CellHeight+s.CellGap),
			W: cellW,
			H: s.CellHeight,
		}
		p.Cells = append(p.Cells, cell(r, s))
	}

	p.Footer = chart.Rect{
		X: s.Margin,
		Y: PageHeight - s.FooterOffset - s.FooterHeight,
		W: inner,
		H: s.FooterHeight,
	}
	p.FooterLogo = chart.Rect{
		X: p.Footer.X,
		Y: p.Footer.Y + (s.FooterHeight-s.FooterLogo)/2,
		W: s.FooterLogo,
		H: s.FooterLogo,
	}

	if !p.Fits() {
		return p, fmt.Errorf("%w: %d questions end at %.1fmm, footer starts at %.1fmm",
			ErrPageOverflow, n, p.ContentBottom(), p.Footer.Y)
	}
	return p, nil
}

// Capacity returns the largest question count that fits on one page, or -1
// if not even an empty grid fits.
func Capacity(s Spec) int {
	n := 0
	for ; n <= 1000; n++ {
		if _, err := Compose(n, s); err != nil {
			break
		}
	}
	return n - 1
}

func panelBody(panel chart.Rect, s Spec) chart.Rect {
	top := panel.Y + s.PanelPadding + s.PanelHeading
	return chart.Rect{
		X: panel.X + s.PanelPadding,
		Y: top,
		W: panel.W - 2*s.PanelPadding,
		H: panel.Bottom() - s.PanelPadding - top,
	}
}

func cell(r chart.Rect, s Spec) Cell {
	inner := r.W - 2*s.CellPadding
	title := chart.Rect{X: r.X + s.CellPadding, Y: r.Y + s.CellPadding, W: inner, H: s.CellTitle}
	gain := chart.Rect{X: title.X, Y: r.Bottom() - s.CellPadding - s.CellGain, W: inner, H: s.CellGain}
	plot := chart.Rect{X: title.X, Y: title.Bottom() + 1, W: inner, H: gain.Y - 1 - (title.Bottom() + 1)}
	return Cell{Rect: r, Title: title, Chart: plot, Gain: gain}
}
