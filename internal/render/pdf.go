package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"onepager/internal/chart"
	"onepager/internal/compose"
	"onepager/internal/insight"
)

// ptPerMM converts millimetres to font points.
const ptPerMM = 72 / 25.4

const logoName = "logo"

// fontFamily is an embedded UTF-8 TrueType family, so dataset text is drawn
// as given rather than through a single-byte code page.
const fontFamily = "Go"

// pdfPage draws one composed document with fpdf. All coordinates come from
// the layout, so nothing here flows or breaks pages.
type pdfPage struct {
	pdf *fpdf.Fpdf
	doc *compose.Document
}

// PDF writes doc as a single A4 portrait page.
func PDF(w io.Writer, doc *compose.Document) error {
	return writePDF(w, doc, true)
}

func writePDF(w io.Writer, doc *compose.Document, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(doc.Branding.Brand, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: fonts: %w", err)
	}

	p := &pdfPage{pdf: pdf, doc: doc}
	pdf.AddPage()
	if err := p.draw(); err != nil {
		return err
	}

	if n := pdf.PageCount(); n != 1 {
		return fmt.Errorf("render pdf: produced %d pages", n)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("PDF output error: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (p *pdfPage) draw() error {
	doc, page := p.doc, p.doc.Page

	hasLogo, err := p.registerLogo()
	if err != nil {
		return err
	}

	// header
	if hasLogo {
		p.pdf.ImageOptions(logoName, page.Logo.X, page.Logo.Y, page.Logo.W, page.Logo.H, false, fpdf.ImageOptions{}, 0, "")
	}
	p.font("B", 5.3, chart.TextColor)
	p.text(page.Title.X+page.Title.W/2, page.Title.Y+5.5, chart.AnchorMiddle, doc.Title)
	p.font("", 3.7, chart.TextColor)
	p.text(page.Title.X+page.Title.W/2, page.Title.Y+11, chart.AnchorMiddle, doc.Branding.Subtitle)

	// summary row
	p.panel(page.OverallPanel, chart.PanelColor)
	p.font("B", 3.7, chart.TextColor)
	p.text(page.OverallPanel.X+3, page.OverallPanel.Y+6.5, chart.AnchorStart, doc.OverallHeading)
	p.chart(doc.Overall)

	p.panel(page.InsightPanel, chart.PanelColor)
	p.font("B", 3.7, chart.TextColor)
	p.text(page.InsightPanel.X+3, page.InsightPanel.Y+6.5, chart.AnchorStart, doc.Insights.Heading)
	p.stat(page.GainStat, doc.Insights.Gain)
	p.stat(page.CountStat, doc.Insights.Respondents)
	p.panel(page.Narrative, "#FFFFFF")
	p.font("I", 3.2, chart.TextColor)
	p.paragraph(page.Narrative, 2, doc.Insights.Narrative)

	// competency grid
	p.font("B", 4.2, chart.TextColor)
	p.text(page.Heading.X, page.Heading.Y+5.5, chart.AnchorStart, doc.Heading)
	for _, q := range doc.Panels {
		p.panel(q.Cell.Rect, chart.PanelColor)
		p.font("B", 3.2, chart.TextColor)
		p.paragraph(q.Cell.Title, 0, q.Label)
		p.chart(q.Chart)

		gainW := p.width("B", 3.7, q.Gain)
		capW := p.width("", 3.2, " gain")
		x := q.Cell.Gain.X + (q.Cell.Gain.W-gainW-capW)/2
		p.font("B", 3.7, q.GainColor)
		p.text(x, q.Cell.Gain.Y+4, chart.AnchorStart, q.Gain)
		p.font("", 3.2, chart.TextColor)
		p.text(x+gainW, q.Cell.Gain.Y+4, chart.AnchorStart, " gain")
	}

	// footer
	p.stroke(chart.GridColor)
	p.pdf.SetLineWidth(0.26)
	p.pdf.Line(page.Footer.X, page.Footer.Y, page.Footer.Right(), page.Footer.Y)
	x := page.Footer.X
	if hasLogo {
		p.pdf.ImageOptions(logoName, page.FooterLogo.X, page.FooterLogo.Y, page.FooterLogo.W, page.FooterLogo.H, false, fpdf.ImageOptions{}, 0, "")
		x = page.FooterLogo.Right() + 2
	}
	baseline := page.Footer.Y + page.Footer.H/2 + 1.2
	p.font("B", 3.2, chart.OverallStyle.Accent)
	p.text(x, baseline, chart.AnchorStart, doc.Branding.Brand)
	x += p.width("B", 3.2, doc.Branding.Brand)
	p.font("", 3.2, chart.OverallStyle.Accent)
	p.text(x, baseline, chart.AnchorStart, doc.Branding.Attribution())

	return p.pdf.Error()
}

func (p *pdfPage) registerLogo() (bool, error) {
	img := p.doc.Branding.Logo
	if len(img) == 0 {
		return false, nil
	}
	var kind string
	switch http.DetectContentType(img) {
	case "image/png":
		kind = "PNG"
	case "image/jpeg":
		kind = "JPG"
	case "image/gif":
		kind = "GIF"
	default:
		return false, fmt.Errorf("render pdf: unsupported logo type %q", http.DetectContentType(img))
	}
	p.pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(img))
	if err := p.pdf.Error(); err != nil {
		return false, fmt.Errorf("render pdf: logo: %w", err)
	}
	return true, nil
}

// chart draws a laid out bar chart; bars are clipped to the plot area.
func (p *pdfPage) chart(c chart.Chart) {
	pdf := p.pdf

	p.stroke(chart.GridColor)
	pdf.SetLineWidth(0.26)
	pdf.SetDashPattern([]float64{0.79, 0.79}, 0)
	for _, l := range c.Grid {
		pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	}
	pdf.SetDashPattern([]float64{}, 0)

	p.stroke("#666666")
	for _, l := range c.Axes {
		pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	}

	tick := c.Style.TickFontPx * chart.PxToMM
	p.font("", tick, chart.TextColor)
	for _, l := range c.TickLabels {
		p.text(l.X, l.Y+0.35*tick, l.Anchor, l.Text)
	}
	for _, l := range c.Categories {
		p.text(l.X, l.Y, l.Anchor, l.Text)
	}

	pdf.ClipRect(c.Plot.X, c.Plot.Y, c.Plot.W, c.Plot.H, false)
	p.fill(c.Style.Accent)
	for _, b := range c.Bars {
		pdf.Rect(b.X, b.Y, b.W, b.H, "F")
	}
	pdf.ClipEnd()

	p.font("B", c.Style.LabelFontPx*chart.PxToMM, chart.TextColor)
	for _, l := range c.ValueLabels {
		p.text(l.X, l.Y, l.Anchor, l.Text)
	}
}

func (p *pdfPage) stat(r chart.Rect, s insight.Stat) {
	p.panel(r, "#FFFFFF")
	p.fill(s.Color)
	p.pdf.Rect(r.X, r.Y, 1, r.H, "F")
	p.font("B", 5.3, s.Color)
	p.text(r.X+3, r.Y+6.5, chart.AnchorStart, s.Value)
	p.font("", 3.2, chart.TextColor)
	p.text(r.X+3, r.Y+11, chart.AnchorStart, s.Caption)
}

func (p *pdfPage) panel(r chart.Rect, color string) {
	p.fill(color)
	p.pdf.RoundedRect(r.X, r.Y, r.W, r.H, 1.5, "1234", "F")
}

// paragraph wraps s inside r. Lines that do not fit are clipped, never
// reflowed into the next block.
func (p *pdfPage) paragraph(r chart.Rect, pad float64, s string) {
	_, size := p.pdf.GetFontSize()
	lineH := size * 1.2
	p.pdf.ClipRect(r.X, r.Y, r.W, r.H, false)
	p.pdf.SetXY(r.X+pad, r.Y+pad)
	p.pdf.MultiCell(r.W-2*pad, lineH, s, "", "L", false)
	p.pdf.ClipEnd()
}

// font sets the current font; size is in millimetres.
func (p *pdfPage) font(style string, sizeMM float64, color string) {
	p.pdf.SetFont(fontFamily, style, sizeMM*ptPerMM)
	r, g, b := rgb(color)
	p.pdf.SetTextColor(r, g, b)
}

func (p *pdfPage) width(style string, sizeMM float64, s string) float64 {
	p.pdf.SetFont(fontFamily, style, sizeMM*ptPerMM)
	return p.pdf.GetStringWidth(s)
}

func (p *pdfPage) text(x, y float64, anchor chart.Anchor, s string) {
	switch anchor {
	case chart.AnchorMiddle:
		x -= p.pdf.GetStringWidth(s) / 2
	case chart.AnchorEnd:
		x -= p.pdf.GetStringWidth(s)
	}
	p.pdf.Text(x, y, s)
}

func (p *pdfPage) fill(color string) {
	r, g, b := rgb(color)
	p.pdf.SetFillColor(r, g, b)
}

func (p *pdfPage) stroke(color string) {
	r, g, b := rgb(color)
	p.pdf.SetDrawColor(r, g, b)
}

// rgb parses a #RRGGBB colour. Malformed input yields black.
func rgb(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
