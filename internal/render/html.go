// Package render turns a composed document, or a pending or failed load,
// into printable output: standalone HTML with inline SVG charts, or a
// single-page A4 PDF.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"

	"onepager/internal/chart"
	"onepager/internal/compose"
	"onepager/internal/insight"
	"onepager/internal/layout"
	"onepager/internal/loader"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("onepager").Funcs(template.FuncMap{
	"box":     box,
	"svg":     inlineSVG,
	"logo":    logoURL,
	"chartID": chartID,
}).ParseFS(templateFS, "templates/*.html"))

// View is what an HTML page is rendered from. Doc is only read in the
// Ready state.
type View struct {
	State    loader.State
	Message  string
	Doc      *compose.Document
	RenderID string
	// Refresh, in seconds, makes the loading page poll until resolution.
	Refresh int
}

// PageTitle is the document title shown in the browser tab.
func (v View) PageTitle() string {
	if v.State == loader.Ready && v.Doc != nil {
		return v.Doc.Title
	}
	return "Evaluation report"
}

// NewView builds the view for a load result, composing the document when
// the result is Ready.
func NewView(res loader.Result, b compose.Branding, renderID string) (View, error) {
	v := View{State: res.State, Message: res.Message, RenderID: renderID}
	if res.State != loader.Ready {
		return v, nil
	}
	doc, err := compose.Build(res.Report, b)
	if err != nil {
		return v, err
	}
	v.Doc = doc
	return v, nil
}

// HTML writes the page for v. Nothing is written if the template fails.
func HTML(w io.Writer, v View) error {
	name := "loading.html"
	switch v.State {
	case loader.Error:
		name = "error.html"
		v.Message = loader.ErrorMessage
	case loader.Ready:
		if v.Doc == nil {
			return fmt.Errorf("render: ready view without a document")
		}
		name = "ready.html"
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, v); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func box(r chart.Rect) template.CSS {
	return template.CSS(fmt.Sprintf("left:%.2fmm;top:%.2fmm;width:%.2fmm;height:%.2fmm",
		r.X, r.Y, r.W, r.H))
}

// chartID names the SVG elements of the i-th question chart. Charts share
// one id namespace per document, so ids come from the position, never from
// dataset text.
func chartID(i int) string {
	return fmt.Sprintf("q-%d", i+1)
}

// inlineSVG renders a chart for embedding. Its viewBox is in page
// coordinates, so it fills the box it is placed in.
func inlineSVG(c chart.Chart, id string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := chart.SVG(&buf, c, id); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func logoURL(img []byte) template.URL {
	return template.URL("data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img))
}

// SVG writes the whole page as one SVG document in page millimetres.
func SVG(w io.Writer, doc *compose.Document) error {
	var buf bytes.Buffer
	page := doc.Page
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%gmm" height="%gmm" viewBox="0 0 %g %g" font-family="Inter, sans-serif" fill="%s">`,
		layout.PageWidth, layout.PageHeight, layout.PageWidth, layout.PageHeight, chart.TextColor)
	fmt.Fprintf(&buf, `<rect width="%g" height="%g" fill="#fff"/>`, layout.PageWidth, layout.PageHeight)

	panel := func(r chart.Rect, fill string) {
		fmt.Fprintf(&buf, `<rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" rx="1.5" fill="%s"/>`,
			r.X, r.Y, r.W, r.H, fill)
	}
	text := func(x, y, size float64, weight, color, anchor, s string) {
		fmt.Fprintf(&buf, `<text x="%.3f" y="%.3f" font-size="%.2f" font-weight="%s" fill="%s" text-anchor="%s">%s</text>`,
			x, y, size, weight, color, anchor, html.EscapeString(s))
	}
	centre := func(r chart.Rect) float64 { return r.X + r.W/2 }

	text(centre(page.Title), page.Title.Y+6, 5.3, "700", chart.TextColor, "middle", doc.Title)
	text(centre(page.Title), page.Title.Y+12, 3.7, "400", chart.TextColor, "middle", doc.Branding.Subtitle)

	panel(page.OverallPanel, chart.PanelColor)
	text(page.OverallPanel.X+3, page.OverallPanel.Y+7, 3.7, "600", chart.TextColor, "start", doc.OverallHeading)
	if err := chart.Group(&buf, doc.Overall, "overall"); err != nil {
		return err
	}

	panel(page.InsightPanel, chart.PanelColor)
	text(page.InsightPanel.X+3, page.InsightPanel.Y+7, 3.7, "600", chart.TextColor, "start", doc.Insights.Heading)
	for _, s := range []struct {
		r    chart.Rect
		stat insight.Stat
	}{{page.GainStat, doc.Insights.Gain}, {page.CountStat, doc.Insights.Respondents}} {
		panel(s.r, "#fff")
		fmt.Fprintf(&buf, `<rect x="%.3f" y="%.3f" width="1" height="%.3f" fill="%s"/>`, s.r.X, s.r.Y, s.r.H, s.stat.Color)
		text(s.r.X+3, s.r.Y+6.5, 5.3, "700", s.stat.Color, "start", s.stat.Value)
		text(s.r.X+3, s.r.Y+11, 3.2, "400", chart.TextColor, "start", s.stat.Caption)
	}
	panel(page.Narrative, "#fff")
	text(page.Narrative.X+2, page.Narrative.Y+5, 3.2, "400", chart.TextColor, "start", doc.Insights.Narrative)

	text(page.Heading.X, page.Heading.Y+6, 4.2, "600", chart.TextColor, "start", doc.Heading)
	for i, p := range doc.Panels {
		panel(p.Cell.Rect, chart.PanelColor)
		text(p.Cell.Title.X, p.Cell.Title.Y+3.5, 3.2, "600", chart.TextColor, "start", p.Label)
		if err := chart.Group(&buf, p.Chart, chartID(i)); err != nil {
			return err
		}
		text(centre(p.Cell.Gain), p.Cell.Gain.Y+4, 3.7, "700", p.GainColor, "middle", p.Gain)
	}

	fmt.Fprintf(&buf, `<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="%s" stroke-width="0.26"/>`,
		page.Footer.X, page.Footer.Y, page.Footer.Right(), page.Footer.Y, chart.GridColor)
	text(page.FooterLogo.Right()+2, page.Footer.Y+7.5, 3.2, "400", chart.OverallStyle.Accent, "start",
		doc.Branding.Brand+doc.Branding.Attribution())
	buf.WriteString(`</svg>`)

	_, err := buf.WriteTo(w)
	return err
}
