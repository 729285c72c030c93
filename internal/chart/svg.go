package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// SVG writes c as a standalone inline SVG element. The viewBox uses page
// millimetres, so the element can be positioned directly on the page. id
// must be unique within the enclosing document.
func SVG(w io.Writer, c Chart, id string) error {
	var sb strings.Builder
	f := c.Frame

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" class="chart chart-%s" width="%.2fmm" height="%.2fmm" viewBox="%.3f %.3f %.3f %.3f" role="img">`,
		c.Style.Name, f.W, f.H, f.X, f.Y, f.W, f.H)
	writeBody(&sb, c, id)
	sb.WriteString(`</svg>`)

	_, err := io.WriteString(w, sb.String())
	return err
}

// Group writes c as a <g> element for embedding in an SVG whose user units
// are page millimetres.
func Group(w io.Writer, c Chart, id string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<g class="chart chart-%s">`, c.Style.Name)
	writeBody(&sb, c, id)
	sb.WriteString(`</g>`)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeBody(sb *strings.Builder, c Chart, id string) {
	fmt.Fprintf(sb, `<defs><clipPath id="%s-plot"><rect x="%.3f" y="%.3f" width="%.3f" height="%.3f"/></clipPath></defs>`,
		id, c.Plot.X, c.Plot.Y, c.Plot.W, c.Plot.H)

	sb.WriteString(`<g class="grid">`)
	for _, l := range c.Grid {
		fmt.Fprintf(sb, `<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="%s" stroke-width="0.26" stroke-dasharray="0.79 0.79"/>`,
			l.X1, l.Y1, l.X2, l.Y2, GridColor)
	}
	sb.WriteString(`</g>`)

	sb.WriteString(`<g class="axes">`)
	for _, l := range c.Axes {
		fmt.Fprintf(sb, `<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="#666" stroke-width="0.26"/>`,
			l.X1, l.Y1, l.X2, l.Y2)
	}
	writeLabels(sb, "ticks", c.TickLabels, c.Style.TickFontPx*PxToMM, "400", 0.35)
	writeLabels(sb, "categories", c.Categories, c.Style.TickFontPx*PxToMM, "400", 0)
	sb.WriteString(`</g>`)

	fmt.Fprintf(sb, `<g class="bars" clip-path="url(#%s-plot)">`, id)
	for _, b := range c.Bars {
		fmt.Fprintf(sb, `<rect class="bar" x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="%s"><title>%s</title></rect>`,
			b.X, b.Y, b.W, b.H, c.Style.Accent, html.EscapeString(b.Tooltip))
	}
	sb.WriteString(`</g>`)

	writeLabels(sb, "values", c.ValueLabels, c.Style.LabelFontPx*PxToMM, "600", 0)
}

// writeLabels emits a group of text elements. dy shifts the baseline so
// labels can be vertically centred on their point.
func writeLabels(sb *strings.Builder, class string, labels []Label, size float64, weight string, dy float64) {
	fmt.Fprintf(sb, `<g class="%s" font-family="Inter, sans-serif" font-size="%.3f" font-weight="%s" fill="%s">`,
		class, size, weight, TextColor)
	for _, l := range labels {
		fmt.Fprintf(sb, `<text x="%.3f" y="%.3f" text-anchor="%s">%s</text>`,
			l.X, l.Y+dy*size, l.Anchor, html.EscapeString(l.Text))
	}
	sb.WriteString(`</g>`)
}
