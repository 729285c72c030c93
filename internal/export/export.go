// Package export turns a composed document into file bytes (HTML, SVG or
// PDF). PDFs are drawn natively or printed through headless Chrome, which
// can also measure the laid out page where fonts and wrapping are real.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"onepager/internal/compose"
	"onepager/internal/loader"
	"onepager/internal/render"
)

// Format is an output file format.
type Format string

const (
	HTML Format = "html"
	PDF  Format = "pdf"
	SVG  Format = "svg"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case HTML, PDF, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want html, pdf or svg)", s)
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case HTML:
		return "text/html; charset=utf-8"
	case PDF:
		return "application/pdf"
	case SVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// Exporter renders composed documents to bytes. With Chrome set, PDFs are
// printed from the HTML page by the browser instead of drawn natively.
type Exporter struct {
	Chrome *Printer
}

// Export renders doc in format f.
func (e Exporter) Export(ctx context.Context, doc *compose.Document, f Format, renderID string) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case HTML:
		if err := render.HTML(&buf, render.View{State: loader.Ready, Doc: doc, RenderID: renderID}); err != nil {
			return nil, err
		}
	case SVG:
		if err := render.SVG(&buf, doc); err != nil {
			return nil, err
		}
	case PDF:
		if e.Chrome == nil {
			if err := render.PDF(&buf, doc); err != nil {
				return nil, err
			}
			break
		}
		page, err := e.Export(ctx, doc, HTML, renderID)
		if err != nil {
			return nil, err
		}
		return e.Chrome.PDF(ctx, page)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return buf.Bytes(), nil
}
