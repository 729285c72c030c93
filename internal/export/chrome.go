package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// A4 in inches, as the DevTools protocol expects.
const (
	a4WidthIn  = 210 / 25.4
	a4HeightIn = 297 / 25.4
)

// pxToMM converts CSS pixels to millimetres.
const pxToMM = 25.4 / 96

// Printer drives a Chrome instance. With ControlURL empty a headless
// browser is launched per call and torn down afterwards.
type Printer struct {
	ControlURL string
	Bin        string
	logger     *zap.Logger
}

// NewPrinter returns a printer that launches its own browser.
func NewPrinter(logger *zap.Logger) *Printer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Printer{logger: logger}
}

// Measurement is the rendered geometry of the page sheet, in millimetres
// from the top of the sheet.
type Measurement struct {
	SheetHeight   float64 `json:"sheet_height_mm"`
	ContentBottom float64 `json:"content_bottom_mm"`
	FooterTop     float64 `json:"footer_top_mm"`
	FooterBottom  float64 `json:"footer_bottom_mm"`
	// ScrollHeight is the sheet's content height including overflow.
	ScrollHeight float64 `json:"scroll_height_mm"`
}

// Fits reports whether the rendered content stays above the footer and the
// whole sheet is one page high.
func (m Measurement) Fits(pageHeight float64) bool {
	const slack = 0.5 // sub-pixel rounding in the browser
	return m.ContentBottom <= m.FooterTop+slack &&
		m.FooterBottom <= pageHeight+slack &&
		m.ScrollHeight <= pageHeight+slack
}

// measureJS reports pixel geometry relative to the .sheet element.
const measureJS = `() => {
	const sheet = document.querySelector('.sheet');
	if (!sheet) return null;
	const top = sheet.getBoundingClientRect().top;
	const footer = sheet.querySelector('footer');
	let bottom = 0;
	for (const el of sheet.querySelectorAll('.box')) {
		if (el === footer) continue;
		bottom = Math.max(bottom, el.getBoundingClientRect().bottom - top);
	}
	const f = footer ? footer.getBoundingClientRect() : {top: 0, bottom: 0};
	return {
		sheet: sheet.getBoundingClientRect().height,
		bottom: bottom,
		footerTop: f.top - top,
		footerBottom: f.bottom - top,
		scroll: sheet.scrollHeight,
	};
}`

// Measure loads html and returns the geometry Chrome actually laid out.
func (p *Printer) Measure(ctx context.Context, html []byte) (Measurement, error) {
	var m Measurement
	err := p.withPage(ctx, html, func(page *rod.Page) error {
		res, err := page.Eval(measureJS)
		if err != nil {
			return fmt.Errorf("measure page: %w", err)
		}
		if res.Value.Nil() {
			return fmt.Errorf("measure page: no .sheet element")
		}
		v := res.Value
		m = Measurement{
			SheetHeight:   v.Get("sheet").Num() * pxToMM,
			ContentBottom: v.Get("bottom").Num() * pxToMM,
			FooterTop:     v.Get("footerTop").Num() * pxToMM,
			FooterBottom:  v.Get("footerBottom").Num() * pxToMM,
			ScrollHeight:  v.Get("scroll").Num() * pxToMM,
		}
		return nil
	})
	return m, err
}

// PDF prints html to an A4 PDF with no margins.
func (p *Printer) PDF(ctx context.Context, html []byte) ([]byte, error) {
	var out []byte
	err := p.withPage(ctx, html, func(page *rod.Page) error {
		r, err := page.PDF(printOptions())
		if err != nil {
			return fmt.Errorf("print to pdf: %w", err)
		}
		defer r.Close()
		out, err = io.ReadAll(r)
		return err
	})
	return out, err
}

func printOptions() *proto.PagePrintToPDF {
	zero := 0.0
	w, h := a4WidthIn, a4HeightIn
	return &proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        &w,
		PaperHeight:       &h,
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
		PageRanges:        "1",
	}
}

func (p *Printer) withPage(ctx context.Context, html []byte, fn func(*rod.Page) error) error {
	controlURL, owned := p.ControlURL, p.ControlURL == ""
	if owned {
		l := launcher.New().Headless(true)
		if p.Bin != "" {
			l = l.Bin(p.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		defer l.Kill()
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	if owned {
		defer func() {
			if err := browser.Close(); err != nil {
				p.log().Debug("close browser", zap.Error(err))
			}
		}()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer page.Close()
	if err := page.SetDocumentContent(string(html)); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	p.log().Debug("document loaded in chrome", zap.Int("bytes", len(html)))
	return fn(page)
}

func (p *Printer) log() *zap.Logger {
	if p.logger == nil {
		return zap.NewNop()
	}
	return p.logger
}
