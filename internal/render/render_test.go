package render

import (
	"bytes"
	"html"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onepager/internal/compose"
	"onepager/internal/loader"
	"onepager/internal/report"
)

func sampleDoc(t *testing.T) *compose.Document {
	t.Helper()
	doc, err := compose.Build(report.Sample(), compose.DefaultBranding())
	require.NoError(t, err)
	return doc
}

func renderHTML(t *testing.T, v View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v))
	return buf.String()
}

func TestHTMLLoadingShowsIndicatorAndNoCharts(t *testing.T) {
	out := renderHTML(t, View{State: loader.Loading, Refresh: 1, RenderID: "r1"})

	assert.Contains(t, out, `class="spinner"`)
	assert.Contains(t, out, "Loading evaluation data")
	assert.Contains(t, out, `http-equiv="refresh"`)
	assert.NotContains(t, out, "<svg")
	assert.NotContains(t, out, "Performance by Competency")
}

func TestHTMLErrorShowsFixedMessageOnly(t *testing.T) {
	v := View{State: loader.Error, Message: "dial tcp: connection refused"}
	out := renderHTML(t, v)

	assert.Contains(t, out, `role="alert">Could not load evaluation data.</div>`)
	assert.NotContains(t, out, "connection refused")
	assert.NotContains(t, out, "<svg")
}

func TestHTMLReady(t *testing.T) {
	out := renderHTML(t, View{State: loader.Ready, Doc: sampleDoc(t), RenderID: "abc"})
	text := html.UnescapeString(out)

	assert.Contains(t, out, "@page { size: A4 portrait; margin: 0; }")
	assert.Contains(t, out, `data-render-id="abc"`)
	assert.Contains(t, text, "Level 2 – Learning Outcomes")
	assert.Contains(t, text, "GenAI Skills Training Evaluation")
	assert.Contains(t, out, ">14.5%</div>")
	assert.Contains(t, out, ">9</div>")
	assert.Contains(t, out, "left:8.00mm;top:28.00mm")
	assert.Contains(t, text, "Learnformance</strong> - Turning your learning data into measurable impact")

	assert.Equal(t, 5, strings.Count(out, `class="box panel question"`))
	assert.Equal(t, 6, strings.Count(out, "<svg"))

	last := -1
	for _, g := range []string{"Q1", "Q2", "Q3", "Q4", "Q5"} {
		i := strings.Index(out, `data-id="`+g+`"`)
		require.GreaterOrEqual(t, i, 0, g)
		assert.Greater(t, i, last, "panels keep question order")
		last = i
	}

	for _, gain := range []string{">0% <span>", "+29.2% <span>", "+3.6% <span>", "+13.3% <span>"} {
		assert.Contains(t, text, gain)
	}
}

func TestHTMLNarrativeIsPlainText(t *testing.T) {
	r := report.Sample()
	r.Narrative = `<script>alert(1)</script> & more`
	doc, err := compose.Build(r, compose.DefaultBranding())
	require.NoError(t, err)

	out := renderHTML(t, View{State: loader.Ready, Doc: doc})
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt; &amp; more")
}

func TestHTMLReadyWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	err := HTML(&buf, View{State: loader.Ready})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestNewView(t *testing.T) {
	v, err := NewView(loader.Result{State: loader.Ready, Report: report.Sample()}, compose.DefaultBranding(), "id")
	require.NoError(t, err)
	require.NotNil(t, v.Doc)
	assert.Equal(t, report.DefaultTitle, v.PageTitle())

	v, err = NewView(loader.Result{State: loader.Loading}, compose.DefaultBranding(), "id")
	require.NoError(t, err)
	assert.Nil(t, v.Doc)

	big := report.Sample()
	for i := 0; i < 10; i++ {
		big.Questions = append(big.Questions, big.Questions[0])
	}
	_, err = NewView(loader.Result{State: loader.Ready, Report: big}, compose.DefaultBranding(), "id")
	assert.Error(t, err)
}

func TestHTMLLogoIsInlined(t *testing.T) {
	doc := sampleDoc(t)
	doc.Branding.Logo = testPNG(t)

	out := renderHTML(t, View{State: loader.Ready, Doc: doc})
	assert.Equal(t, 2, strings.Count(out, `src="data:image/png;base64,`))
}

func TestSVGPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sampleDoc(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="210mm" height="297mm"`))
	assert.Equal(t, 6, strings.Count(out, `<g class="chart `))
	assert.Contains(t, out, ">14.5%</text>")
	assert.Contains(t, out, ">+29.2%</text>")
	assert.Contains(t, out, `clip-path="url(#q-3-plot)"`)
}

var clipPathID = regexp.MustCompile(`<clipPath id="([^"]+)"`)

func TestChartIDsAreUniquePerDocument(t *testing.T) {
	r := report.Sample()
	r.Questions = r.Questions[:3]
	r.Questions[0].ID = "Q.1"
	r.Questions[1].ID = "Q 1"
	r.Questions[2].ID = "Ä"
	doc, err := compose.Build(r, compose.DefaultBranding())
	require.NoError(t, err)

	var page bytes.Buffer
	require.NoError(t, SVG(&page, doc))

	for name, out := range map[string]string{
		"html": renderHTML(t, View{State: loader.Ready, Doc: doc}),
		"svg":  page.String(),
	} {
		seen := map[string]bool{}
		for _, m := range clipPathID.FindAllStringSubmatch(out, -1) {
			assert.False(t, seen[m[1]], "%s: clip path %q defined twice", name, m[1])
			seen[m[1]] = true
		}
		assert.Len(t, seen, 4, name)
		for _, id := range []string{"q-1", "q-2", "q-3"} {
			assert.Contains(t, out, `clip-path="url(#`+id+`-plot)"`, name)
		}
	}
}

func TestPDFIsOnePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sampleDoc(t)))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/Count 1")
}

func TestPDFKeepsTextOutsideLatin1(t *testing.T) {
	r := report.Sample()
	r.Narrative = "Δ ≥ 15% → Łódź"
	doc, err := compose.Build(r, compose.DefaultBranding())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writePDF(&buf, doc, false))
	out := buf.String()

	// text is written as UTF-16BE glyph codes of the embedded font
	assert.Contains(t, out, utf16BE("Δ ≥ 15% → Łódź"))
	assert.NotContains(t, out, "(. . 15% . .")
	assert.Contains(t, out, "/FontFile2")
}

func utf16BE(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteByte(byte(r >> 8))
		b.WriteByte(byte(r))
	}
	return b.String()
}

func TestPDFWithLogo(t *testing.T) {
	doc := sampleDoc(t)
	doc.Branding.Logo = testPNG(t)

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, doc))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestPDFRejectsUnknownLogo(t *testing.T) {
	doc := sampleDoc(t)
	doc.Branding.Logo = []byte("not an image at all")

	err := PDF(&bytes.Buffer{}, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported logo type")
}

func TestRGB(t *testing.T) {
	r, g, b := rgb("#27AE60")
	assert.Equal(t, []int{0x27, 0xAE, 0x60}, []int{r, g, b})

	r, g, b = rgb("teal")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0x1F, G: 0x3A, B: 0x93, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
