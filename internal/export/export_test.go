package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onepager/internal/compose"
	"onepager/internal/report"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", PDF, false},
		{"HTML", HTML, false},
		{".svg", SVG, false},
		{"png", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", PDF.ContentType())
	assert.Equal(t, "image/svg+xml", SVG.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", HTML.ContentType())
}

func TestExportNative(t *testing.T) {
	doc, err := compose.Build(report.Sample(), compose.DefaultBranding())
	require.NoError(t, err)
	ctx := context.Background()

	pdf, err := Exporter{}.Export(ctx, doc, PDF, "id-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	page, err := Exporter{}.Export(ctx, doc, HTML, "id-1")
	require.NoError(t, err)
	assert.Contains(t, string(page), `data-render-id="id-1"`)

	svg, err := Exporter{}.Export(ctx, doc, SVG, "id-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg")))

	_, err = Exporter{}.Export(ctx, doc, Format("png"), "id-1")
	assert.Error(t, err)
}
