package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/utils"
)

func fixedRenderer() *Renderer {
	return &Renderer{Now: func() time.Time { return time.Date(2024, time.May, 4, 10, 0, 0, 0, time.UTC) }}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewAnalyzer(sampleLookups()).Analyze(context.Background(), "example.com")

	out, err := fixedRenderer().Render(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestRenderRoundTrippedReport(t *testing.T) {
	lookups := sampleLookups()
	lookups.errs = map[string]error{utils.OpServerInfo: errors.New("boom")}
	r := NewAnalyzer(lookups).Analyze(context.Background(), "https://www.example.com/about")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded models.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Error(t, decoded.ServerInfo.Err)
	assert.Equal(t, "Unexpected error while retrieving server information", decoded.ServerInfo.Err.Error())

	mx, ok := decoded.DNSInfo.Data.Get("MX")
	require.True(t, ok)
	require.Error(t, mx.Err)

	out, err := fixedRenderer().Render(decoded)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderTallRowContinuesOnNextPage(t *testing.T) {
	lookups := sampleLookups()
	txt := make(utils.StringList, 0, 40)
	for i := 0; i < 40; i++ {
		txt = append(txt, "v=spf1 "+strings.Repeat("include:_spf.example.com ", 6)+"~all")
	}
	lookups.dns.Entries = append(lookups.dns.Entries, utils.DNSEntry{Type: "TXT", Records: txt})

	out, err := fixedRenderer().Render(NewAnalyzer(lookups).Analyze(context.Background(), "example.com"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderEmptyReport(t *testing.T) {
	out, err := fixedRenderer().Render(models.Report{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, time.May, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "website-analysis-example.com-2024-05-04.pdf", Filename("https://www.example.com/about", day))
	assert.Equal(t, "website-analysis-example.com-2024-05-04.pdf", Filename("http://example.com", day))
	assert.Equal(t, "website-analysis-example.com_8080-2024-05-04.pdf", Filename("http://example.com:8080", day))
	assert.Equal(t, "website-analysis-report-2024-05-04.pdf", Filename("", day))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "JavaScript Frameworks", techCategoryLabel("Js Frameworks"))
	assert.Equal(t, "Analytics", techCategoryLabel("Analytics"))
	assert.Equal(t, "Registrant Country", labelFor(whoisFields, "registrant_country"))
	assert.Equal(t, "Abuse Contact Email", labelFor(whoisFields, "abuse_contact_email"))
	assert.Equal(t, []string{"domain_name", "registrar", "creation_date", "abuse", "zone"},
		orderedKeys(whoisFields, []string{"zone", "creation_date", "abuse", "registrar", "domain_name"}))
}

func utf16BE(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return b.String()
}

func TestRenderNonLatinReport(t *testing.T) {
	lookups := sampleLookups()
	lookups.seo = utils.SEOInfo{
		Title:           "日本語のタイトル",
		MetaDescription: "Привет мир",
		H1Tags:          utils.StringList{"Ελληνικά", "😀 emoji"},
	}
	lookups.server.ISP = "Société Générale"

	out, err := fixedRenderer().Render(NewAnalyzer(lookups).Analyze(context.Background(), "example.com"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/BaseFont /utf8dejavu")
}

func TestRowKeepsNonLatinText(t *testing.T) {
	doc, err := newDocument(time.Date(2024, time.May, 4, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	doc.pdf.SetCompression(false)
	doc.pdf.AddPage()

	doc.row("Title", textValue("日本語のタイトル", notFound))
	doc.row("Registrant", textValue("Привет мир", notAvailable))

	var buf bytes.Buffer
	require.NoError(t, doc.pdf.Output(&buf))
	page := buf.String()
	assert.Contains(t, page, "("+utf16BE("日本語のタイトル")+")Tj")
	assert.Contains(t, page, "("+utf16BE("Привет мир")+")Tj")
	assert.NotContains(t, page, "(........)")
}

func TestPDFText(t *testing.T) {
	assert.Equal(t, "日本語 Привет", pdfText("日本語 Привет"))
	assert.Equal(t, "\uFFFD ok", pdfText("😀 ok"))
	assert.Equal(t, "a\uFFFDb", pdfText("a\xffb"))
}

func TestCountLinesMatchesMultiCell(t *testing.T) {
	doc, err := newDocument(time.Now())
	require.NoError(t, err)

	texts := []string{
		"short",
		"",
		strings.Repeat("Error while retrieving DNS information: i/o timeout ", 6),
		strings.Repeat("WWWWMMMM", 30),
		strings.Repeat("日本語のタイトルとメタ説明", 12),
		"first line\nsecond line\n",
		strings.Repeat("Привет мир ", 25),
	}
	for _, style := range []string{"", "B"} {
		for _, text := range texts {
			doc.pdf.AddPage()
			doc.pdf.SetFont(bodyFont, style, bodySize)
			want := doc.countLines(text, doc.valueWidth)

			y0 := doc.pdf.GetY()
			doc.pdf.MultiCell(doc.valueWidth, lineHeight, text, "", "L", false)
			drawn := int(math.Round((doc.pdf.GetY() - y0) / lineHeight))
			assert.Equal(t, drawn, want, "style=%q text=%.30q", style, text)
		}
	}
	require.NoError(t, doc.pdf.Error())
}

func TestCountLinesBoldIsWider(t *testing.T) {
	doc, err := newDocument(time.Now())
	require.NoError(t, err)
	doc.pdf.AddPage()

	regular, bold := 0, 0
	for n := 1; n <= 40; n++ {
		text := strings.Repeat("No nameserver info ", n)
		doc.pdf.SetFont(bodyFont, "", bodySize)
		r := doc.countLines(text, doc.valueWidth)
		doc.pdf.SetFont(bodyFont, valueStyle(valueLine{emphasize: true}), bodySize)
		b := doc.countLines(text, doc.valueWidth)
		assert.GreaterOrEqual(t, b, r, "n=%d", n)
		regular += r
		bold += b
	}
	assert.Greater(t, bold, regular)
}
