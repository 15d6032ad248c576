package report

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

const (
	pageMargin  = 15.0
	labelWidth  = 55.0
	lineHeight  = 6.0
	bodySize    = 10.0
	headingSize = 13.0
)

// Renderer turns a report into a PDF document.
type Renderer struct {
	Now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

// valueLine is one paragraph in the value column of a table row.
type valueLine struct {
	text      string
	bullet    bool
	emphasize bool
}

type document struct {
	pdf        *gofpdf.Fpdf
	valueWidth float64
}

func newDocument(now time.Time) (*document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(reportTitle, true)
	pdf.SetCreator("site-analyzer", true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.AliasNbPages("")
	if err := registerFonts(pdf); err != nil {
		return nil, err
	}

	doc := &document{pdf: pdf}
	pageWidth, _ := pdf.GetPageSize()
	doc.valueWidth = pageWidth - 2*pageMargin - labelWidth

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(bodyFont, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return doc, nil
}

// Render lays out every section of r and returns the encoded PDF.
func (rd *Renderer) Render(r models.Report) ([]byte, error) {
	now := time.Now
	if rd != nil && rd.Now != nil {
		now = rd.Now
	}

	generated := now()
	doc, err := newDocument(generated)
	if err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}
	pdf := doc.pdf
	pdf.AddPage()

	doc.header(string(r.URL), generated)
	doc.registration(r.DomainInfo)
	doc.techStack(r.TechStack)
	doc.firstSeen(r.ExistenceDate)
	doc.seo(r.SEOInfo)
	doc.dns(r.DNSInfo)
	doc.server(r.ServerInfo)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("laying out report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *document) header(url string, generated time.Time) {
	d.pdf.SetFont(bodyFont, "B", 18)
	d.pdf.CellFormat(0, 10, pdfText(reportTitle), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)

	d.pdf.SetFont(bodyFont, "B", bodySize)
	d.pdf.CellFormat(25, lineHeight, pdfText(targetURLLabel), "", 0, "L", false, 0, "")
	d.pdf.SetFont(bodyFont, "", bodySize)
	d.pdf.MultiCell(0, lineHeight, pdfText(url), "", "L", false)

	d.pdf.SetFont(bodyFont, "B", bodySize)
	d.pdf.CellFormat(25, lineHeight, pdfText(generatedLabel), "", 0, "L", false, 0, "")
	d.pdf.SetFont(bodyFont, "", bodySize)
	d.pdf.CellFormat(0, lineHeight, generated.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) heading(key string) {
	d.ensureSpace(8 + 2 + lineHeight)
	d.pdf.SetFont(bodyFont, "B", headingSize)
	d.pdf.SetFillColor(230, 236, 245)
	d.pdf.CellFormat(0, 8, pdfText(sectionTitle(key)), "", 1, "L", true, 0, "")
	d.pdf.Ln(2)
}

// sectionError draws a failed section as a red box with its message.
func (d *document) sectionError(err error) {
	d.pdf.SetFont(bodyFont, "", bodySize)
	d.pdf.SetFillColor(253, 236, 234)
	d.pdf.SetTextColor(176, 0, 32)
	d.pdf.SetDrawColor(176, 0, 32)
	d.pdf.MultiCell(0, lineHeight, pdfText(err.Error()), "1", "L", true)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.Ln(4)
}

func (d *document) empty() {
	d.pdf.SetFont(bodyFont, "I", bodySize)
	d.pdf.MultiCell(0, lineHeight, pdfText(emptySection), "", "L", false)
	d.pdf.Ln(4)
}

func (d *document) endSection() {
	d.pdf.Ln(4)
}

func (d *document) ensureSpace(h float64) {
	_, pageHeight := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageHeight-pageMargin {
		d.pdf.AddPage()
	}
}

func (d *document) lineText(v valueLine) string {
	if v.bullet {
		return pdfText(bullet + v.text)
	}
	return pdfText(v.text)
}

// countLines predicts how many lines MultiCell needs for text in the current
// font at the given width, breaking where MultiCell breaks.
func (d *document) countLines(text string, width float64) int {
	_, size := d.pdf.GetFontSize()
	wmax := int(math.Ceil((width - 2*d.pdf.GetCellMargin()) * 1000 / size))

	runes := []rune(strings.ReplaceAll(text, "\r", ""))
	nb := len(runes)
	for nb > 0 && runes[nb-1] == '\n' {
		nb--
	}

	sep, i, j, l, lines := -1, 0, 0, 0, 1
	for i < nb {
		c := runes[i]
		if c == '\n' {
			i++
			sep, j, l = -1, i, 0
			lines++
			continue
		}
		if c == ' ' || isCJK(c) {
			sep = i
		}
		l += d.pdf.GetStringSymbolWidth(string(c))
		if l > wmax {
			if sep == -1 {
				if i == j {
					i++
				}
			} else {
				i = sep + 1
			}
			sep, j, l = -1, i, 0
			lines++
		} else {
			i++
		}
	}
	return lines
}

func valueStyle(v valueLine) string {
	if v.emphasize {
		return "B"
	}
	return ""
}

// row draws a bordered two-column table row sized to its taller cell. Values
// that would not fit on one page are continued in further rows.
func (d *document) row(label string, values []valueLine) {
	if len(values) == 0 {
		values = []valueLine{{text: notAvailable}}
	}

	d.pdf.SetFont(bodyFont, "B", bodySize)
	labelText := pdfText(label)
	labelLines := d.countLines(labelText, labelWidth)

	_, pageHeight := d.pdf.GetPageSize()
	maxLines := int((pageHeight - 2*pageMargin) / lineHeight)

	var chunk []valueLine
	chunkLines := 0
	for _, v := range values {
		d.pdf.SetFont(bodyFont, valueStyle(v), bodySize)
		n := d.countLines(d.lineText(v), d.valueWidth)
		if len(chunk) > 0 && chunkLines+n > maxLines {
			d.drawRow(labelText, labelLines, chunk, chunkLines)
			chunk, chunkLines = nil, 0
		}
		chunk = append(chunk, v)
		chunkLines += n
	}
	d.drawRow(labelText, labelLines, chunk, chunkLines)
}

func (d *document) drawRow(labelText string, labelLines int, values []valueLine, valueLines int) {
	height := float64(max(labelLines, valueLines)) * lineHeight
	d.ensureSpace(height)

	x, y := d.pdf.GetXY()
	d.pdf.SetFillColor(245, 245, 245)
	d.pdf.SetDrawColor(200, 200, 200)
	d.pdf.Rect(x, y, labelWidth, height, "FD")
	d.pdf.Rect(x+labelWidth, y, d.valueWidth, height, "D")

	d.pdf.SetXY(x, y)
	d.pdf.SetFont(bodyFont, "B", bodySize)
	d.pdf.MultiCell(labelWidth, lineHeight, labelText, "", "L", false)

	d.pdf.SetXY(x+labelWidth, y)
	for _, v := range values {
		if v.emphasize {
			d.pdf.SetTextColor(200, 30, 30)
		}
		d.pdf.SetFont(bodyFont, valueStyle(v), bodySize)
		d.pdf.SetX(x + labelWidth)
		d.pdf.MultiCell(d.valueWidth, lineHeight, d.lineText(v), "", "L", false)
		d.pdf.SetTextColor(0, 0, 0)
	}

	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetXY(x, y+height)
}

func textValue(s, fallback string) []valueLine {
	if s == "" {
		s = fallback
	}
	return []valueLine{{text: s}}
}

func listValue(items []string, fallback string) []valueLine {
	if len(items) == 0 {
		return []valueLine{{text: fallback}}
	}
	lines := make([]valueLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, valueLine{text: item, bullet: true})
	}
	return lines
}

// registrationValue renders a WHOIS field, which is a string or a list
// depending on the registry and on whether it was read back from JSON.
func registrationValue(v any) []valueLine {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return textValue(val, notAvailable)
	case utils.StringList:
		return listValue(val, notAvailable)
	case []string:
		return listValue(val, notAvailable)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
		return listValue(items, notAvailable)
	}
	return textValue(fmt.Sprint(v), notAvailable)
}

func (d *document) registration(s models.Section[domain.Registration]) {
	d.heading("domain_info")
	if s.Err != nil {
		d.sectionError(s.Err)
		return
	}
	if len(s.Data) == 0 {
		d.empty()
		return
	}
	keys := make([]string, 0, len(s.Data))
	for k := range s.Data {
		keys = append(keys, k)
	}
	for _, k := range orderedKeys(whoisFields, keys) {
		d.row(labelFor(whoisFields, k), registrationValue(s.Data[k]))
	}
	d.endSection()
}

func (d *document) techStack(s models.Section[utils.TechStack]) {
	d.heading("tech_stack")
	if s.Err != nil {
		d.sectionError(s.Err)
		return
	}
	if len(s.Data) == 0 {
		d.empty()
		return
	}

	type category struct {
		label string
		names utils.StringList
	}
	categories := make([]category, 0, len(s.Data))
	for name, techs := range s.Data {
		categories = append(categories, category{label: techCategoryLabel(name), names: techs})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].label < categories[j].label })

	for _, c := range categories {
		d.row(c.label, listValue(c.names, notAvailable))
	}
	d.endSection()
}

func (d *document) firstSeen(f models.FirstSeen) {
	d.heading("existence_date")
	if f.Err != nil {
		d.sectionError(f.Err)
		return
	}
	d.row("First Seen", textValue(f.Text(), notAvailable))
	d.endSection()
}

func (d *document) seo(s models.Section[utils.SEOInfo]) {
	d.heading("seo_info")
	if s.Err != nil {
		d.sectionError(s.Err)
		return
	}
	d.row(labelFor(seoFields, "title"), textValue(s.Data.Title, notFound))
	d.row(labelFor(seoFields, "meta_description"), textValue(s.Data.MetaDescription, notFound))
	d.row(labelFor(seoFields, "meta_keywords"), textValue(s.Data.MetaKeywords, notFound))
	d.row(labelFor(seoFields, "h1_tags"), listValue(s.Data.H1Tags, notFound))
	d.endSection()
}

func (d *document) dns(s models.Section[utils.DNSRecordSet]) {
	d.heading("dns_info")
	if s.Err != nil {
		d.sectionError(s.Err)
		return
	}
	if len(s.Data.Entries) == 0 {
		d.empty()
		return
	}

	fields := make([]fieldLabel, 0, len(dnsOrder))
	for _, t := range dnsOrder {
		fields = append(fields, fieldLabel{key: t, label: dnsLabel(t)})
	}
	types := make([]string, 0, len(s.Data.Entries))
	for _, e := range s.Data.Entries {
		types = append(types, e.Type)
	}

	for _, t := range orderedKeys(fields, types) {
		entry, _ := s.Data.Get(t)
		if entry.Err != nil {
			d.row(dnsLabel(t), []valueLine{{text: entry.Err.Error(), emphasize: true}})
			continue
		}
		d.row(dnsLabel(t), listValue(entry.Records, notAvailable))
	}
	d.endSection()
}

func (d *document) server(s models.Section[utils.ServerInfo]) {
	d.heading("server_info")
	if s.Err != nil {
		d.sectionError(s.Err)
		return
	}
	d.row(labelFor(serverFields, "ip_address"), textValue(s.Data.IPAddress, notAvailable))
	d.row(labelFor(serverFields, "country"), textValue(s.Data.Country, notAvailable))
	d.row(labelFor(serverFields, "isp"), textValue(s.Data.ISP, notAvailable))
	d.endSection()
}
