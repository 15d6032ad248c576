package report

import (
	"embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
)

//go:embed fonts/*.ttf
var fontFiles embed.FS

const bodyFont = "DejaVu"

var fontFaces = []struct {
	style string
	file  string
}{
	{"", "fonts/DejaVuSansCondensed.ttf"},
	{"B", "fonts/DejaVuSansCondensed-Bold.ttf"},
	{"I", "fonts/DejaVuSansCondensed-Oblique.ttf"},
}

// registerFonts adds the embedded UTF-8 faces of bodyFont to pdf.
func registerFonts(pdf *gofpdf.Fpdf) error {
	for _, face := range fontFaces {
		data, err := fontFiles.ReadFile(face.file)
		if err != nil {
			return fmt.Errorf("reading font %s: %w", face.file, err)
		}
		pdf.AddUTF8FontFromBytes(bodyFont, face.style, data)
	}
	return pdf.Error()
}

// pdfText prepares a string for a UTF-8 font. gofpdf only indexes glyph
// widths inside the Basic Multilingual Plane, so runes above it and invalid
// bytes become U+FFFD.
func pdfText(s string) string {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}

// isCJK matches the ideograph range MultiCell treats as a break opportunity.
func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fa5
}
