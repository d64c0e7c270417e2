// Package render — PDF renderer.
// Lays the article Markdown out as a printable handout with gofpdf.
// Headings, paragraphs, lists and code blocks are styled; images are not drawn.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/wikimirror/core"
)

var (
	numberedItem = regexp.MustCompile(`^\d+\.\s`)
	inlineLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	emphasis     = regexp.MustCompile(`(?:^|\s)[*_]([^*_]+)[*_](?:\s|$)`)
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer renders an artifact as a PDF handout.
type PDFRenderer struct{}

var _ core.Renderer = (*PDFRenderer)(nil)

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// handout carries the document and its cp1252 text translator.
type handout struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (h *handout) text(family, style string, size, lineHeight float64, s string, fill bool) {
	h.pdf.SetFont(family, style, size)
	h.pdf.MultiCell(0, lineHeight, h.tr(s), "", "L", fill)
}

// Render converts the artifact's Markdown into PDF bytes.
func (r *PDFRenderer) Render(a *core.Artifact) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(a.Meta.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	h := &handout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	h.text("Helvetica", "B", 18, 8, a.Meta.Title, false)
	pdf.Ln(2)
	pdf.SetTextColor(100, 100, 100)
	h.text("Helvetica", "I", 9, 5, "Source: "+a.Meta.Source, false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	inCode := false
	for i, line := range strings.Split(a.Markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			pdf.Ln(2)
			continue
		}
		if inCode {
			pdf.SetFillColor(245, 245, 245)
			h.text("Courier", "", 9, 4.5, line, true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			text := stripInline(strings.TrimSpace(trimmed[level:]))
			// the body's first heading repeats the handout title
			if i == 0 && level == 1 && text == a.Meta.Title {
				continue
			}
			size, ok := headingSizes[level]
			if !ok {
				size = 10
			}
			pdf.Ln(4)
			h.text("Helvetica", "B", size, size*0.6, text, false)
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			h.text("Helvetica", "", 10, 5, "• "+stripInline(trimmed[2:]), false)
		case numberedItem.MatchString(trimmed):
			h.text("Helvetica", "", 10, 5, stripInline(trimmed), false)
		default:
			h.text("Helvetica", "", 10, 5, stripInline(trimmed), false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// stripInline drops inline Markdown markup, keeping the readable text.
func stripInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = emphasis.ReplaceAllString(text, " $1 ")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = inlineLink.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(text)
}
