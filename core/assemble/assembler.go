// Package assemble implements the Assembler interface.
// It wraps a rewritten head and body with the interception layer: a fixed
// stylesheet, the boundary modal markup and the client script that reads
// boundary markers back in the browser.
package assemble

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/wikimirror/core"
)

// AssetVersion identifies the interception assets baked into every mirror.
const AssetVersion = "2"

var (
	//go:embed assets/boundary.css
	boundaryCSS string
	//go:embed assets/modal.html
	modalHTML string
	//go:embed assets/boundary.js
	boundaryJS string
)

// PageAssembler produces the final mirror document.
type PageAssembler struct{}

var _ core.Assembler = (*PageAssembler)(nil)

// New creates a PageAssembler.
func New() *PageAssembler {
	return &PageAssembler{}
}

// Assemble merges the rewritten head and body with the interception layer.
func (a *PageAssembler) Assemble(r *core.RewriteResult) ([]byte, error) {
	head, err := buildHead(r.Head, r.Title)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n")
	b.WriteString(head)
	b.WriteString("\n<body>\n")
	b.WriteString(r.Body)
	b.WriteString("\n")
	b.WriteString(strings.ReplaceAll(modalHTML, "{{VERSION}}", AssetVersion))
	b.WriteString("<script>\n")
	b.WriteString(boundaryJS)
	b.WriteString("</script>\n</body>\n</html>\n")

	return []byte(b.String()), nil
}

// buildHead injects the interception stylesheet before </head>. A head is
// synthesized when the page had none, and a <title> is added when missing.
func buildHead(head, title string) (string, error) {
	style := "<style>\n" + boundaryCSS + "</style>\n"
	titleTag := "<title>" + html.EscapeString(title) + "</title>\n"

	if strings.TrimSpace(head) == "" {
		return "<head>\n<meta charset=\"utf-8\"/>\n" + titleTag + style + "</head>", nil
	}

	idx := strings.LastIndex(strings.ToLower(head), "</head>")
	if idx < 0 {
		head = "<head>" + head + "</head>"
		idx = len(head) - len("</head>")
	}

	hasTitle, err := headHasTitle(head)
	if err != nil {
		return "", err
	}
	inject := style
	if !hasTitle {
		inject = titleTag + style
	}
	return head[:idx] + inject + head[idx:], nil
}

func headHasTitle(head string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(head))
	if err != nil {
		return false, fmt.Errorf("parsing head: %w", err)
	}
	return doc.Find("head > title").Length() > 0, nil
}
