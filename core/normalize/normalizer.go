// Package normalize implements the Normalizer interface.
// It converts the mirrored article body into Markdown, which feeds the
// Markdown and PDF companion exports.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// readerNoise is markup that carries no article text. Inlined images are
// dropped too; their data URIs would swamp the text.
var readerNoise = []string{"script", "style", "link", "noscript", "sup.reference", ".mw-jump-link", `img[src^="data:"]`}

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts a mirrored body fragment into Markdown.
// Intercepted anchors come out as plain text.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range readerNoise {
		doc.Find(sel).Remove()
	}
	// intercepted anchors have no href; keep only their text
	doc.Find("a:not([href])").Each(func(_ int, a *goquery.Selection) {
		a.ReplaceWithSelection(a.Contents())
	})
	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing body: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
