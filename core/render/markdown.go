// Package render provides companion renderers for a finished mirror.
// This file implements the Markdown renderer.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/wikimirror/core"
)

// MarkdownRenderer writes the article Markdown under a short provenance header.
type MarkdownRenderer struct{}

var _ core.Renderer = (*MarkdownRenderer)(nil)

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown with the provenance line under the title.
// A title heading is added when the body does not open with one.
func (r *MarkdownRenderer) Render(a *core.Artifact) ([]byte, error) {
	body := strings.TrimSpace(a.Markdown)
	heading := "# " + a.Meta.Title
	if strings.HasPrefix(body, "# ") {
		heading, body, _ = strings.Cut(body, "\n")
		body = strings.TrimSpace(body)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n> Mirrored from %s on %s\n", heading, a.Meta.Source, a.Meta.GeneratedAt)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
