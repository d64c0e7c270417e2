// Package render — manifest renderer.
// Lists what a mirror points at: every intercepted link and the outcome of
// every resource the offline embedder tried to inline.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/wikimirror/core"
)

// Manifest is the JSON document written by ManifestRenderer.
type Manifest struct {
	Metadata  core.PageMetadata       `json:"metadata"`
	Summary   Summary                 `json:"summary"`
	Headings  []Heading               `json:"headings"`
	Links     []core.InterceptedLink  `json:"links"`
	Resources []core.EmbeddedResource `json:"resources"`
}

// Summary holds counts for a quick audit.
type Summary struct {
	Links             map[core.LinkCategory]int `json:"links"`
	ResourcesTotal    int                       `json:"resources_total"`
	ResourcesEmbedded int                       `json:"resources_embedded"`
	ResourcesFailed   int                       `json:"resources_failed"`
}

// Heading is one Markdown heading of the mirrored article.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ManifestRenderer produces the JSON manifest.
type ManifestRenderer struct{}

var _ core.Renderer = (*ManifestRenderer)(nil)

// NewManifestRenderer creates a ManifestRenderer.
func NewManifestRenderer() *ManifestRenderer {
	return &ManifestRenderer{}
}

// Render builds the manifest for an artifact.
func (r *ManifestRenderer) Render(a *core.Artifact) ([]byte, error) {
	m := Manifest{
		Metadata:  a.Meta,
		Headings:  extractHeadings(a.Markdown),
		Links:     a.Links,
		Resources: a.Resources,
		Summary:   Summary{Links: make(map[core.LinkCategory]int)},
	}
	if m.Links == nil {
		m.Links = []core.InterceptedLink{}
	}
	if m.Resources == nil {
		m.Resources = []core.EmbeddedResource{}
	}

	for _, l := range a.Links {
		m.Summary.Links[l.Category]++
	}
	for _, res := range a.Resources {
		m.Summary.ResourcesTotal++
		if res.Embedded {
			m.Summary.ResourcesEmbedded++
		} else {
			m.Summary.ResourcesFailed++
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for the manifest.
func (r *ManifestRenderer) Extension() string {
	return ".json"
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}
