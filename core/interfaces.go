// Package core defines the pipeline types and interfaces for wikimirror.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Source holds the raw HTML of the input page and the URL it is resolved against.
type Source struct {
	Input string // the argument as given (URL or file path)
	URL   string // base URL for relative references
	HTML  string
}

// LinkCategory classifies an anchor's original href.
type LinkCategory string

const (
	CategoryInternalAnchor LinkCategory = "internal-anchor"
	CategoryWikipedia      LinkCategory = "wikipedia"
	CategoryExternal       LinkCategory = "external"
	CategoryRelative       LinkCategory = "relative"
)

// Intercepted reports whether links of this category are replaced by a boundary marker.
func (c LinkCategory) Intercepted() bool {
	return c == CategoryWikipedia || c == CategoryExternal
}

// Boundary marker attributes written in place of an intercepted anchor's href.
// The interception script reads them back in the browser.
const (
	AttrBoundaryURL  = "data-boundary-url"
	AttrBoundaryType = "data-boundary-type"
)

// InterceptedLink is an anchor whose href was reclassified by the rewriter.
type InterceptedLink struct {
	Text        string       `json:"text"`
	Original    string       `json:"original"`
	Destination string       `json:"destination"`
	Category    LinkCategory `json:"category"`
}

// ResourceKind is the context a resource reference was found in.
type ResourceKind string

const (
	KindStylesheet ResourceKind = "stylesheet"
	KindImage      ResourceKind = "image"
	KindFont       ResourceKind = "font"
	KindScript     ResourceKind = "script"
)

// ResourceReference is a (context, url) pair found in the document.
type ResourceReference struct {
	Kind      ResourceKind `json:"kind"`
	Original  string       `json:"original"`
	Resolved  string       `json:"resolved"`
	MediaType string       `json:"media_type,omitempty"`
}

// EmbeddedResource records the outcome of embedding one reference.
// When Embedded is false the original reference was left untouched.
type EmbeddedResource struct {
	ResourceReference
	Bytes    int    `json:"bytes"`
	Embedded bool   `json:"embedded"`
	Err      string `json:"error,omitempty"`
}

// RewriteResult is the output of the document rewriter.
type RewriteResult struct {
	Title     string
	Head      string // outer HTML of <head>, empty if the page had none
	Body      string // inner HTML of <body>
	Offline   bool
	SourceURL string
	Links     []InterceptedLink
}

// EmbedResult is the output of the offline embedder.
type EmbedResult struct {
	Head      string
	Body      string
	Resources []EmbeddedResource
}

// PageMetadata describes a produced mirror for companion exports.
type PageMetadata struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Offline     bool   `json:"offline"`
	GeneratedAt string `json:"generated_at"` // ISO8601
}

// Artifact bundles everything a companion renderer may need.
type Artifact struct {
	Meta      PageMetadata
	Markdown  string
	Links     []InterceptedLink
	Resources []EmbeddedResource
}

// Loader acquires the input document from a URL or a local file.
type Loader interface {
	Load(ctx context.Context, input string) (*Source, error)
}

// ResourceFetcher retrieves raw bytes for a single resource URL.
type ResourceFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Rewriter turns raw HTML into a sandboxed head/body pair.
type Rewriter interface {
	Rewrite(html, sourceURL string, offline bool) (*RewriteResult, error)
}

// Embedder replaces external references with data URIs where it can.
type Embedder interface {
	Embed(ctx context.Context, head, body string) (*EmbedResult, error)
}

// Assembler produces the final HTML document.
type Assembler interface {
	Assemble(r *RewriteResult) ([]byte, error)
}

// Normalizer converts mirrored HTML into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts an artifact into a companion output format.
type Renderer interface {
	Render(a *Artifact) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
