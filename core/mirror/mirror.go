// Package mirror runs the full conversion for one input:
// load → rewrite → (embed) → assemble.
package mirror

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/core/assemble"
	"github.com/gaurav-prasanna/wikimirror/core/embed"
	"github.com/gaurav-prasanna/wikimirror/core/fetch"
	"github.com/gaurav-prasanna/wikimirror/core/rewrite"
	"github.com/gaurav-prasanna/wikimirror/logger"
)

// Pipeline holds one implementation per stage.
type Pipeline struct {
	Loader    core.Loader
	Rewriter  core.Rewriter
	Embedder  core.Embedder
	Assembler core.Assembler
}

// Result is a finished mirror and what went into it.
type Result struct {
	HTML      []byte
	Page      *core.RewriteResult
	Resources []core.EmbeddedResource
	Source    *core.Source
}

// New wires the default stages around a single HTTP fetcher.
func New(fetcher *fetch.HTTPFetcher, concurrency int) *Pipeline {
	return &Pipeline{
		Loader:    fetch.NewLoader(fetcher),
		Rewriter:  rewrite.New(),
		Embedder:  embed.New(fetcher, concurrency),
		Assembler: assemble.New(),
	}
}

// Run converts input, a URL or a file path, into a mirror document.
// Only input acquisition and parse failures are returned; resource
// failures during embedding are logged and recorded in Result.Resources.
func (p *Pipeline) Run(ctx context.Context, input string, offline bool) (*Result, error) {
	if fetch.IsURL(input) {
		logger.Info("Fetching: %s", input)
	} else {
		logger.Info("Reading: %s", input)
	}
	src, err := p.Loader.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %d bytes, base %s", len(src.HTML), src.URL)

	logger.Section("Rewrite")
	logger.Info("Processing Wikipedia content...")
	page, err := p.Rewriter.Rewrite(src.HTML, src.URL, offline)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}
	logger.Debug("title %q, %d links intercepted", page.Title, len(page.Links))

	var resources []core.EmbeddedResource
	if offline {
		if p.Embedder == nil {
			return nil, fmt.Errorf("offline mode requested without an embedder")
		}
		logger.Section("Embed")
		logger.Info("Converting to offline mode...")
		embedded, err := p.Embedder.Embed(ctx, page.Head, page.Body)
		if err != nil {
			return nil, fmt.Errorf("embed: %w", err)
		}
		page.Head = embedded.Head
		page.Body = embedded.Body
		resources = embedded.Resources
	}

	logger.Info("Generating HTML...")
	out, err := p.Assembler.Assemble(page)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	return &Result{HTML: out, Page: page, Resources: resources, Source: src}, nil
}

// Failed counts resources that were left as external references.
func (r *Result) Failed() int {
	n := 0
	for _, res := range r.Resources {
		if !res.Embedded {
			n++
		}
	}
	return n
}
