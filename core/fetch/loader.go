package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/core/resolve"
)

// SourceLoader acquires the input document. Inputs starting with http://
// or https:// are fetched, anything else is read from disk.
type SourceLoader struct {
	fetcher *HTTPFetcher
}

var _ core.Loader = (*SourceLoader)(nil)

// NewLoader creates a SourceLoader backed by the given fetcher.
func NewLoader(fetcher *HTTPFetcher) *SourceLoader {
	return &SourceLoader{fetcher: fetcher}
}

// IsURL reports whether input should be fetched over the network.
// This is a literal prefix test, not address validation.
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Load returns the input's HTML together with the base URL to resolve
// relative references against. Local files resolve against the known origin.
func (l *SourceLoader) Load(ctx context.Context, input string) (*core.Source, error) {
	if IsURL(input) {
		html, err := l.fetcher.FetchPage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("fetching URL: %w", err)
		}
		return &core.Source{Input: input, URL: input, HTML: html}, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s: %w", input, err)
		}
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return &core.Source{Input: input, URL: resolve.KnownOrigin, HTML: string(data)}, nil
}
