// Package fetch implements the Loader and ResourceFetcher interfaces.
// It performs HTTP GET requests with browser-like defaults, one
// timeout-bounded attempt per URL.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/wikimirror/core"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultMaxBytes  = 25 << 20
)

// Options tunes an HTTPFetcher. Zero values fall back to the defaults.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64 // 0 disables rate limiting
	MaxBytes          int64
}

// HTTPFetcher fetches pages and resources via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	limiter   *rate.Limiter
}

var _ core.ResourceFetcher = (*HTTPFetcher)(nil)

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	f := &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
	}
	if opts.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return f
}

// FetchPage retrieves an HTML page and decodes it to UTF-8 using the
// response's Content-Type and any <meta charset> declaration.
func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := f.readBody(resp.Body, url)
	if err != nil {
		return "", err
	}
	reader, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	return string(body), nil
}

// FetchBytes retrieves the raw bytes of a resource.
func (f *HTTPFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.get(ctx, url, "*/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return f.readBody(resp.Body, url)
}

// readBody reads at most maxBytes. A longer body is an error rather than a
// silently truncated resource.
func (f *HTTPFetcher) readBody(r io.Reader, url string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", core.ErrTooLarge, url, f.maxBytes)
	}
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d for %s", core.ErrUnexpectedStatus, resp.StatusCode, url)
	}
	return resp, nil
}
