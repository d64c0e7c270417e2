// Package embed implements the Embedder interface.
// It turns a mirror into a single self-contained file by replacing external
// stylesheets, images and fonts with inline content:
//  1. <link rel="stylesheet"> in the head becomes a <style> block
//  2. <img src> in the body becomes a base64 data URI
//  3. font url(...) references inside head <style> blocks become data URIs
//
// Embedding is best effort. A resource that cannot be fetched keeps its
// original reference and the run continues.
package embed

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/core/resolve"
	"github.com/gaurav-prasanna/wikimirror/logger"
)

// DefaultConcurrency bounds simultaneous resource fetches.
const DefaultConcurrency = 8

// OfflineEmbedder inlines resources fetched through a ResourceFetcher.
type OfflineEmbedder struct {
	fetcher     core.ResourceFetcher
	concurrency int
}

var _ core.Embedder = (*OfflineEmbedder)(nil)

// New creates an OfflineEmbedder. concurrency <= 0 uses DefaultConcurrency.
func New(fetcher core.ResourceFetcher, concurrency int) *OfflineEmbedder {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &OfflineEmbedder{fetcher: fetcher, concurrency: concurrency}
}

// Embed returns head and body with every successfully fetched reference
// inlined. Fetch failures are logged and recorded, never returned.
func (e *OfflineEmbedder) Embed(ctx context.Context, head, body string) (*core.EmbedResult, error) {
	result := &core.EmbedResult{Head: head, Body: body}

	var headSel *goquery.Selection
	if strings.TrimSpace(head) != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(head))
		if err != nil {
			return nil, fmt.Errorf("parsing head: %w", err)
		}
		headSel = doc.Find("head").First()

		logger.Info("  Downloading and embedding stylesheets...")
		result.Resources = append(result.Resources, e.embedStylesheets(ctx, headSel)...)
	}

	bodySel, err := parseBodyFragment(body)
	if err != nil {
		return nil, err
	}
	logger.Info("  Downloading and embedding images...")
	result.Resources = append(result.Resources, e.embedImages(ctx, bodySel)...)

	if headSel != nil {
		logger.Info("  Downloading and embedding fonts...")
		result.Resources = append(result.Resources, e.embedFonts(ctx, headSel)...)

		if result.Head, err = goquery.OuterHtml(headSel); err != nil {
			return nil, fmt.Errorf("serializing head: %w", err)
		}
	}

	if result.Body, err = bodySel.Html(); err != nil {
		return nil, fmt.Errorf("serializing body: %w", err)
	}
	return result, nil
}

// embedStylesheets replaces each fetched stylesheet link with an inline
// <style> holding the stylesheet text verbatim.
func (e *OfflineEmbedder) embedStylesheets(ctx context.Context, head *goquery.Selection) []core.EmbeddedResource {
	links := head.Find(`link[rel~="stylesheet"][href]`)
	refs := make([]core.ResourceReference, links.Length())
	links.Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		refs[i] = reference(core.KindStylesheet, href)
		logger.Debug("Downloading CSS: %s", logger.Truncate(href, 80))
	})

	fetched := e.fetchAll(ctx, refs)
	records := make([]core.EmbeddedResource, len(refs))

	links.Each(func(i int, s *goquery.Selection) {
		ref := refs[i]
		res := fetched[ref.Resolved]
		records[i] = record(ref, res)
		if res.err != nil {
			return
		}

		data := bytes.TrimPrefix(res.data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			logger.Warn("Error processing CSS %s: %v", ref.Original, core.ErrNotUTF8)
			records[i].Embedded = false
			records[i].Err = core.ErrNotUTF8.Error()
			return
		}
		s.ReplaceWithNodes(styleNode(string(data), s))
	})

	return records
}

// embedImages rewrites each fetched image source to a data URI. srcset is
// dropped so the browser does not reach for remote candidates.
func (e *OfflineEmbedder) embedImages(ctx context.Context, body *goquery.Selection) []core.EmbeddedResource {
	images := body.Find("img[src]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		return !resolve.IsDataURI(src)
	})

	refs := make([]core.ResourceReference, images.Length())
	images.Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		refs[i] = reference(core.KindImage, src)
		logger.Debug("Downloading image: %s", logger.Truncate(src, 80))
	})

	fetched := e.fetchAll(ctx, refs)
	records := make([]core.EmbeddedResource, len(refs))

	images.Each(func(i int, s *goquery.Selection) {
		ref := refs[i]
		res := fetched[ref.Resolved]
		records[i] = record(ref, res)
		if res.err != nil {
			return
		}
		s.SetAttr("src", DataURI(ref.MediaType, res.data))
		s.RemoveAttr("srcset")
	})

	return records
}

// embedFonts inlines font files referenced from every head <style> block,
// including the ones created by embedStylesheets.
func (e *OfflineEmbedder) embedFonts(ctx context.Context, head *goquery.Selection) []core.EmbeddedResource {
	styles := head.Find("style")
	perStyle := make([][]string, styles.Length())

	var refs []core.ResourceReference
	seen := make(map[string]bool)
	styles.Each(func(i int, s *goquery.Selection) {
		perStyle[i] = FontURLs(s.Text())
		for _, u := range perStyle[i] {
			if seen[u] {
				continue
			}
			seen[u] = true
			ref := core.ResourceReference{
				Kind:      core.KindFont,
				Original:  u,
				Resolved:  resolve.Resolve(u, resolve.KnownOrigin),
				MediaType: resolve.MediaType(u, core.KindFont),
			}
			refs = append(refs, ref)
			logger.Debug("Downloading font: %s", logger.Truncate(u, 80))
		}
	})

	fetched := e.fetchAll(ctx, refs)
	replacements := make(map[string]string, len(refs))
	records := make([]core.EmbeddedResource, len(refs))
	for i, ref := range refs {
		res := fetched[ref.Resolved]
		records[i] = record(ref, res)
		if res.err == nil {
			replacements[ref.Original] = DataURI(ref.MediaType, res.data)
		}
	}

	styles.Each(func(i int, s *goquery.Selection) {
		css := s.Text()
		changed := false
		for _, u := range perStyle[i] {
			if uri, ok := replacements[u]; ok {
				css = ReplaceURL(css, u, uri)
				changed = true
			}
		}
		if changed {
			setText(s.Get(0), css)
		}
	})

	return records
}

func reference(kind core.ResourceKind, raw string) core.ResourceReference {
	raw = strings.TrimSpace(raw)
	return core.ResourceReference{
		Kind:      kind,
		Original:  raw,
		Resolved:  resolve.Resolve(raw, resolve.KnownOrigin),
		MediaType: resolve.MediaType(raw, kind),
	}
}

func record(ref core.ResourceReference, res outcome) core.EmbeddedResource {
	r := core.EmbeddedResource{ResourceReference: ref}
	if res.err != nil {
		r.Err = res.err.Error()
		return r
	}
	r.Embedded = true
	r.Bytes = len(res.data)
	return r
}

// DataURI encodes data as a base64 data URI of the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// styleNode builds a <style> element holding css, carrying over the
// link's media attribute so conditional stylesheets keep applying.
func styleNode(css string, link *goquery.Selection) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	if media, ok := link.Attr("media"); ok && media != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "media", Val: media})
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return n
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// parseBodyFragment parses markup in a <body> context so leading elements
// such as <style> or <link> stay where they are instead of moving to a head.
func parseBodyFragment(markup string) (*goquery.Selection, error) {
	container := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), container)
	if err != nil {
		return nil, fmt.Errorf("parsing body: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(container).Selection, nil
}
