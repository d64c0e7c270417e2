// Package rewrite implements the Rewriter interface.
// It turns a fetched page into a sandboxed mirror by:
//  1. Selecting the article title
//  2. Making head resource references absolute
//  3. Dropping noscript blocks, tracking scripts and site chrome
//  4. Replacing outbound anchor hrefs with boundary markers
//  5. Making image sources absolute
//
// Each pass selects its targets first and edits afterwards, so removals
// never invalidate a traversal in progress.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/core/resolve"
)

// FallbackTitle is used when the page has no heading at all.
const FallbackTitle = "Wikipedia Article"

// titleSelectors are tried in order; the first non-empty match wins.
var titleSelectors = []string{"h1.firstHeading", "h1#firstHeading", "h1"}

// chromeSelectors are site editing and navigation artifacts removed from
// the body. They are irrelevant to reading and expose the origin's
// editing affordances.
var chromeSelectors = []string{
	"span.mw-editsection",
	"span.mw-editsection-bracket",
	"div.navbox",
	"div.printfooter",
	"div.mw-authority-control",
	"div.noprint",
	`div[role="navigation"]`,
}

var chrome = cascadia.MustCompile(strings.Join(chromeSelectors, ", "))

// trackingMarkers flag body scripts for removal when found, case-insensitively,
// in a script's src or inline text.
var trackingMarkers = []string{"analytics", "tracker", "google"}

// HTMLRewriter rewrites raw HTML into a mirror head and body.
type HTMLRewriter struct{}

var _ core.Rewriter = (*HTMLRewriter)(nil)

// New creates an HTMLRewriter.
func New() *HTMLRewriter {
	return &HTMLRewriter{}
}

// Rewrite parses html, applies every rewrite pass against sourceURL and
// serializes the head and the body's children.
func (r *HTMLRewriter) Rewrite(html, sourceURL string, offline bool) (*core.RewriteResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := selectTitle(doc)

	head := doc.Find("head").First()
	rewriteHead(head, sourceURL)

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}

	body.Find("noscript").Remove()
	rewriteScripts(body, sourceURL)
	body.FindMatcher(chrome).Remove()
	links := interceptLinks(body, sourceURL)
	normalizeImages(body, sourceURL)

	headHTML, err := serializeHead(head)
	if err != nil {
		return nil, err
	}
	bodyHTML, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing body: %w", err)
	}

	return &core.RewriteResult{
		Title:     title,
		Head:      headHTML,
		Body:      bodyHTML,
		Offline:   offline,
		SourceURL: sourceURL,
		Links:     links,
	}, nil
}

func selectTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return FallbackTitle
}

// rewriteHead makes every link href and script src in the head absolute.
// Head scripts are never removed.
func rewriteHead(head *goquery.Selection, sourceURL string) {
	head.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		s.SetAttr("href", resolve.Resolve(strings.TrimSpace(href), sourceURL))
	})
	head.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		s.SetAttr("src", resolve.Resolve(strings.TrimSpace(src), sourceURL))
	})
}

// rewriteScripts removes tracking scripts and makes the remaining script
// sources absolute. Inline scripts are otherwise left as-is.
func rewriteScripts(body *goquery.Selection, sourceURL string) {
	body.Find("script").FilterFunction(isTracking).Remove()

	body.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src = strings.TrimSpace(src); src != "" {
			s.SetAttr("src", resolve.Resolve(src, sourceURL))
		}
	})
}

func isTracking(_ int, s *goquery.Selection) bool {
	src, _ := s.Attr("src")
	return containsMarker(src) || containsMarker(s.Text())
}

func containsMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range trackingMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// interceptLinks rewrites anchors per category. Anchors are never dropped:
// intercepted ones lose their href and gain a boundary marker.
func interceptLinks(body *goquery.Selection, sourceURL string) []core.InterceptedLink {
	var links []core.InterceptedLink

	body.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		raw, _ := a.Attr("href")
		href := strings.TrimSpace(raw)

		if resolve.IsScriptURL(href) {
			a.RemoveAttr("href")
			return
		}

		category := resolve.Classify(href)
		switch category {
		case core.CategoryInternalAnchor:
			return
		case core.CategoryRelative:
			a.SetAttr("href", resolve.Resolve(href, sourceURL))
			return
		}

		destination := resolve.Destination(href, category)
		a.RemoveAttr("href")
		a.SetAttr(core.AttrBoundaryURL, destination)
		a.SetAttr(core.AttrBoundaryType, string(category))
		a.SetAttr("role", "link")
		a.SetAttr("tabindex", "0")

		links = append(links, core.InterceptedLink{
			Text:        strings.TrimSpace(a.Text()),
			Original:    raw,
			Destination: destination,
			Category:    category,
		})
	})

	return links
}

func normalizeImages(body *goquery.Selection, sourceURL string) {
	body.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		img.SetAttr("src", resolve.ResolveImage(strings.TrimSpace(src), sourceURL))
	})
	body.Find("img[srcset], picture source[srcset]").Each(func(_ int, s *goquery.Selection) {
		srcset, _ := s.Attr("srcset")
		s.SetAttr("srcset", resolve.ResolveSrcset(srcset, sourceURL))
	})
}

// serializeHead returns the head's outer HTML, or "" when the page had no
// head content for the parser to place there.
func serializeHead(head *goquery.Selection) (string, error) {
	if head.Length() == 0 || head.Children().Length() == 0 {
		return "", nil
	}
	html, err := goquery.OuterHtml(head)
	if err != nil {
		return "", fmt.Errorf("serializing head: %w", err)
	}
	return html, nil
}
