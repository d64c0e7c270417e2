package rewrite

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/wikimirror/core"
)

const source = "https://site/dir/"

func rewrite(t *testing.T, html string) *core.RewriteResult {
	t.Helper()
	result, err := New().Rewrite(html, source, false)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func parseBody(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestRewrite_TitlePriority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "class wins over id and order",
			html: `<h1>First</h1><h1 id="firstHeading">ById</h1><h1 class="firstHeading">ByClass</h1>`,
			want: "ByClass",
		},
		{
			name: "id wins over first h1",
			html: `<h1>First</h1><h1 id="firstHeading"><span>ById</span></h1>`,
			want: "ById",
		},
		{
			name: "first h1",
			html: `<h2>Sub</h2><h1> Plain </h1><h1>Second</h1>`,
			want: "Plain",
		},
		{
			name: "fallback",
			html: `<p>No headings here</p>`,
			want: FallbackTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, tt.html).Title)
		})
	}
}

func TestRewrite_FallbackTitleLiteral(t *testing.T) {
	assert.Equal(t, "Wikipedia Article", rewrite(t, "<p>x</p>").Title)
}

func TestRewrite_HeadReferencesAbsolute(t *testing.T) {
	html := `<html><head>
<link rel="stylesheet" href="/w/load.php?modules=site.styles">
<link rel="icon" href="favicon.ico">
<link rel="preconnect" href="//upload.wikimedia.org">
<script src="/w/load.php?modules=startup"></script>
<script src="https://www.google-analytics.com/analytics.js"></script>
</head><body></body></html>`

	result := rewrite(t, html)
	doc := parseBody(t, result.Head)

	assert.Equal(t, []string{
		"https://en.wikipedia.org/w/load.php?modules=site.styles",
		"https://site/dir/favicon.ico",
		"https://upload.wikimedia.org",
	}, doc.Find("link").Map(func(_ int, s *goquery.Selection) string {
		href, _ := s.Attr("href")
		return href
	}))

	// head scripts are kept, even tracking ones
	assert.Equal(t, 2, doc.Find("script").Length())
	src, _ := doc.Find("script").First().Attr("src")
	assert.Equal(t, "https://en.wikipedia.org/w/load.php?modules=startup", src)
}

func TestRewrite_NoHead(t *testing.T) {
	result := rewrite(t, `<p>body only</p>`)
	assert.Empty(t, result.Head)
	assert.Contains(t, result.Body, "body only")
	assert.NotContains(t, result.Body, "<body")
}

func TestRewrite_RemovesNoscriptAndTrackingScripts(t *testing.T) {
	html := `<body>
<noscript><img src="//pixel.example/p.gif"></noscript>
<script src="https://googletagmanager.com/x.js"></script>
<script src="/static/Tracker.js"></script>
<script>window.ANALYTICS = {};</script>
<script>var keep = 1;</script>
<script src="js/app.js"></script>
</body>`

	doc := parseBody(t, rewrite(t, html).Body)

	assert.Equal(t, 0, doc.Find("noscript").Length())
	scripts := doc.Find("script")
	require.Equal(t, 2, scripts.Length())
	assert.Contains(t, scripts.First().Text(), "var keep = 1;")
	src, _ := scripts.Last().Attr("src")
	assert.Equal(t, "https://site/dir/js/app.js", src)
}

func TestRewrite_RemovesSiteChrome(t *testing.T) {
	html := `<body>
<h2>History<span class="mw-editsection"><span class="mw-editsection-bracket">[</span>edit</span></h2>
<span class="mw-editsection-bracket">]</span>
<div class="navbox">nav</div>
<div class="printfooter">printed</div>
<div class="mw-authority-control">ids</div>
<div class="noprint hatnote">hatnote</div>
<div role="navigation">see also</div>
<p class="navbox">paragraph stays</p>
</body>`

	body := rewrite(t, html).Body

	for _, gone := range []string{"edit", "nav<", "printed", "ids", "hatnote", "see also", "["} {
		assert.NotContains(t, body, gone)
	}
	assert.Contains(t, body, "History")
	assert.Contains(t, body, "paragraph stays")
}

func TestRewrite_Links(t *testing.T) {
	html := `<body>
<a id="anchor" href="#section">Section</a>
<a id="wiki" href="/wiki/Foo">Foo</a>
<a id="ext" href="https://example.com/x">Example</a>
<a id="proto" href="//example.com/x">Proto</a>
<a id="rel" href="page2.html">Next</a>
<a id="js" href="javascript:alert(1)">Run</a>
<a id="name" name="top">Top</a>
</body>`

	result := rewrite(t, html)
	doc := parseBody(t, result.Body)

	anchor := doc.Find("#anchor")
	href, ok := anchor.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "#section", href)
	_, marked := anchor.Attr(core.AttrBoundaryURL)
	assert.False(t, marked)

	assertMarked(t, doc.Find("#wiki"), "https://en.wikipedia.org/wiki/Foo", "wikipedia")
	assertMarked(t, doc.Find("#ext"), "https://example.com/x", "external")
	assertMarked(t, doc.Find("#proto"), "https://example.com/x", "external")

	href, ok = doc.Find("#rel").Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "https://site/dir/page2.html", href)

	_, ok = doc.Find("#js").Attr("href")
	assert.False(t, ok)
	_, ok = doc.Find("#js").Attr(core.AttrBoundaryURL)
	assert.False(t, ok)

	assert.Equal(t, 1, doc.Find("#name").Length())

	require.Len(t, result.Links, 3)
	assert.Equal(t, core.InterceptedLink{
		Text:        "Foo",
		Original:    "/wiki/Foo",
		Destination: "https://en.wikipedia.org/wiki/Foo",
		Category:    core.CategoryWikipedia,
	}, result.Links[0])
}

func assertMarked(t *testing.T, a *goquery.Selection, destination, category string) {
	t.Helper()
	require.Equal(t, 1, a.Length())
	_, hasHref := a.Attr("href")
	assert.False(t, hasHref, "intercepted anchor must not keep href")
	got, _ := a.Attr(core.AttrBoundaryURL)
	assert.Equal(t, destination, got)
	assert.True(t, strings.HasPrefix(got, "https://"))
	typ, _ := a.Attr(core.AttrBoundaryType)
	assert.Equal(t, category, typ)
	_, hasOnclick := a.Attr("onclick")
	assert.False(t, hasOnclick)
}

func TestRewrite_Images(t *testing.T) {
	html := `<body>
<img id="proto" src="//upload.wikimedia.org/a.png" srcset="//upload.wikimedia.org/a2.png 2x">
<img id="rel" src="img/b.png">
<img id="abs" src="https://cdn.example/c.png">
</body>`

	doc := parseBody(t, rewrite(t, html).Body)

	src, _ := doc.Find("#proto").Attr("src")
	assert.Equal(t, "https://upload.wikimedia.org/a.png", src)
	srcset, _ := doc.Find("#proto").Attr("srcset")
	assert.Equal(t, "https://upload.wikimedia.org/a2.png 2x", srcset)
	src, _ = doc.Find("#rel").Attr("src")
	assert.Equal(t, "https://site/dir/img/b.png", src)
	src, _ = doc.Find("#abs").Attr("src")
	assert.Equal(t, "https://cdn.example/c.png", src)
}

func TestRewrite_EndToEnd(t *testing.T) {
	html := `<!DOCTYPE html><html><head><title>Test - Wikipedia</title></head><body>
<h1 id="firstHeading">Test</h1>
<p>See <a href="/wiki/Test">Test</a> and <a href="https://other.example/">other</a>.</p>
<img src="//upload.wikimedia.org/t.png"><img src="t2.png">
<script src="https://googletagmanager.com/x.js"></script>
</body></html>`

	result, err := New().Rewrite(html, "https://en.wikipedia.org/wiki/Test", true)
	require.NoError(t, err)

	assert.Equal(t, "Test", result.Title)
	assert.True(t, result.Offline)
	assert.NotContains(t, result.Body, "googletagmanager")

	doc := parseBody(t, result.Body)
	assert.Equal(t, 0, doc.Find("a[href]").Length())
	assert.Equal(t, 2, doc.Find("a["+core.AttrBoundaryURL+"]").Length())
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		assert.True(t, strings.HasPrefix(src, "https://"), src)
	})
	assert.Contains(t, result.Head, "<title>Test - Wikipedia</title>")
}
