package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/wikimirror/core"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		url  string
		base string
		want string
	}{
		{"fragment", "#History", "https://site/dir/", "#History"},
		{"scheme relative", "//upload.wikimedia.org/a.png", "https://site/dir/", "https://upload.wikimedia.org/a.png"},
		{"root relative ignores base", "/w/load.php?x=1", "https://other.example/page", "https://en.wikipedia.org/w/load.php?x=1"},
		{"absolute https", "https://example.com/x", "https://site/dir/", "https://example.com/x"},
		{"absolute http", "http://example.com/x", "https://site/dir/", "http://example.com/x"},
		{"mailto", "mailto:a@b.c", "https://site/dir/", "mailto:a@b.c"},
		{"relative", "page2.html", "https://site/dir/", "https://site/dir/page2.html"},
		{"dot segments", "../up.css", "https://site/dir/sub/", "https://site/dir/up.css"},
		{"malformed base", "page2.html", "%zz", "page2.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.url, tt.base))
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for _, u := range []string{
		"https://en.wikipedia.org/wiki/Go",
		"https://example.com/a/b?c=d#e",
		"http://example.com/",
	} {
		once := Resolve(u, "https://site/dir/")
		assert.Equal(t, u, once)
		assert.Equal(t, once, Resolve(once, "https://site/dir/"))
	}
}

func TestResolveImage(t *testing.T) {
	assert.Equal(t, "https://upload.wikimedia.org/x.png", ResolveImage("//upload.wikimedia.org/x.png", "https://site/dir/"))
	assert.Equal(t, "https://site/dir/img/x.png", ResolveImage("img/x.png", "https://site/dir/"))
	assert.Equal(t, "https://site/static/x.png", ResolveImage("/static/x.png", "https://site/dir/"))
	assert.Equal(t, "https://cdn.example/x.png", ResolveImage("https://cdn.example/x.png", "https://site/dir/"))
	assert.Equal(t, "data:image/png;base64,AAAA", ResolveImage("data:image/png;base64,AAAA", "https://site/dir/"))
}

func TestResolveSrcset(t *testing.T) {
	got := ResolveSrcset("//up.example/a.png 1.5x,  b.png 2x", "https://site/dir/")
	assert.Equal(t, "https://up.example/a.png 1.5x, https://site/dir/b.png 2x", got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		href string
		want core.LinkCategory
	}{
		{"#section", core.CategoryInternalAnchor},
		{"/wiki/Foo", core.CategoryWikipedia},
		{"https://example.com/x", core.CategoryExternal},
		{"http://example.com/x", core.CategoryExternal},
		{"//example.com/x", core.CategoryExternal},
		{"mailto:someone@example.com", core.CategoryExternal},
		{"page2.html", core.CategoryRelative},
		{"/w/index.php?title=Foo", core.CategoryRelative},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.href))
		})
	}
}

func TestDestination(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org/wiki/Foo", Destination("/wiki/Foo", core.CategoryWikipedia))
	assert.Equal(t, "https://example.com/x", Destination("//example.com/x", core.CategoryExternal))
	assert.Equal(t, "https://example.com/x", Destination("https://example.com/x", core.CategoryExternal))
}

func TestHasScheme(t *testing.T) {
	assert.True(t, HasScheme("https://x"))
	assert.True(t, HasScheme("mailto:x"))
	assert.True(t, HasScheme("svn+ssh://x"))
	assert.False(t, HasScheme("//x"))
	assert.False(t, HasScheme("page.html"))
	assert.False(t, HasScheme("1abc:def"))
	assert.False(t, HasScheme(":nothing"))
	assert.False(t, HasScheme("dir/file:name"))
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		url  string
		kind core.ResourceKind
		want string
	}{
		{"https://x/a.jpg", core.KindImage, "image/jpeg"},
		{"https://x/a.JPEG", core.KindImage, "image/jpeg"},
		{"https://x/a.png?width=20", core.KindImage, "image/png"},
		{"https://x/a.gif", core.KindImage, "image/gif"},
		{"https://x/a.svg", core.KindImage, "image/svg+xml"},
		{"https://x/a.webp", core.KindImage, "image/jpeg"},
		{"https://x/a.woff2", core.KindFont, "font/woff2"},
		{"https://x/a.woff", core.KindFont, "font/woff"},
		{"https://x/a.ttf", core.KindFont, "font/ttf"},
		{"https://x/a.otf", core.KindFont, "font/otf"},
		{"https://x/a.eot", core.KindFont, "font/woff"},
		{"https://x/a.css", core.KindStylesheet, "text/css"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaType(tt.url, tt.kind))
		})
	}
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:font/woff2;base64,AAA"))
	assert.True(t, IsDataURI(" DATA:image/png;base64,AAA"))
	assert.False(t, IsDataURI("https://x/data:y"))
}
