// Package resolve normalizes URLs found in a mirrored page.
// Root-relative paths always belong to the known origin, whatever the
// page's real base URL is.
package resolve

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/wikimirror/core"
)

const (
	// KnownOrigin is the host assumed for every root-relative URL.
	KnownOrigin = "https://en.wikipedia.org"
	// WikiPathPrefix marks article links on the known origin.
	WikiPathPrefix = "/wiki/"
)

// Resolve returns rawURL in absolute form.
//
//	#frag       -> unchanged
//	//host/x    -> https://host/x
//	/x          -> KnownOrigin + /x
//	scheme:...  -> unchanged
//	other       -> RFC 3986 resolution against base
//
// It never fails; if base does not parse the result may still be relative.
func Resolve(rawURL, base string) string {
	switch {
	case strings.HasPrefix(rawURL, "#"):
		return rawURL
	case strings.HasPrefix(rawURL, "//"):
		return "https:" + rawURL
	case strings.HasPrefix(rawURL, "/"):
		return KnownOrigin + rawURL
	case HasScheme(rawURL):
		return rawURL
	}
	return join(rawURL, base)
}

// ResolveImage normalizes an image source. Unlike Resolve, root-relative
// paths are resolved against base rather than the known origin.
func ResolveImage(src, base string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case HasScheme(src):
		return src
	}
	return join(src, base)
}

// ResolveSrcset applies ResolveImage to every candidate of a srcset value,
// keeping width and density descriptors.
func ResolveSrcset(srcset, base string) string {
	var parts []string
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}
		fields[0] = ResolveImage(fields[0], base)
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, ", ")
}

// Classify sorts an anchor href into a link category.
func Classify(href string) core.LinkCategory {
	switch {
	case strings.HasPrefix(href, "#"):
		return core.CategoryInternalAnchor
	case strings.HasPrefix(href, WikiPathPrefix):
		return core.CategoryWikipedia
	case strings.HasPrefix(href, "//"), HasScheme(href):
		return core.CategoryExternal
	}
	return core.CategoryRelative
}

// Destination returns the absolute URL a boundary marker should carry.
func Destination(href string, category core.LinkCategory) string {
	switch category {
	case core.CategoryWikipedia:
		return KnownOrigin + href
	case core.CategoryExternal:
		if strings.HasPrefix(href, "//") {
			return "https:" + href
		}
	}
	return href
}

// HasScheme reports whether s starts with an RFC 3986 scheme followed by ':'.
func HasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}

// IsScriptURL reports whether href would execute script when followed.
func IsScriptURL(href string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:")
}

// IsDataURI reports whether s is already an inline data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "data:")
}

// Extension returns the lowercased file extension of a URL's path,
// ignoring any query string or fragment.
func Extension(rawURL string) string {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

var fontTypes = map[string]string{
	".woff2": "font/woff2",
	".woff":  "font/woff",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
}

// MediaType infers a media type from the URL's extension, falling back to
// a default per resource kind.
func MediaType(rawURL string, kind core.ResourceKind) string {
	ext := Extension(rawURL)
	switch kind {
	case core.KindImage:
		if t, ok := imageTypes[ext]; ok {
			return t
		}
		return "image/jpeg"
	case core.KindFont:
		if t, ok := fontTypes[ext]; ok {
			return t
		}
		return "font/woff"
	case core.KindStylesheet:
		return "text/css"
	case core.KindScript:
		return "text/javascript"
	}
	return "application/octet-stream"
}

func join(ref, base string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
