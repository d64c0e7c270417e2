package embed

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/wikimirror/core/resolve"
)

// fontURL matches url(...) references to font files, quoted or not.
// A query string or fragment after the extension is allowed.
var fontURL = regexp.MustCompile(`(?i)url\(['"]?([^'")]+\.(?:woff2?|ttf|otf)(?:[?#][^'")]*)?)['"]?\)`)

// FontURLs returns the distinct font URLs referenced from css, in order of
// first appearance, skipping data URIs.
func FontURLs(css string) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, m := range fontURL.FindAllStringSubmatch(css, -1) {
		u := m[1]
		if resolve.IsDataURI(u) || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// ReplaceURL substitutes dataURI for every url('original'), url("original")
// and url(original) occurrence in css. Nothing else is touched.
func ReplaceURL(css, original, dataURI string) string {
	return strings.NewReplacer(
		"url('"+original+"')", "url('"+dataURI+"')",
		`url("`+original+`")`, `url("`+dataURI+`")`,
		"url("+original+")", "url("+dataURI+")",
	).Replace(css)
}
