package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	html := `<h1 id="firstHeading">Go</h1>
<p>Go is a <a data-boundary-url="https://en.wikipedia.org/wiki/Programming_language" data-boundary-type="wikipedia">programming language</a><sup class="reference">[1]</sup>.</p>
<style>.x{color:red}</style>
<script>var x = 1;</script>`

	md, err := New().Normalize(html)
	require.NoError(t, err)

	assert.Contains(t, md, "# Go")
	assert.Contains(t, md, "Go is a programming language.")
	assert.NotContains(t, md, "](")
	assert.NotContains(t, md, "[1]")
	assert.NotContains(t, md, "color:red")
	assert.NotContains(t, md, "var x")
}

func TestNormalize_KeepsResolvedLinks(t *testing.T) {
	md, err := New().Normalize(`<p><a href="https://site/dir/page2.html">next</a></p>`)
	require.NoError(t, err)
	assert.Equal(t, "[next](https://site/dir/page2.html)", md)
}

func TestNormalize_DropsInlinedImages(t *testing.T) {
	md, err := New().Normalize(`<p>Gopher <img src="data:image/png;base64,AAAA" alt="g"> <img src="https://up.example/g.png" alt="remote"></p>`)
	require.NoError(t, err)
	assert.NotContains(t, md, "data:")
	assert.Contains(t, md, "![remote](https://up.example/g.png)")
}

func TestNormalize_NestedMarkupInInterceptedAnchor(t *testing.T) {
	md, err := New().Normalize(`<p>See <a data-boundary-url="https://go.dev/" data-boundary-type="external"><b>go.dev</b></a> now</p>`)
	require.NoError(t, err)
	assert.Equal(t, "See **go.dev** now", md)
}
