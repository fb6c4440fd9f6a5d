// internal/dom/metadata_test.go
package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusTargetForComposition(t *testing.T) {
	doc := mustParse(t, `<a id="cta" role="button" aria-label="Start trial" href="/go">Start</a>`)
	a := doc.First("a")
	require.NotNil(t, a)

	ft := FocusTargetFor(doc, a)
	require.NotNil(t, ft)

	assert.Equal(t, "#cta", ft.Selector)
	assert.Equal(t, "a", ft.Tag)
	assert.Equal(t, "button", ft.Role)
	assert.Equal(t, "Start trial", ft.Name)
	assert.True(t, ft.HasAccessibleName)
	assert.Contains(t, ft.HTMLSnippet, `id="cta"`)
}

func TestFocusTargetForNoName(t *testing.T) {
	doc := mustParse(t, `<a href="/x"><img src="icon.png"></a>`)
	a := doc.First("a")
	require.NotNil(t, a)

	ft := FocusTargetFor(doc, a)
	require.NotNil(t, ft)
	assert.Empty(t, ft.Name)
	assert.False(t, ft.HasAccessibleName)
}

func TestFocusTargetForRejectsBodyAndRoot(t *testing.T) {
	doc := mustParse(t, `<p>content</p>`)

	// Focus resting on body or the document root means focus left the page.
	assert.Nil(t, FocusTargetFor(doc, doc.First("body")))
	assert.Nil(t, FocusTargetFor(doc, doc.First("html")))
	assert.Nil(t, FocusTargetFor(doc, nil))
}

func TestFocusTargetSnippetCap(t *testing.T) {
	long := strings.Repeat("x", 500)
	doc := mustParse(t, `<button>`+long+`</button>`)
	btn := doc.First("button")
	require.NotNil(t, btn)

	ft := FocusTargetFor(doc, btn)
	require.NotNil(t, ft)
	assert.Len(t, []rune(ft.HTMLSnippet), SnippetLimit)
}
