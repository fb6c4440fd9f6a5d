// internal/dom/metadata.go
package dom

import (
	"golang.org/x/net/html"

	"github.com/varkai/a11yprobe/api/schemas"
)

// SnippetLimit caps the serialized-markup excerpt carried in a FocusTarget
// or image finding. The excerpt exists for human inspection only.
const SnippetLimit = 160

// FocusTargetFor composes the descriptor for a focused element: synthesized
// selector, raw role attribute, resolved accessible name and a markup
// snippet. It returns nil when no element is focused or when focus sits on
// the document body or root, which both mean focus has left the page and
// must not be recorded as a visited target.
func FocusTargetFor(doc *Document, n *html.Node) *schemas.FocusTarget {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if n.Data == "body" || n.Data == "html" {
		return nil
	}

	role, _ := Attr(n, "role")
	name := AccessibleName(doc, n)

	return &schemas.FocusTarget{
		Selector:          Selector(n),
		Tag:               n.Data,
		Role:              role,
		Name:              name,
		HasAccessibleName: name != "",
		HTMLSnippet:       Snippet(n, SnippetLimit),
	}
}
