// internal/dom/selector.go
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// maxSelectorDepth caps how many path levels a synthesized selector carries
// (the element itself plus its nearest ancestors). Selectors for deeply
// nested elements are therefore not guaranteed unique on the page; that is
// an accepted precision/performance trade-off.
const maxSelectorDepth = 4

// cssEscapeSet holds every character that gets backslash-escaped inside a
// selector fragment.
const cssEscapeSet = "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~ "

// EscapeCSS backslash-escapes the characters that carry meaning in a CSS
// selector.
func EscapeCSS(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(cssEscapeSet, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Selector synthesizes a short CSS-like path intended to re-locate the
// element within the same DOM snapshot. An element with a non-empty id wins
// immediately, regardless of nesting depth.
func Selector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if id, ok := Attr(n, "id"); ok && id != "" {
		return "#" + EscapeCSS(id)
	}

	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode && len(parts) < maxSelectorDepth; cur = cur.Parent {
		parts = append(parts, selectorSegment(cur))
	}
	// parts was collected innermost-first; the selector reads
	// outermost-to-innermost.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// selectorSegment builds the fragment for one path level: lowercase tag,
// dot-joined escaped classes, and a 1-based :nth-of-type index when the
// element shares its tag with a sibling.
func selectorSegment(n *html.Node) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(n.Data))

	if cls, ok := Attr(n, "class"); ok {
		for _, c := range strings.Fields(cls) {
			b.WriteByte('.')
			b.WriteString(EscapeCSS(c))
		}
	}

	if n.Parent != nil {
		sameTag := 0
		index := 0
		for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
			if sib.Type != html.ElementNode || sib.Data != n.Data {
				continue
			}
			sameTag++
			if sib == n {
				index = sameTag
			}
		}
		if sameTag > 1 {
			fmt.Fprintf(&b, ":nth-of-type(%d)", index)
		}
	}
	return b.String()
}
