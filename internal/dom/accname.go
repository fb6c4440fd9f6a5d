// internal/dom/accname.go
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// AccessibleName computes a best-effort human-readable label for the
// element using a fixed attribute-priority chain; the first non-empty source
// wins and no later source is consulted. It returns the empty string when no
// source produces a name.
//
// The chain approximates the accessible-name computation closely enough for
// a smoke test. It deliberately omits implicit <label for> association,
// fieldset/legend association and table header association.
func AccessibleName(doc *Document, n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}

	if v, ok := Attr(n, "aria-label"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	if refs, ok := Attr(n, "aria-labelledby"); ok {
		if name := resolveLabelledBy(doc, refs); name != "" {
			return name
		}
	}

	if v, ok := Attr(n, "title"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	switch n.Data {
	case "img":
		if v, ok := Attr(n, "alt"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	case "input", "textarea":
		if v, ok := Attr(n, "placeholder"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
		if v, ok := Attr(n, "name"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}

	return strings.TrimSpace(TextContent(n))
}

// resolveLabelledBy splits an aria-labelledby value into id tokens, resolves
// each to an element, and joins their trimmed text contents with single
// spaces.
func resolveLabelledBy(doc *Document, refs string) string {
	var parts []string
	for _, id := range strings.Fields(refs) {
		ref := doc.ElementByID(id)
		if ref == nil {
			continue
		}
		if text := strings.TrimSpace(TextContent(ref)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
