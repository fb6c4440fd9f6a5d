// internal/dom/element.go
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree and provides the document-wide lookups
// the name resolver and scanner need.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// WalkElements visits every element node in document order. The walk stops
// when fn returns false.
func (d *Document) WalkElements(fn func(n *html.Node) bool) {
	walkElements(d.root, fn)
}

func walkElements(n *html.Node, fn func(n *html.Node) bool) bool {
	if n.Type == html.ElementNode && !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkElements(c, fn) {
			return false
		}
	}
	return true
}

// ElementByID returns the first element carrying the given id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	var found *html.Node
	d.WalkElements(func(n *html.Node) bool {
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// First returns the first element with the given tag name, or nil.
func (d *Document) First(tag string) *html.Node {
	var found *html.Node
	d.WalkElements(func(n *html.Node) bool {
		if n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present, empty or not.
func HasAttr(n *html.Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// TextContent concatenates all descendant text nodes, mirroring the DOM
// textContent property.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// OuterHTML serializes the element and its subtree.
func OuterHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// Snippet returns at most max characters of the element's serialized markup.
func Snippet(n *html.Node, max int) string {
	s := OuterHTML(n)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
