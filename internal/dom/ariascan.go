// internal/dom/ariascan.go
package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/varkai/a11yprobe/api/schemas"
)

// maxImageFindings caps the number of missing-alt images a report carries.
const maxImageFindings = 20

// ariaAttrs are the attributes whose presence counts an element into the
// ARIA usage total.
var ariaAttrs = []string{"aria-label", "aria-labelledby", "aria-describedby", "role"}

// ScanAria performs the one-shot static pass over the document: it counts
// elements carrying ARIA attributes and collects images judged to lack
// usable alt text. The scan never mutates the tree, so repeated runs over an
// unchanged document yield identical reports.
func ScanAria(doc *Document) *schemas.AriaReport {
	report := &schemas.AriaReport{
		ImagesMissingAlt: []schemas.ImageFinding{},
	}

	doc.WalkElements(func(n *html.Node) bool {
		for _, attr := range ariaAttrs {
			if HasAttr(n, attr) {
				report.AriaAttributeCount++
				break
			}
		}

		if n.Data == "img" && imageMissingAlt(n) && len(report.ImagesMissingAlt) < maxImageFindings {
			src, _ := Attr(n, "src")
			report.ImagesMissingAlt = append(report.ImagesMissingAlt, schemas.ImageFinding{
				Src:     src,
				Snippet: Snippet(n, SnippetLimit),
			})
		}
		return true
	})

	return report
}

// imageMissingAlt judges whether an image lacks meaningful alt text: the alt
// attribute is absent, or it is empty after trimming and the image carries
// no role attribute. An empty alt on an element that does carry a role is
// left alone.
func imageMissingAlt(n *html.Node) bool {
	alt, ok := Attr(n, "alt")
	if !ok {
		return true
	}
	return strings.TrimSpace(alt) == "" && !HasAttr(n, "role")
}
