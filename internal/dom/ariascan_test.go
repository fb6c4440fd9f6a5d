// internal/dom/ariascan_test.go
package dom

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAriaCountsAttributedElements(t *testing.T) {
	doc := mustParse(t, `
		<div aria-label="One"></div>
		<div aria-labelledby="x"></div>
		<div aria-describedby="y"></div>
		<div role="navigation"></div>
		<div aria-label="Five" role="note"></div>
		<div class="plain"></div>`)

	report := ScanAria(doc)
	// An element carrying several ARIA attributes still counts once.
	assert.Equal(t, 5, report.AriaAttributeCount)
	assert.Empty(t, report.ImagesMissingAlt)
}

func TestScanAriaMissingAltJudgement(t *testing.T) {
	doc := mustParse(t, `
		<img src="a.png">
		<img src="b.png" alt="logo">
		<img src="c.png" alt="   ">
		<img src="d.png" alt="" role="presentation">`)

	report := ScanAria(doc)

	srcs := make([]string, 0, len(report.ImagesMissingAlt))
	for _, img := range report.ImagesMissingAlt {
		srcs = append(srcs, img.Src)
	}

	// a.png has no alt at all; c.png has a blank alt and no role. The
	// blank-alt image carrying a role (d.png) is left alone, and b.png has
	// real alt text.
	assert.Equal(t, []string{"a.png", "c.png"}, srcs)
}

func TestScanAriaSingleMissingImage(t *testing.T) {
	doc := mustParse(t, `<img src="a.png"><img src="b.png" alt="logo">`)

	report := ScanAria(doc)
	require.Len(t, report.ImagesMissingAlt, 1)
	assert.Equal(t, "a.png", report.ImagesMissingAlt[0].Src)
	assert.Contains(t, report.ImagesMissingAlt[0].Snippet, `src="a.png"`)
}

func TestScanAriaCapsImageFindings(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, `<img src="img-%02d.png">`, i)
	}
	doc := mustParse(t, b.String())

	report := ScanAria(doc)
	require.Len(t, report.ImagesMissingAlt, 20)
	// The first qualifying images in document order are kept.
	assert.Equal(t, "img-00.png", report.ImagesMissingAlt[0].Src)
	assert.Equal(t, "img-19.png", report.ImagesMissingAlt[19].Src)
}

func TestScanAriaIdempotent(t *testing.T) {
	doc := mustParse(t, `
		<nav role="navigation"><a aria-label="Home">H</a></nav>
		<img src="hero.jpg">
		<img src="ok.jpg" alt="described">`)

	first := ScanAria(doc)
	second := ScanAria(doc)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("scan is not idempotent (-first +second):\n%s", diff)
	}
}
