// internal/reporting/reporter_test.go
package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/reporting"
)

const testToolVersion = "v1.0.0-test"

// bufferCloser is an in-memory WriteCloser that records whether Close ran.
type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func successState() *schemas.AccessibilityCheckState {
	consistent := true
	return &schemas.AccessibilityCheckState{
		OK:        true,
		Summary:   "Checked https://example.com: 2 focusable element(s), 1 ARIA-attributed element(s)",
		URL:       "https://example.com",
		CheckID:   "f6b9a1de-0000-0000-0000-000000000000",
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TabOrder: &schemas.TabOrderReport{
			Visited: []schemas.FocusTarget{
				{Selector: "#home", Tag: "a", Name: "Home", HasAccessibleName: true},
				{Selector: "#docs", Tag: "a", Name: "Docs", HasAccessibleName: true},
			},
			ShiftTabConsistent: &consistent,
		},
		Aria: &schemas.AriaReport{
			AriaAttributeCount: 1,
			ImagesMissingAlt: []schemas.ImageFinding{
				{Src: "/logo.png", Snippet: `<img src="/logo.png">`},
			},
		},
	}
}

func TestNew_Stdout(t *testing.T) {
	for _, format := range []string{"json", "junit"} {
		t.Run(format, func(t *testing.T) {
			r, err := reporting.New(format, "stdout", testToolVersion)
			require.NoError(t, err)
			assert.NotNil(t, r)
			assert.NoError(t, r.Close())

			r, err = reporting.New(format, "", testToolVersion)
			require.NoError(t, err)
			assert.NotNil(t, r)
			assert.NoError(t, r.Close())
		})
	}
}

func TestNew_File(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.json")

	r, err := reporting.New("json", tmpFile, testToolVersion)
	require.NoError(t, err)

	_, err = os.Stat(tmpFile)
	assert.NoError(t, err, "Output file should have been created")

	require.NoError(t, r.Write(successState()))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"https://example.com"`)
}

func TestNew_Failure_UnsupportedFormat(t *testing.T) {
	r, err := reporting.New("sarif", "stdout", testToolVersion)
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "unsupported output format: sarif")

	// Errors after file creation must not leak the handle.
	tmpFile := filepath.Join(t.TempDir(), "report.out")
	r, err = reporting.New("bogus", tmpFile, testToolVersion)
	assert.Error(t, err)
	assert.Nil(t, r)

	info, err := os.Stat(tmpFile)
	require.NoError(t, err, "File should still exist after failure")
	assert.Equal(t, int64(0), info.Size(), "File should be empty as initialization failed")
}

func TestNew_Failure_FileCreation(t *testing.T) {
	// A directory path cannot be opened as an output file.
	invalidPath := t.TempDir()

	r, err := reporting.New("json", invalidPath, testToolVersion)
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestJSONReporter_RoundTrip(t *testing.T) {
	buf := &bufferCloser{}
	r := reporting.NewJSONReporter(buf)

	require.NoError(t, r.Write(successState()))
	require.NoError(t, r.Close())
	assert.True(t, buf.closed)

	var decoded schemas.AccessibilityCheckState
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.OK)
	assert.Equal(t, "https://example.com", decoded.URL)
	require.NotNil(t, decoded.TabOrder)
	assert.Len(t, decoded.TabOrder.Visited, 2)
	require.NotNil(t, decoded.TabOrder.ShiftTabConsistent)
	assert.True(t, *decoded.TabOrder.ShiftTabConsistent)
}

func TestJSONReporter_OmitsEmptySections(t *testing.T) {
	buf := &bufferCloser{}
	r := reporting.NewJSONReporter(buf)

	require.NoError(t, r.Write(schemas.NewFailureState("", "Missing URL")))
	require.NoError(t, r.Close())

	out := buf.String()
	assert.Contains(t, out, `"Missing URL"`)
	assert.NotContains(t, out, "tabOrder")
	assert.NotContains(t, out, "aria")
	assert.NotContains(t, out, "shiftTabConsistent")
}

func TestJUnitReporter_SuccessWithFindings(t *testing.T) {
	buf := &bufferCloser{}
	r := reporting.NewJUnitReporter(buf, testToolVersion)

	require.NoError(t, r.Write(successState()))
	require.NoError(t, r.Close())
	assert.True(t, buf.closed)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	suites := doc.SelectElement("testsuites")
	require.NotNil(t, suites)
	assert.Equal(t, "a11yprobe", suites.SelectAttrValue("name", ""))
	assert.Equal(t, "3", suites.SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suites.SelectAttrValue("failures", ""))

	suite := suites.SelectElement("testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "https://example.com", suite.SelectAttrValue("name", ""))

	prop := suite.FindElement("properties/property")
	require.NotNil(t, prop)
	assert.Equal(t, "a11yprobe.version", prop.SelectAttrValue("name", ""))
	assert.Equal(t, testToolVersion, prop.SelectAttrValue("value", ""))

	var names []string
	var failed []string
	for _, tc := range suite.SelectElements("testcase") {
		names = append(names, tc.SelectAttrValue("name", ""))
		if tc.SelectElement("failure") != nil {
			failed = append(failed, tc.SelectAttrValue("name", ""))
		}
	}
	assert.Equal(t, []string{"keyboard-tab-order", "reverse-tab-order", "images-alt-text"}, names)
	assert.Equal(t, []string{"images-alt-text"}, failed, "only the missing-alt verdict should fail")
}

func TestJUnitReporter_FailedCheckBecomesError(t *testing.T) {
	buf := &bufferCloser{}
	r := reporting.NewJUnitReporter(buf, "")

	require.NoError(t, r.Write(schemas.NewFailureState("https://down.example", "Could not load https://down.example: timeout")))
	require.NoError(t, r.Close())

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	suite := doc.FindElement("testsuites/testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "https://down.example", suite.SelectAttrValue("name", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("errors", ""))

	errEl := suite.FindElement("testcase/error")
	require.NotNil(t, errEl)
	assert.Contains(t, errEl.SelectAttrValue("message", ""), "Could not load")
}

func TestJUnitReporter_SkippedReverseVerification(t *testing.T) {
	state := successState()
	state.TabOrder.ShiftTabConsistent = nil
	state.Aria.ImagesMissingAlt = []schemas.ImageFinding{}

	buf := &bufferCloser{}
	r := reporting.NewJUnitReporter(buf, "")
	require.NoError(t, r.Write(state))
	require.NoError(t, r.Close())

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	skipped := doc.FindElement("testsuites/testsuite/testcase/skipped")
	require.NotNil(t, skipped)
	assert.Contains(t, skipped.SelectAttrValue("message", ""), "not applicable")
}
