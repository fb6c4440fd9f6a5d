// internal/reporting/junit_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/observability"
)

// Names of the synthetic test cases each check expands into. CI systems key
// history on these, so they must stay stable across releases.
const (
	caseTabOrder    = "keyboard-tab-order"
	caseReverseTab  = "reverse-tab-order"
	caseImagesAlt   = "images-alt-text"
	caseCheckFailed = "check"
)

// JUnitReporter implements the Reporter interface for the JUnit XML format
// consumed by CI systems. Each check expands into a test suite whose cases
// mirror the individual accessibility verdicts. It is thread safe.
type JUnitReporter struct {
	writer      io.WriteCloser
	logger      *zap.Logger
	toolVersion string

	mu     sync.Mutex
	states []*schemas.AccessibilityCheckState
}

// NewJUnitReporter creates a reporter that buffers check results and writes
// a single JUnit document on Close. It takes ownership of the writer.
func NewJUnitReporter(writer io.WriteCloser, toolVersion string) *JUnitReporter {
	return &JUnitReporter{
		writer:      writer,
		logger:      observability.GetLogger().Named("junit_reporter"),
		toolVersion: toolVersion,
	}
}

// Write buffers one check result.
func (r *JUnitReporter) Write(state *schemas.AccessibilityCheckState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return nil
}

// Close renders the buffered checks as a JUnit document and closes the
// writer.
func (r *JUnitReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("Finalizing JUnit report", zap.Int("total_checks", len(r.states)))

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "a11yprobe")

	totalTests, totalFailures := 0, 0
	for _, state := range r.states {
		tests, failures := r.appendSuite(suites, state)
		totalTests += tests
		totalFailures += failures
	}
	suites.CreateAttr("tests", strconv.Itoa(totalTests))
	suites.CreateAttr("failures", strconv.Itoa(totalFailures))

	doc.Indent(2)
	_, encodeErr := doc.WriteTo(r.writer)
	closeErr := r.writer.Close()

	if encodeErr != nil {
		r.logger.Error("Failed to encode JUnit report", zap.Error(encodeErr))
		return fmt.Errorf("failed to encode JUnit output: %w", encodeErr)
	}
	if closeErr != nil {
		r.logger.Error("Failed to close output writer", zap.Error(closeErr))
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}
	return nil
}

// appendSuite adds one testsuite element for a check and returns its test
// and failure counts.
func (r *JUnitReporter) appendSuite(parent *etree.Element, state *schemas.AccessibilityCheckState) (tests, failures int) {
	suite := parent.CreateElement("testsuite")
	name := state.URL
	if name == "" {
		name = "invalid-input"
	}
	suite.CreateAttr("name", name)
	if !state.Timestamp.IsZero() {
		suite.CreateAttr("timestamp", state.Timestamp.Format(time.RFC3339))
	}
	if r.toolVersion != "" {
		props := suite.CreateElement("properties")
		prop := props.CreateElement("property")
		prop.CreateAttr("name", "a11yprobe.version")
		prop.CreateAttr("value", r.toolVersion)
	}

	if !state.OK {
		// The check never produced verdicts; report one errored case.
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("name", caseCheckFailed)
		errEl := tc.CreateElement("error")
		errEl.CreateAttr("message", strings.Join(state.Errors, "; "))
		suite.CreateAttr("tests", "1")
		suite.CreateAttr("failures", "0")
		suite.CreateAttr("errors", "1")
		return 1, 1
	}

	cases := []struct {
		name    string
		failure string
		skipped string
	}{
		{name: caseTabOrder, failure: tabOrderFailure(state.TabOrder)},
		{name: caseReverseTab, failure: reverseFailure(state.TabOrder), skipped: reverseSkip(state.TabOrder)},
		{name: caseImagesAlt, failure: imagesFailure(state.Aria)},
	}

	for _, c := range cases {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("name", c.name)
		switch {
		case c.failure != "":
			f := tc.CreateElement("failure")
			f.CreateAttr("message", c.failure)
			failures++
		case c.skipped != "":
			s := tc.CreateElement("skipped")
			s.CreateAttr("message", c.skipped)
		}
		tests++
	}

	suite.CreateAttr("tests", strconv.Itoa(tests))
	suite.CreateAttr("failures", strconv.Itoa(failures))
	suite.CreateAttr("errors", "0")
	return tests, failures
}

func tabOrderFailure(tabOrder *schemas.TabOrderReport) string {
	if tabOrder == nil {
		return ""
	}
	var notes []string
	if tabOrder.CycleDetected {
		notes = append(notes, "tab order revisits an earlier element")
	}
	if tabOrder.LimitReached {
		notes = append(notes, "tab walk did not terminate within the step budget")
	}
	return strings.Join(notes, "; ")
}

func reverseFailure(tabOrder *schemas.TabOrderReport) string {
	if tabOrder == nil || tabOrder.ShiftTabConsistent == nil || *tabOrder.ShiftTabConsistent {
		return ""
	}
	return "Shift+Tab does not reproduce the forward tab order in reverse"
}

func reverseSkip(tabOrder *schemas.TabOrderReport) string {
	if tabOrder != nil && tabOrder.ShiftTabConsistent == nil {
		return "reverse verification was not applicable"
	}
	return ""
}

func imagesFailure(aria *schemas.AriaReport) string {
	if aria == nil || len(aria.ImagesMissingAlt) == 0 {
		return ""
	}
	srcs := make([]string, 0, len(aria.ImagesMissingAlt))
	for _, finding := range aria.ImagesMissingAlt {
		srcs = append(srcs, finding.Src)
	}
	return fmt.Sprintf("%d image(s) missing alt text: %s", len(srcs), strings.Join(srcs, ", "))
}
