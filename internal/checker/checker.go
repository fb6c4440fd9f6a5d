// internal/checker/checker.go
// The Checker runs the full accessibility smoke-test pipeline for one URL:
// validate -> navigate -> tab walk -> reverse verification -> static scan.
// It is the outermost error boundary: every failure is converted into the
// failure shape of the result envelope and never leaks to the caller.
package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/config"
	"github.com/varkai/a11yprobe/internal/dom"
)

// msgMissingURL is the exact invalid-input message; callers distinguish
// input errors from runtime errors by message content only.
const msgMissingURL = "Missing URL"

const closeGracePeriod = 10 * time.Second

// Checker runs accessibility checks through an injected browser manager.
type Checker struct {
	cfg     *config.Config
	browser schemas.BrowserManager
	logger  *zap.Logger
}

var _ schemas.Checker = (*Checker)(nil)

// New builds a Checker.
func New(cfg *config.Config, browser schemas.BrowserManager, logger *zap.Logger) (*Checker, error) {
	if cfg == nil || browser == nil || logger == nil {
		return nil, fmt.Errorf("cannot initialize checker with nil dependencies")
	}
	return &Checker{
		cfg:     cfg,
		browser: browser,
		logger:  logger.Named("checker"),
	}, nil
}

// NormalizeURL validates and normalizes the target. Empty or whitespace-only
// input is rejected before any browser resources are touched; scheme-less
// targets get an https prefix.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New(msgMissingURL)
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return trimmed, nil
}

// Check runs one full check. It never returns an error: all failures are
// reported through the envelope.
func (c *Checker) Check(ctx context.Context, rawURL string) *schemas.AccessibilityCheckState {
	url, err := NormalizeURL(rawURL)
	if err != nil {
		return schemas.NewFailureState("", err.Error())
	}

	checkID := uuid.New().String()
	logger := c.logger.With(zap.String("check_id", checkID), zap.String("url", url))
	logger.Info("Starting accessibility check.")

	page, err := c.browser.NewPage(ctx)
	if err != nil {
		logger.Error("Browser session could not be started.", zap.Error(err))
		state := schemas.NewFailureState(url, fmt.Sprintf("Browser session could not be started: %v", err))
		state.CheckID = checkID
		return state
	}
	// The page is released on every exit path; teardown failures are
	// swallowed after best-effort cleanup.
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		if err := page.Close(closeCtx); err != nil {
			logger.Debug("Page close failed.", zap.Error(err))
		}
	}()

	state := c.run(ctx, logger, page, url)
	state.CheckID = checkID
	return state
}

// run executes the pipeline against an open page.
func (c *Checker) run(ctx context.Context, logger *zap.Logger, page schemas.Page, url string) *schemas.AccessibilityCheckState {
	if err := page.Navigate(ctx, url); err != nil {
		logger.Warn("Navigation failed.", zap.Error(err))
		return schemas.NewFailureState(url, fmt.Sprintf("Could not load %s: %v", url, err))
	}

	walker := NewWalker(page, c.cfg.Walker, logger)
	tabOrder, err := walker.Walk(ctx)
	if err != nil {
		logger.Error("Tab walk failed.", zap.Error(err))
		return schemas.NewFailureState(url, fmt.Sprintf("Keyboard traversal failed: %v", err))
	}
	tabOrder.ShiftTabConsistent = walker.Verify(ctx, tabOrder.Visited)

	markup, err := page.Snapshot(ctx)
	if err != nil {
		logger.Error("Document snapshot failed.", zap.Error(err))
		return schemas.NewFailureState(url, fmt.Sprintf("Could not capture the page for the ARIA scan: %v", err))
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		logger.Error("Document snapshot could not be parsed.", zap.Error(err))
		return schemas.NewFailureState(url, fmt.Sprintf("Could not parse the page for the ARIA scan: %v", err))
	}
	aria := dom.ScanAria(doc)

	logger.Info("Accessibility check complete.",
		zap.Int("visited", len(tabOrder.Visited)),
		zap.Bool("cycle_detected", tabOrder.CycleDetected),
		zap.Bool("limit_reached", tabOrder.LimitReached),
		zap.Int("aria_attribute_count", aria.AriaAttributeCount),
		zap.Int("images_missing_alt", len(aria.ImagesMissingAlt)),
	)

	return &schemas.AccessibilityCheckState{
		OK:        true,
		Summary:   summarize(url, tabOrder, aria),
		URL:       url,
		Timestamp: time.Now().UTC(),
		TabOrder:  tabOrder,
		Aria:      aria,
	}
}

// summarize produces the one-line human-readable status.
func summarize(url string, tabOrder *schemas.TabOrderReport, aria *schemas.AriaReport) string {
	var notes []string
	if tabOrder.CycleDetected {
		notes = append(notes, "tab order cycles")
	}
	if tabOrder.LimitReached {
		notes = append(notes, "tab walk hit the step limit")
	}
	if tabOrder.ShiftTabConsistent != nil && !*tabOrder.ShiftTabConsistent {
		notes = append(notes, "reverse tab order is inconsistent")
	}
	if n := len(aria.ImagesMissingAlt); n > 0 {
		notes = append(notes, fmt.Sprintf("%d image(s) missing alt text", n))
	}

	base := fmt.Sprintf("Checked %s: %d focusable element(s), %d ARIA-attributed element(s)",
		url, len(tabOrder.Visited), aria.AriaAttributeCount)
	if len(notes) == 0 {
		return base
	}
	return base + "; " + strings.Join(notes, ", ")
}
