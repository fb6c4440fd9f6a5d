// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/config"
)

// Session is one isolated browser tab. It implements schemas.Page; keyboard
// and focus state are global to the tab, so callers drive it strictly
// sequentially.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *zap.Logger

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

var _ schemas.Page = (*Session)(nil)

func newSession(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	logger *zap.Logger,
	onClose func(),
) *Session {
	id := uuid.New().String()
	return &Session{
		id:      id,
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		logger:  logger.With(zap.String("session_id", id)),
		onClose: onClose,
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// runCtx derives an operation context from the session lifetime, bounded by
// an optional timeout and cancelled when the caller's context ends.
func (s *Session) runCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var opCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		opCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		opCtx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads the URL, waits for the document body and applies the
// configured post-load settle period. The whole operation is bounded by the
// navigation timeout; exceeding it fails the check.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating to URL.", zap.String("url", url))

	navCtx, cancel := s.runCtx(ctx, s.cfg.Network.NavigationTimeout)
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if wait := s.cfg.Network.PostLoadWait; wait > 0 {
		tasks = append(tasks, chromedp.Sleep(wait))
	}

	if err := chromedp.Run(navCtx, tasks); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// PressKey dispatches a keyboard chord to the page. Only Tab and Shift+Tab
// are needed for the traversal protocol.
func (s *Session) PressKey(ctx context.Context, key schemas.Key) error {
	var action chromedp.Action
	switch key {
	case schemas.KeyTab:
		action = chromedp.KeyEvent(kb.Tab)
	case schemas.KeyShiftTab:
		action = chromedp.KeyEvent(kb.Tab, chromedp.KeyModifiers(input.ModifierShift))
	default:
		return fmt.Errorf("unsupported key chord %q", key)
	}

	runCtx, cancel := s.runCtx(ctx, 0)
	defer cancel()

	if err := chromedp.Run(runCtx, action); err != nil {
		return fmt.Errorf("key dispatch failed for %q: %w", key, err)
	}
	return nil
}

// Wait pauses for the given duration, letting focus-change side effects
// settle before the DOM is read again.
func (s *Session) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// ResetFocus clears any existing focus and resets scroll to the top-left so
// traversal results are deterministic regardless of prior page state.
func (s *Session) ResetFocus(ctx context.Context) error {
	runCtx, cancel := s.runCtx(ctx, 0)
	defer cancel()

	var ok bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(jsResetFocus, &ok)); err != nil {
		return fmt.Errorf("focus reset failed: %w", err)
	}
	return nil
}

// activeElementResult is the wire shape of the in-page extraction script.
type activeElementResult struct {
	Found    bool   `json:"found"`
	Selector string `json:"selector"`
	Tag      string `json:"tag"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	HasName  bool   `json:"hasName"`
	Snippet  string `json:"snippet"`
}

// toFocusTarget maps the script result onto the report schema. It returns
// nil when nothing useful holds focus.
func toFocusTarget(res activeElementResult) *schemas.FocusTarget {
	if !res.Found {
		return nil
	}
	return &schemas.FocusTarget{
		Selector:          res.Selector,
		Tag:               res.Tag,
		Role:              res.Role,
		Name:              res.Name,
		HasAccessibleName: res.HasName,
		HTMLSnippet:       res.Snippet,
	}
}

// ActiveElement snapshots the currently focused element via in-page
// evaluation. (nil, nil) means focus left the page.
func (s *Session) ActiveElement(ctx context.Context) (*schemas.FocusTarget, error) {
	runCtx, cancel := s.runCtx(ctx, 0)
	defer cancel()

	var res activeElementResult
	if err := chromedp.Run(runCtx, chromedp.Evaluate(jsActiveElement, &res)); err != nil {
		return nil, fmt.Errorf("focused element extraction failed: %w", err)
	}
	return toFocusTarget(res), nil
}

// FocusBySelector programmatically focuses the first element matching the
// selector and reports whether it took focus.
func (s *Session) FocusBySelector(ctx context.Context, selector string) (bool, error) {
	runCtx, cancel := s.runCtx(ctx, 0)
	defer cancel()

	script := fmt.Sprintf(jsFocusSelector, strconv.Quote(selector))
	var ok bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &ok)); err != nil {
		return false, fmt.Errorf("programmatic focus failed: %w", err)
	}
	return ok, nil
}

// Snapshot returns the serialized markup of the current document.
func (s *Session) Snapshot(ctx context.Context) (string, error) {
	runCtx, cancel := s.runCtx(ctx, 0)
	defer cancel()

	var out string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("document snapshot failed: %w", err)
	}
	return out, nil
}

// Close releases the tab. It is idempotent and never surfaces teardown
// problems to the caller; the session context cancellation tears down the
// target.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")

	if s.cancel != nil {
		s.cancel()
	}
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}
