package schemas

import (
	"context"
	"time"
)

// -- Browser Capability Interfaces --

// Key identifies a keyboard chord the automation engine can dispatch.
type Key string

const (
	// KeyTab advances keyboard focus.
	KeyTab Key = "Tab"
	// KeyShiftTab moves keyboard focus backwards.
	KeyShiftTab Key = "Shift+Tab"
)

// Page is the capability surface the check pipeline consumes from the
// browser automation engine. Implementations own exactly one isolated
// page; keyboard and focus state are global to it, so callers drive it
// strictly sequentially.
type Page interface {
	// Navigate loads the given URL and waits for the document body to be
	// ready. It is bounded by the configured navigation timeout.
	Navigate(ctx context.Context, url string) error
	// PressKey dispatches a keyboard chord to the page.
	PressKey(ctx context.Context, key Key) error
	// Wait pauses for the given duration, allowing focus-change side effects
	// to settle before the DOM is read again.
	Wait(ctx context.Context, d time.Duration) error
	// ResetFocus clears any existing focus and resets scroll to the
	// top-left corner so traversal results are deterministic.
	ResetFocus(ctx context.Context) error
	// ActiveElement snapshots the currently focused element. It returns
	// (nil, nil) when nothing useful holds focus, including when focus sits
	// on the document body or root.
	ActiveElement(ctx context.Context) (*FocusTarget, error)
	// FocusBySelector programmatically focuses the first element matching
	// the selector. It reports false when no element matches or the element
	// did not accept focus.
	FocusBySelector(ctx context.Context, selector string) (bool, error)
	// Snapshot returns the serialized markup of the current document.
	Snapshot(ctx context.Context) (string, error)
	// Close releases the page. It is idempotent and safe to call after a
	// failure.
	Close(ctx context.Context) error
}

// BrowserManager owns the browser process lifecycle and hands out isolated
// pages. Concurrent check requests are independent because each gets its
// own page.
type BrowserManager interface {
	NewPage(ctx context.Context) (Page, error)
	// Shutdown closes all outstanding pages and the browser process.
	Shutdown(ctx context.Context) error
}

// -- Check Pipeline Interface --

// Checker runs one full accessibility smoke-test against a target URL.
// It never returns an error: every failure is converted into the failure
// shape of the envelope at this boundary.
type Checker interface {
	Check(ctx context.Context, rawURL string) *AccessibilityCheckState
}
