package schemas

import "time"

// -- Check Result Schemas --

// FocusTarget is the snapshot of one focusable element visited during a
// keyboard tab walk. It is created once per Tab press and never mutated
// afterwards.
type FocusTarget struct {
	// Selector is a short synthesized CSS-like path. It is deterministic for
	// an identical DOM state but not guaranteed to be globally unique.
	Selector string `json:"selector"`
	// Tag is the lowercase element tag name.
	Tag string `json:"tag"`
	// Role carries the explicit ARIA role attribute, raw and unnormalized.
	Role string `json:"role,omitempty"`
	// Name is the resolved accessible name, empty when no source produced one.
	Name string `json:"name,omitempty"`
	// HasAccessibleName reports whether Name is non-empty after trimming.
	HasAccessibleName bool `json:"hasAccessibleName"`
	// HTMLSnippet holds up to the first 160 characters of the element's
	// serialized markup. It exists for human inspection and is never parsed.
	HTMLSnippet string `json:"htmlSnippet,omitempty"`
}

// SameElement reports whether two snapshots refer to the same element.
// Identity is the (selector, name) pair, compared exactly.
func (f FocusTarget) SameElement(other FocusTarget) bool {
	return f.Selector == other.Selector && f.Name == other.Name
}

// TabOrderReport aggregates one forward tab walk plus the optional reverse
// verification pass.
type TabOrderReport struct {
	// Visited lists the snapshots in traversal order.
	Visited []FocusTarget `json:"visited"`
	// CycleDetected is true when the walk revisited an already-seen
	// (selector, name) pair before exhausting the page.
	CycleDetected bool `json:"cycleDetected"`
	// LimitReached is true when the walk consumed the full iteration budget
	// without terminating naturally.
	LimitReached bool `json:"limitReached"`
	// ShiftTabConsistent is true when the Shift+Tab walk reproduced the
	// forward order exactly in reverse, false on a mismatch, and nil when
	// verification was not attempted (fewer than two elements visited, or
	// re-focusing the last element failed).
	ShiftTabConsistent *bool `json:"shiftTabConsistent,omitempty"`
}

// ImageFinding describes an image judged to lack usable alt text.
type ImageFinding struct {
	Src     string `json:"src,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// AriaReport is the result of the one-shot static ARIA and alt-text scan.
type AriaReport struct {
	// AriaAttributeCount counts elements carrying any of aria-label,
	// aria-labelledby, aria-describedby or role.
	AriaAttributeCount int `json:"ariaAttributeCount"`
	// ImagesMissingAlt holds at most the first 20 qualifying images in
	// document order.
	ImagesMissingAlt []ImageFinding `json:"imagesMissingAlt"`
}

// AccessibilityCheckState is the top-level result envelope for one check.
// Exactly one of the success fields (TabOrder, Aria) or Errors is populated
// per outcome.
type AccessibilityCheckState struct {
	OK        bool            `json:"ok"`
	Summary   string          `json:"summary"`
	URL       string          `json:"url,omitempty"`
	CheckID   string          `json:"checkId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	TabOrder  *TabOrderReport `json:"tabOrder,omitempty"`
	Aria      *AriaReport     `json:"aria,omitempty"`
	Errors    []string        `json:"errors,omitempty"`
}

// NewFailureState builds the failure shape of the envelope. Callers
// distinguish invalid input from runtime failure by message content only.
func NewFailureState(url string, messages ...string) *AccessibilityCheckState {
	summary := "Accessibility check failed"
	if len(messages) > 0 {
		summary = messages[0]
	}
	return &AccessibilityCheckState{
		OK:        false,
		Summary:   summary,
		URL:       url,
		Timestamp: time.Now().UTC(),
		Errors:    messages,
	}
}
