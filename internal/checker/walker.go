// internal/checker/walker.go
package checker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/config"
)

// Walker drives keyboard focus traversal over a page: a bounded forward Tab
// walk, then an optional Shift+Tab verification pass over the collected
// order.
type Walker struct {
	page   schemas.Page
	cfg    config.WalkerConfig
	logger *zap.Logger
}

// NewWalker builds a walker for one page. The iteration budget and settle
// delay come from configuration; both call sites share the same value.
func NewWalker(page schemas.Page, cfg config.WalkerConfig, logger *zap.Logger) *Walker {
	return &Walker{
		page:   page,
		cfg:    cfg,
		logger: logger.Named("walker"),
	}
}

// identity is the cycle/equality key: an exact (selector, name) pair.
type identity struct {
	selector string
	name     string
}

func identityOf(ft schemas.FocusTarget) identity {
	return identity{selector: ft.Selector, name: ft.Name}
}

// Walk performs the forward Tab traversal. Terminal states:
//   - exhausted: focus left the page, or no usable element could be read
//   - cycle: an already-visited (selector, name) pair came up again; the
//     repeat entry is not appended
//   - limit: the iteration budget ran out while still discovering elements
//
// Extraction yielding nothing is normal termination, not an error; only
// key-dispatch failures propagate.
func (w *Walker) Walk(ctx context.Context) (*schemas.TabOrderReport, error) {
	if err := w.page.ResetFocus(ctx); err != nil {
		return nil, fmt.Errorf("could not reset page focus: %w", err)
	}

	report := &schemas.TabOrderReport{
		Visited: []schemas.FocusTarget{},
	}
	seen := make(map[identity]struct{})

	steps := 0
	for ; steps < w.cfg.MaxTabSteps; steps++ {
		if err := w.page.PressKey(ctx, schemas.KeyTab); err != nil {
			return nil, err
		}
		// Focus changes can trigger asynchronous DOM mutations (menus
		// expanding, elements revealed); reading the DOM immediately would
		// risk stale state.
		if err := w.page.Wait(ctx, w.cfg.SettleDelay); err != nil {
			return nil, err
		}

		target, err := w.page.ActiveElement(ctx)
		if err != nil {
			w.logger.Debug("Focused element extraction failed; treating walk as exhausted.", zap.Error(err))
			return report, nil
		}
		if target == nil {
			w.logger.Debug("Focus left the page.", zap.Int("visited", len(report.Visited)))
			return report, nil
		}

		key := identityOf(*target)
		if _, ok := seen[key]; ok {
			report.CycleDetected = true
			w.logger.Debug("Tab order cycle detected.",
				zap.String("selector", target.Selector),
				zap.Int("visited", len(report.Visited)),
			)
			return report, nil
		}

		seen[key] = struct{}{}
		report.Visited = append(report.Visited, *target)
	}

	// The loop ran out of budget while still finding new elements.
	report.LimitReached = true
	w.logger.Debug("Tab walk hit the iteration limit.",
		zap.Int("max_tab_steps", w.cfg.MaxTabSteps),
		zap.Int("visited", len(report.Visited)),
	)
	return report, nil
}

// Verify re-focuses the last visited element and walks Shift+Tab backwards,
// checking that it reproduces the forward order exactly in reverse.
// A common accessibility defect is an asymmetric tab order caused by custom
// key handlers.
//
// The result is tri-state: nil when verification was not applicable (fewer
// than two entries, or the last element could not be re-focused), false on
// the first mismatch, true when every step matched.
func (w *Walker) Verify(ctx context.Context, visited []schemas.FocusTarget) *bool {
	if len(visited) < 2 {
		return nil
	}

	last := visited[len(visited)-1]
	ok, err := w.page.FocusBySelector(ctx, last.Selector)
	if err != nil || !ok {
		w.logger.Debug("Could not re-focus last visited element; skipping reverse verification.",
			zap.String("selector", last.Selector),
			zap.Error(err),
		)
		return nil
	}

	for i := len(visited) - 2; i >= 0; i-- {
		if err := w.page.PressKey(ctx, schemas.KeyShiftTab); err != nil {
			return boolPtr(false)
		}
		if err := w.page.Wait(ctx, w.cfg.SettleDelay); err != nil {
			return boolPtr(false)
		}

		target, err := w.page.ActiveElement(ctx)
		if err != nil || target == nil {
			return boolPtr(false)
		}

		expected := visited[i]
		if !target.SameElement(expected) {
			w.logger.Debug("Reverse tab order mismatch.",
				zap.Int("position", i),
				zap.String("expected", expected.Selector),
				zap.String("got", target.Selector),
			)
			return boolPtr(false)
		}
	}
	return boolPtr(true)
}

func boolPtr(b bool) *bool {
	return &b
}
