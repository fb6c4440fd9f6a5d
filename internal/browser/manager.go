// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/config"
)

const shutdownGracePeriod = 15 * time.Second

// Manager owns the browser process lifecycle and creates isolated sessions.
// The browser itself is launched lazily on the first page request.
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	initOnce    sync.Once

	wg sync.WaitGroup // tracks open sessions so Shutdown can drain them

	mu       sync.Mutex
	isClosed bool
}

var _ schemas.BrowserManager = (*Manager)(nil)

// NewManager creates a browser manager. Initialization is deferred until the
// first page is requested.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: logger.Named("browser_manager"),
	}
	m.logger.Debug("Browser manager created (initialization deferred).")
	return m
}

// allocatorOptions translates browser configuration into chromedp launch
// options.
func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("disable-gpu", true))
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight))
	}
	return opts
}

func (m *Manager) initialize() {
	m.initOnce.Do(func() {
		m.logger.Info("Launching browser allocator.",
			zap.Bool("headless", m.cfg.Browser.Headless),
			zap.Int("viewport_width", m.cfg.Browser.ViewportWidth),
			zap.Int("viewport_height", m.cfg.Browser.ViewportHeight),
		)
		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(
			context.Background(),
			allocatorOptions(m.cfg.Browser)...,
		)
	})
}

// NewPage creates a new isolated browser tab. Each check request gets its
// own page, so concurrent checks never share keyboard or focus state.
func (m *Manager) NewPage(ctx context.Context) (schemas.Page, error) {
	m.mu.Lock()
	if m.isClosed {
		m.mu.Unlock()
		return nil, fmt.Errorf("browser manager is shut down")
	}
	m.mu.Unlock()

	m.initialize()

	taskCtx, cancel := chromedp.NewContext(m.allocCtx)

	// Materialize the target now so launch failures surface here rather
	// than on the first navigation. Honor the caller's context while the
	// browser starts up.
	stop := context.AfterFunc(ctx, cancel)
	err := chromedp.Run(taskCtx)
	stop()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser page: %w", err)
	}

	m.wg.Add(1)
	session := newSession(taskCtx, cancel, m.cfg, m.logger, m.wg.Done)
	m.logger.Debug("New browser session created.", zap.String("session_id", session.ID()))
	return session, nil
}

// Shutdown waits for outstanding sessions to close, then tears down the
// browser process. Teardown problems are logged, never returned.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.isClosed {
		m.mu.Unlock()
		return nil
	}
	m.isClosed = true
	m.mu.Unlock()

	m.logger.Info("Shutting down browser manager.")

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	grace := time.NewTimer(shutdownGracePeriod)
	defer grace.Stop()
	select {
	case <-done:
		m.logger.Debug("All sessions closed gracefully.")
	case <-ctx.Done():
		m.logger.Warn("Context cancelled while waiting for sessions to close.", zap.Error(ctx.Err()))
	case <-grace.C:
		m.logger.Warn("Timeout waiting for sessions to close. Proceeding with forceful shutdown.")
	}

	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.logger.Info("Browser manager shutdown complete.")
	return nil
}
