// internal/server/server.go
// Package server exposes the accessibility checker over HTTP for CI systems
// that prefer a long-lived endpoint to spawning the CLI per page.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/varkai/a11yprobe/api/schemas"
	"github.com/varkai/a11yprobe/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// checkRequest is the body of POST /api/check.
type checkRequest struct {
	URL string `json:"url"`
}

// Server hosts the check API. Browser sessions are the scarce resource, so
// admission control happens before a page is ever opened: a token-bucket
// rate limit first, then a semaphore capping concurrent sessions.
type Server struct {
	cfg      *config.Config
	checker  schemas.Checker
	logger   *zap.Logger
	limiter  *rate.Limiter
	sessions *semaphore.Weighted

	httpServer *http.Server
}

// New builds the server around an injected checker.
func New(cfg *config.Config, checker schemas.Checker, logger *zap.Logger) (*Server, error) {
	if cfg == nil || checker == nil || logger == nil {
		return nil, errors.New("cannot initialize server with nil dependencies")
	}

	s := &Server{
		cfg:      cfg,
		checker:  checker,
		logger:   logger.Named("server"),
		limiter:  rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst),
		sessions: semaphore.NewWeighted(cfg.Server.MaxSessions),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.handleHealthz)
	router.POST("/api/check", s.handleCheck)

	s.httpServer = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}
	return s, nil
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderState(c, http.StatusBadRequest, schemas.NewFailureState("", "Request body must be a JSON object with a \"url\" field"))
		return
	}

	if !s.limiter.Allow() {
		s.logger.Warn("Check request rejected by rate limit.")
		s.renderState(c, http.StatusTooManyRequests, schemas.NewFailureState(strings.TrimSpace(req.URL), "Too many requests; retry later"))
		return
	}

	if err := s.sessions.Acquire(c.Request.Context(), 1); err != nil {
		s.renderState(c, http.StatusServiceUnavailable, schemas.NewFailureState(strings.TrimSpace(req.URL), "Server is shutting down"))
		return
	}
	defer s.sessions.Release(1)

	state := s.checker.Check(c.Request.Context(), req.URL)

	status := http.StatusOK
	if !state.OK {
		// Invalid input and unreachable targets are both the client's
		// problem; the envelope carries the detail.
		status = http.StatusUnprocessableEntity
	}
	s.renderState(c, status, state)
}

// renderState writes the envelope through the same serializer the CLI
// reporters use, so both surfaces emit byte-identical shapes.
func (s *Server) renderState(c *gin.Context, status int, state *schemas.AccessibilityCheckState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("Failed to encode check result.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is canceled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting.", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received, draining connections.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error.", zap.Error(err))
		return err
	}
	return nil
}
