// Package server exposes diff presentations over HTTP:
//
//	GET  /healthz                        -> {"status": "ok"}
//	GET  /api/diff/:current/:previous    -> presentation for two stored revisions
//	POST /api/diff {"current", "previous"} -> presentation for two raw texts
//
// A presentation is either returned whole or not at all; fetch failures map to JSON errors.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/logging"
	"github.com/codalotl/blobdiff/internal/presentation"
	"github.com/gin-gonic/gin"
)

const maxRequestBytes = 32 << 20

// Options configures a Server.
type Options struct {
	PresentationOptions []presentation.Option
	Logger              *log.Logger // defaults to logging.Default()
}

// Server serves diff presentations for documents resolved by a Fetcher.
type Server struct {
	fetcher blobstore.Fetcher
	opts    Options
	engine  *gin.Engine
}

// New returns a Server that resolves identifiers with fetcher.
func New(fetcher blobstore.Fetcher, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	s := &Server{fetcher: fetcher, opts: opts}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", s.handleHealth)
	r.GET("/api/diff/:current/:previous", s.handleStoredDiff)
	r.POST("/api/diff", s.handleRawDiff)
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", logging.FieldAddr, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), s.opts.Logger))
		c.Next()
		s.opts.Logger.Debug("request",
			"method", c.Request.Method,
			logging.FieldPath, c.FullPath(),
			logging.FieldStatus, c.Writer.Status(),
			logging.FieldDuration, time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStoredDiff(c *gin.Context) {
	currentID, previousID := c.Param("current"), c.Param("previous")

	cur, prev, err := blobstore.FetchPair(c.Request.Context(), s.fetcher, currentID, previousID)
	if err != nil {
		status := statusForError(err)
		s.opts.Logger.Warn("fetch failed", logging.FieldCurrent, currentID, logging.FieldPrevious, previousID, logging.FieldStatus, status, logging.FieldError, err)
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	resp := NewDiffResponse(presentation.New(cur.Content, prev.Content, s.opts.PresentationOptions...))
	resp.CurrentID, resp.PreviousID = currentID, previousID
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRawDiff(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var req diffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, NewDiffResponse(presentation.New(*req.Current, *req.Previous, s.opts.PresentationOptions...)))
}

func statusForError(err error) int {
	var apiErr *blobstore.APIError
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
