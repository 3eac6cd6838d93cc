// Package server exposes the request router over loopback HTTP. It accepts
// the desktop shell's request envelope on POST /api-request and also serves
// every route directly by method and path.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/tilrettelegging/internal/router"
	"github.com/mesh-intelligence/tilrettelegging/internal/sqlite"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// DefaultAddr binds to loopback only; the server has no authentication.
const DefaultAddr = "127.0.0.1:3001"

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Config holds the server settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server holds the state for the HTTP server.
type Server struct {
	config Config
	store  types.Store
	router *router.Router
	engine *gin.Engine
	logger zerolog.Logger
	http   *http.Server
}

// New builds a server over store and rt. The store must already be attached.
func New(config Config, store types.Store, rt *router.Router, logger zerolog.Logger) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		config: config,
		store:  store,
		router: rt,
		engine: gin.New(),
		logger: logger,
	}
	s.engine.Use(gin.Recovery(), requestID(), s.logRequests())

	s.engine.GET("/health", s.health)
	s.engine.POST("/api-request", s.envelope)
	s.engine.GET("/reports/group-members/*name", s.groupReport)
	s.engine.NoRoute(s.direct)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled
// or the process receives SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		serverErrors <- s.http.Serve(ln)
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
	case <-ctx.Done():
		s.logger.Info().Msg("context cancelled, shutting down")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the HTTP server. The store is left attached;
// its owner detaches it.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		return fmt.Errorf("shutting down http: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	v, err := s.store.SchemaVersion()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "schema_version": v})
}

// envelope handles the desktop shell's request envelope.
func (s *Server) envelope(c *gin.Context) {
	var req router.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := router.Response{Err: fmt.Errorf("%w: %v", types.ErrInvalidData, err)}
		c.JSON(resp.Status(), resp)
		return
	}
	resp := s.router.Dispatch(req)
	c.JSON(resp.Status(), resp)
}

// direct dispatches a plain HTTP request by its own method, path, query and body.
func (s *Server) direct(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		resp := router.Response{Err: fmt.Errorf("%w: reading body: %v", types.ErrInvalidData, err)}
		c.JSON(resp.Status(), resp)
		return
	}
	endpoint := c.Request.URL.EscapedPath()
	if q := c.Request.URL.RawQuery; q != "" {
		endpoint += "?" + q
	}
	resp := s.router.Dispatch(router.Request{
		Method:   c.Request.Method,
		Endpoint: endpoint,
		Body:     body,
	})
	c.JSON(resp.Status(), resp)
}

// groupReport streams a group's member list as an xlsx attachment.
func (s *Server) groupReport(c *gin.Context) {
	group := strings.TrimPrefix(c.Param("name"), "/")
	if group == "" {
		resp := router.Response{Err: fmt.Errorf("%w: group name is required", types.ErrInvalidData)}
		c.JSON(resp.Status(), resp)
		return
	}

	var buf bytes.Buffer
	if err := s.store.ExportGroup(group, &buf); err != nil {
		resp := router.Response{Err: err}
		c.JSON(resp.Status(), resp)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": sqlite.ExportFileName(group),
	}))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// requestID assigns each request a UUIDv7 id, reusing one sent by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			if v7, err := uuid.NewV7(); err == nil {
				id = v7.String()
			} else {
				id = uuid.NewString()
			}
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := s.logger.Info()
		if status >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		ev.Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
