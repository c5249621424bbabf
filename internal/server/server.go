// Package server exposes scans, single analyses and the judge roster over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/adjury/internal/judge"
	"github.com/ppiankov/adjury/internal/model"
	"github.com/ppiankov/adjury/internal/pipeline"
)

// Scanner runs scans and analyses and knows which judges it accepts
type Scanner interface {
	RunScan(ctx context.Context, req model.ScanRequest) (*model.BatchResult, error)
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalysisResult, error)
	Registry() *judge.Registry
}

// Server is the HTTP API
type Server struct {
	scanner Scanner
	logger  *zap.Logger
	router  *gin.Engine
}

// New builds the router. Gin runs in release mode; requests are logged with zap.
func New(scanner Scanner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{scanner: scanner, logger: logger, router: gin.New()}
	s.router.Use(gin.Recovery(), s.logRequests)

	s.router.GET("/health", s.health)
	api := s.router.Group("/api")
	{
		api.GET("/judges", s.listJudges)
		api.GET("/judges/:id", s.getJudge)
		api.POST("/scan", s.scan)
		api.POST("/analyze", s.analyze)
	}
	return s
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listJudges(c *gin.Context) {
	reg := s.scanner.Registry()
	c.IndentedJSON(http.StatusOK, gin.H{
		"judges":     reg.List(),
		"categories": reg.Categories(),
	})
}

func (s *Server) getJudge(c *gin.Context) {
	id := c.Param("id")
	j, ok := s.scanner.Registry().Lookup(id)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "unknown judge " + id})
		return
	}
	c.IndentedJSON(http.StatusOK, j)
}

func (s *Server) scan(c *gin.Context) {
	var req model.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.scanner.RunScan(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, zap.String("query", req.Query))
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

func (s *Server) analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.scanner.Analyze(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, zap.Bool("image", req.ImageBase64 != ""))
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}

// fail maps caller mistakes to 400 and everything else to 502
func (s *Server) fail(c *gin.Context, err error, fields ...zap.Field) {
	if errors.Is(err, pipeline.ErrInvalidPanel) || errors.Is(err, pipeline.ErrInvalidRequest) {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.logger.Error("request failed", append(fields, zap.String("path", c.FullPath()), zap.Error(err))...)
	c.IndentedJSON(http.StatusBadGateway, gin.H{"message": err.Error()})
}
