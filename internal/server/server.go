// Package server exposes the portfolio over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/sheetfolio/internal/content"
	"github.com/Zachkp/sheetfolio/internal/sheet"
	"github.com/Zachkp/sheetfolio/internal/site"
	"github.com/Zachkp/sheetfolio/web"
)

// StateHeader reports the loader's terminal state for the response.
const StateHeader = "X-Content-State"

const (
	htmlContentType = "text/html; charset=utf-8"
	shutdownTimeout = 10 * time.Second
)

// Server routes page, fragment and content requests to an assembler.
type Server struct {
	router *gin.Engine
	site   *site.Assembler
	logger *zap.Logger
}

// New wires the routes. Call gin.SetMode before New to pick the mode.
func New(assembler *site.Assembler, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: gin.New(),
		site:   assembler,
		logger: logger.With(zap.String("component", "http")),
	}

	assets, err := web.StaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open static assets")
	}

	r := s.router
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	r.StaticFS("/static", http.FS(assets))

	r.GET("/", s.handlePage)
	r.GET("/fragments/:kind", s.handleFragment)
	r.GET("/api/content", s.handleContent)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx ends, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	return nil
}

func (s *Server) handlePage(c *gin.Context) {
	p, err := s.site.Assemble(c.Request.Context(), c.Query("category"))
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Sorry, the page could not be rendered.")
		return
	}
	markup, err := p.HTML()
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Sorry, the page could not be rendered.")
		return
	}
	c.Header(StateHeader, p.Result.State.String())
	c.Data(http.StatusOK, htmlContentType, []byte(markup))
}

func (s *Server) handleFragment(c *gin.Context) {
	kind, err := site.KindOf(c.Param("kind"))
	if err != nil {
		c.String(http.StatusNotFound, "Unknown section.")
		return
	}
	p, err := s.site.Assemble(c.Request.Context(), c.Query("category"))
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Sorry, this section could not be rendered.")
		return
	}
	frag, err := p.Fragment(kind)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Sorry, this section could not be rendered.")
		return
	}
	c.Header(StateHeader, p.Result.State.String())
	c.Data(http.StatusOK, htmlContentType, []byte(frag))
}

func (s *Server) handleContent(c *gin.Context) {
	groups, err := s.site.Content(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
		return
	}
	c.JSON(http.StatusOK, nonNil(groups))
}

// nonNil keeps empty groups as [] rather than null in JSON.
func nonNil(g content.Groups) content.Groups {
	if g.Certificates == nil {
		g.Certificates = []sheet.Record{}
	}
	if g.Projects == nil {
		g.Projects = []sheet.Record{}
	}
	if g.Skills == nil {
		g.Skills = []sheet.Record{}
	}
	return g
}
