// Package api exposes the analysis service over HTTP.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gospc/app"
	"gospc/internal"
)

// Server wires the gin router to the quality service
type Server struct {
	svc    *app.QualityService
	router *gin.Engine
	logger *internal.Logger
}

// NewServer builds the router. Set the gin mode before calling.
func NewServer(svc *app.QualityService) *Server {
	s := &Server{
		svc:    svc,
		router: gin.New(),
		logger: internal.DefaultLogger.With("API"),
	}
	s.router.Use(gin.Recovery(), metricsMiddleware())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/capability", s.capability)
		v1.POST("/hypothesis", s.hypothesis)
		v1.POST("/battery", s.battery)
		v1.POST("/gage", s.gage)
		v1.GET("/specs", s.specs)
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
